package tracing

import (
	"github.com/rs/xid"

	"github.com/sarchlab/pulsesim/datarecording"
	"github.com/sarchlab/pulsesim/sim"
)

// DBTracer writes a summary of every press, and optionally the pulses that
// pass its filter, into a DataRecorder.
type DBTracer struct {
	recorder datarecording.DataRecorder
	session  string
	filter   PulseFilter
	seq      uint64
}

// NewDBTracer creates a DBTracer for one session and creates its tables. The
// tracer records pulses only when a filter is given. An empty session name
// generates a unique one.
func NewDBTracer(
	recorder datarecording.DataRecorder,
	session string,
	filter PulseFilter,
) *DBTracer {
	if session == "" {
		session = xid.New().String()
	}

	t := &DBTracer{
		recorder: recorder,
		session:  session,
		filter:   filter,
	}

	t.createTables()

	return t
}

func (t *DBTracer) createTables() {
	tables := make(map[string]bool)
	for _, name := range t.recorder.ListTables() {
		tables[name] = true
	}

	if !tables[datarecording.PressTable] {
		t.recorder.CreateTable(datarecording.PressTable,
			datarecording.PressRecord{})
	}

	if t.filter != nil && !tables[datarecording.PulseTable] {
		t.recorder.CreateTable(datarecording.PulseTable,
			datarecording.PulseRecord{})
	}
}

// Session returns the name of the session recorded.
func (t *DBTracer) Session() string {
	return t.session
}

// Func records the pulse or the press summary.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosPressStart:
		t.seq = 0
	case sim.HookPosPulse:
		t.recordPulse(ctx)
	case sim.HookPosPressEnd:
		t.recordPress(ctx.Detail.(sim.PressSummary))
	}
}

func (t *DBTracer) recordPulse(ctx sim.HookCtx) {
	s := ctx.Domain.(*sim.Simulator)
	p := ctx.Item.(sim.Pulse)
	t.seq++

	if t.filter == nil || !t.filter(s, p) {
		return
	}

	t.recorder.InsertData(datarecording.PulseTable, datarecording.PulseRecord{
		Session: t.session,
		Press:   s.Presses(),
		Seq:     t.seq,
		Sender:  s.NodeName(p.From),
		Target:  s.NodeName(p.To),
		High:    p.Value == sim.High,
	})
}

func (t *DBTracer) recordPress(summary sim.PressSummary) {
	t.recorder.InsertData(datarecording.PressTable, datarecording.PressRecord{
		Session: t.session,
		Press:   summary.Press,
		Low:     summary.Tally.Low,
		High:    summary.Tally.High,
	})
}

// Terminate flushes the recorder.
func (t *DBTracer) Terminate() {
	t.recorder.Flush()
}
