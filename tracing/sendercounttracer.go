package tracing

import (
	"sync"

	"github.com/sarchlab/pulsesim/sim"
)

// SenderCountTracer counts the pulses each module sends.
type SenderCountTracer struct {
	filter PulseFilter
	lock   sync.Mutex

	names []string
	count map[string]uint64
}

// NewSenderCountTracer creates a new SenderCountTracer
func NewSenderCountTracer(filter PulseFilter) *SenderCountTracer {
	t := &SenderCountTracer{
		filter: filter,
		count:  make(map[string]uint64),
	}

	return t
}

// Func counts the pulse if it passes the filter.
func (t *SenderCountTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosPulse {
		return
	}

	s, ok := ctx.Domain.(*sim.Simulator)
	if !ok {
		return
	}

	p := ctx.Item.(sim.Pulse)
	if !t.filter(s, p) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.countSender(s.NodeName(p.From))
}

func (t *SenderCountTracer) countSender(name string) {
	_, ok := t.count[name]
	if !ok {
		t.names = append(t.names, name)
	}

	t.count[name]++
}

// GetSenderNames returns the senders seen, in order of first pulse.
func (t *SenderCountTracer) GetSenderNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.names...)
}

// GetCount returns the number of pulses counted for a sender.
func (t *SenderCountTracer) GetCount(name string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.count[name]
}
