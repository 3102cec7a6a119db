package analysis

import (
	"fmt"

	"github.com/sarchlab/pulsesim/network"
	"github.com/sarchlab/pulsesim/sim"
)

// Defaults of the CycleAnalyzer.
const (
	DefaultSafetyBound uint64 = 1 << 20
	DefaultOccurrences        = 2
)

// CycleNotFoundError is returned when the analyzer runs out of presses before
// it has seen enough high emissions from the watched module.
type CycleNotFoundError struct {
	Node  string
	Bound uint64
	Seen  []uint64
}

func (e *CycleNotFoundError) Error() string {
	if len(e.Seen) == 0 {
		return fmt.Sprintf("%q never sent a high pulse within %d presses",
			e.Node, e.Bound)
	}

	return fmt.Sprintf("%q sent a high pulse only at presses %v within %d presses",
		e.Node, e.Seen, e.Bound)
}

// NonPeriodicError is returned when the high emissions of the watched module
// are not at whole multiples of the first one.
type NonPeriodicError struct {
	Node        string
	Occurrences []uint64
	Press       uint64
}

func (e *NonPeriodicError) Error() string {
	return fmt.Sprintf(
		"%q is not periodic: high pulses at presses %v, detected at press %d",
		e.Node, e.Occurrences, e.Press)
}

// A Cycle is the confirmed period of a module.
type Cycle struct {
	Node        string
	Period      uint64
	Occurrences []uint64
}

// A CycleAnalyzer finds the first press at which a module sends a high pulse.
// Every analysis runs on its own fresh session, so one analyzer can serve
// several goroutines as long as its hooks are safe for concurrent use.
//
// The first press is only trusted as the period of the module after the
// module has been seen firing at that many presses again: the k-th press with
// a high pulse must be exactly k times the first.
type CycleAnalyzer struct {
	safetyBound uint64
	occurrences int
	hooks       []sim.Hook
}

// CycleAnalyzerBuilder can build CycleAnalyzers.
type CycleAnalyzerBuilder struct {
	safetyBound uint64
	occurrences int
	hooks       []sim.Hook
}

// MakeCycleAnalyzerBuilder returns a builder with default parameters.
func MakeCycleAnalyzerBuilder() CycleAnalyzerBuilder {
	return CycleAnalyzerBuilder{
		safetyBound: DefaultSafetyBound,
		occurrences: DefaultOccurrences,
	}
}

// WithSafetyBound sets the maximum number of presses of one analysis. The
// confirming occurrences must also fall within the bound.
func (b CycleAnalyzerBuilder) WithSafetyBound(n uint64) CycleAnalyzerBuilder {
	b.safetyBound = n
	return b
}

// WithOccurrences sets how many presses with a high pulse must be observed
// before the period is accepted. One trusts the first press blindly.
func (b CycleAnalyzerBuilder) WithOccurrences(n int) CycleAnalyzerBuilder {
	b.occurrences = n
	return b
}

// WithHooks adds hooks to the simulators used for the analysis.
func (b CycleAnalyzerBuilder) WithHooks(hooks ...sim.Hook) CycleAnalyzerBuilder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), hooks...)
	return b
}

// Build creates a new CycleAnalyzer.
func (b CycleAnalyzerBuilder) Build() *CycleAnalyzer {
	if b.occurrences < 1 {
		panic("occurrences must be at least 1")
	}

	if b.safetyBound == 0 {
		panic("safety bound must be positive")
	}

	return &CycleAnalyzer{
		safetyBound: b.safetyBound,
		occurrences: b.occurrences,
		hooks:       b.hooks,
	}
}

// FirstHighPress returns the first press at which watched sends a high pulse,
// using a fresh session and the default number of occurrences.
//
// The safety bound covers the confirming occurrences too: with the default of
// two, a module first firing at press p needs a bound of at least 2p, and a
// smaller bound returns a CycleNotFoundError whose Seen lists p.
func FirstHighPress(
	g *network.Graph,
	watched string,
	safetyBound uint64,
) (uint64, error) {
	return MakeCycleAnalyzerBuilder().
		WithSafetyBound(safetyBound).
		Build().
		FirstHighPress(g, watched)
}

// FirstHighPress returns the first press at which watched sends a high pulse.
// The press is only returned once all occurrences are seen within the bound.
func (a *CycleAnalyzer) FirstHighPress(
	g *network.Graph,
	watched string,
) (uint64, error) {
	c, err := a.Analyze(g, watched)
	if err != nil {
		return 0, err
	}

	return c.Period, nil
}

// Analyze presses the button of a fresh session until watched has sent high
// pulses at the configured number of presses, and checks that these presses
// are evenly spaced from press zero.
func (a *CycleAnalyzer) Analyze(g *network.Graph, watched string) (Cycle, error) {
	m, found := g.Lookup(watched)
	if !found {
		return Cycle{}, unknownModule(watched)
	}

	s := sim.MakeBuilder().WithGraph(g).Build("CycleAnalyzer." + watched)
	w := &highWatcher{node: m.ID}
	s.AcceptHook(w)

	for _, h := range a.hooks {
		s.AcceptHook(h)
	}

	for press := uint64(1); press <= a.safetyBound; press++ {
		if err := s.Press(); err != nil {
			return Cycle{}, err
		}

		if len(w.presses) == 0 {
			continue
		}

		if !w.periodic(press) {
			return Cycle{}, &NonPeriodicError{
				Node:        watched,
				Occurrences: w.presses,
				Press:       press,
			}
		}

		if len(w.presses) >= a.occurrences {
			return Cycle{
				Node:        watched,
				Period:      w.presses[0],
				Occurrences: w.presses,
			}, nil
		}
	}

	return Cycle{}, &CycleNotFoundError{
		Node:  watched,
		Bound: a.safetyBound,
		Seen:  w.presses,
	}
}

// highWatcher records the presses during which one node sends a high pulse.
type highWatcher struct {
	node    network.ID
	presses []uint64
}

func (w *highWatcher) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosPulse {
		return
	}

	p := ctx.Item.(sim.Pulse)
	if p.From != w.node || p.Value != sim.High {
		return
	}

	press := ctx.Domain.(*sim.Simulator).Presses()
	if n := len(w.presses); n > 0 && w.presses[n-1] == press {
		return
	}

	w.presses = append(w.presses, press)
}

// periodic tells if the presses seen so far, up to and including press, are
// consistent with a period equal to the first press.
func (w *highWatcher) periodic(press uint64) bool {
	first := w.presses[0]
	n := uint64(len(w.presses))
	last := w.presses[n-1]

	if last != n*first {
		return false
	}

	return last == press || press < last+first
}
