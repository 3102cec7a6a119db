package analysis

import (
	"github.com/sarchlab/pulsesim/network"
	"github.com/sarchlab/pulsesim/sim"
)

// CountAfter presses the button the given number of times over one session
// and returns how many low and high pulses were delivered, the button pulses
// included.
func CountAfter(g *network.Graph, presses uint64) (low, high uint64, err error) {
	tally, err := MakeCounterBuilder().Build().Count(g, presses)

	return tally.Low, tally.High, err
}

// A Counter counts pulses over consecutive presses of one session.
type Counter struct {
	hooks    []sim.Hook
	progress sim.ProgressReporter
}

// CounterBuilder can build Counters.
type CounterBuilder struct {
	hooks    []sim.Hook
	progress sim.ProgressReporter
}

// MakeCounterBuilder returns a CounterBuilder with no hooks.
func MakeCounterBuilder() CounterBuilder {
	return CounterBuilder{}
}

// WithHooks adds hooks to every simulator created by the counter.
func (b CounterBuilder) WithHooks(hooks ...sim.Hook) CounterBuilder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), hooks...)
	return b
}

// WithProgress sets where finished presses are reported.
func (b CounterBuilder) WithProgress(p sim.ProgressReporter) CounterBuilder {
	b.progress = p
	return b
}

// Build creates a new Counter.
func (b CounterBuilder) Build() *Counter {
	return &Counter{
		hooks:    b.hooks,
		progress: b.progress,
	}
}

// NewRunner creates a fresh session over g, ready to be pressed.
func (c *Counter) NewRunner(g *network.Graph) *sim.Runner {
	s := sim.MakeBuilder().WithGraph(g).Build("Counter")
	for _, h := range c.hooks {
		s.AcceptHook(h)
	}

	r := sim.NewRunner(s)
	if c.progress != nil {
		r.WithProgress(c.progress)
	}

	return r
}

// Count runs the presses and returns the tally of the session.
func (c *Counter) Count(g *network.Graph, presses uint64) (sim.Tally, error) {
	return c.Run(c.NewRunner(g), presses)
}

// Run runs the presses on an existing runner and returns its tally.
func (c *Counter) Run(r *sim.Runner, presses uint64) (sim.Tally, error) {
	err := r.Run(presses)

	var tally sim.Tally
	r.Inspect(func(s *sim.Simulator) { tally = s.Tally() })

	return tally, err
}
