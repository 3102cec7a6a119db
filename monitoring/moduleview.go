package monitoring

import (
	"github.com/sarchlab/pulsesim/network"
	"github.com/sarchlab/pulsesim/sim"
)

// moduleView is a snapshot of one module and its share of the session state.
type moduleView struct {
	Name    string
	Kind    string
	Outputs []string
	On      bool
	Inputs  []inputView
}

type inputView struct {
	Sender string
	Value  string
}

func newModuleView(s *sim.Simulator, mod *network.Module) *moduleView {
	g := s.Graph()

	view := &moduleView{
		Name: mod.Name,
		Kind: mod.Kind.String(),
	}

	for _, out := range mod.Outputs {
		view.Outputs = append(view.Outputs, g.Name(out))
	}

	switch mod.Kind {
	case network.FlipFlop:
		view.On = s.State().IsOn(mod.ID)
	case network.Conjunction:
		for _, in := range g.Inputs(mod.ID) {
			v, err := s.State().Memory(mod.ID, in)
			if err != nil {
				panic(err)
			}

			view.Inputs = append(view.Inputs, inputView{
				Sender: g.Name(in),
				Value:  v.String(),
			})
		}
	}

	return view
}
