package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/pulsesim/network"
)

// ErrNoPredecessor is returned when nothing sends pulses to the sink.
var ErrNoPredecessor = errors.New("sink has no predecessor")

// AmbiguousPredecessorError is returned when the sink is fed by more than one
// module.
type AmbiguousPredecessorError struct {
	Sink         string
	Predecessors []string
}

func (e *AmbiguousPredecessorError) Error() string {
	return fmt.Sprintf("sink %q has %d predecessors (%s), expected one",
		e.Sink, len(e.Predecessors), strings.Join(e.Predecessors, ", "))
}

// NotConjunctionError is returned when the predecessor of the sink is not a
// conjunction.
type NotConjunctionError struct {
	Name string
	Kind network.Kind
}

func (e *NotConjunctionError) Error() string {
	return fmt.Sprintf("predecessor %q is a %s, expected a conjunction",
		e.Name, e.Kind)
}

// DiscoverGates returns the gates that control the sink. The sink must have
// exactly one predecessor, which must be a conjunction; the inputs of that
// conjunction are the gates.
func DiscoverGates(g *network.Graph, sink string) ([]string, error) {
	id, found := g.ID(sink)
	if !found {
		return nil, unknownModule(sink)
	}

	preds := g.Predecessors(id)
	switch len(preds) {
	case 0:
		return nil, fmt.Errorf("%q: %w", sink, ErrNoPredecessor)
	case 1:
	default:
		names := make([]string, 0, len(preds))
		for _, p := range preds {
			names = append(names, g.Name(p))
		}

		return nil, &AmbiguousPredecessorError{Sink: sink, Predecessors: names}
	}

	hub := g.Module(preds[0])
	if hub.Kind != network.Conjunction {
		return nil, &NotConjunctionError{Name: hub.Name, Kind: hub.Kind}
	}

	return g.InputsOf(hub.Name), nil
}
