package sim

import (
	"fmt"

	"github.com/sarchlab/pulsesim/network"
)

// MissingInputError is raised when a conjunction receives a pulse from a
// sender that is not one of its statically known inputs. It means the graph
// and the state disagree and the session cannot continue.
type MissingInputError struct {
	Conjunction string
	Sender      string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("conjunction %q has no input from %q",
		e.Conjunction, e.Sender)
}

// State is the mutable part of one session: the bit of every flip-flop and
// the remembered input values of every conjunction. All conjunction memories
// live in one slice, addressed through per-module offsets.
type State struct {
	graph   *network.Graph
	on      []bool
	offsets []int
	memory  []Value
	highs   []int
}

// NewState creates the initial state of a session: all flip-flops off and
// every conjunction input remembered as low.
func NewState(g *network.Graph) *State {
	s := &State{
		graph:   g,
		on:      make([]bool, g.NumModules()),
		offsets: make([]int, g.NumModules()),
		highs:   make([]int, g.NumModules()),
	}

	size := 0
	for _, m := range g.Modules() {
		s.offsets[m.ID] = -1

		if m.Kind == network.Conjunction {
			s.offsets[m.ID] = size
			size += len(g.Inputs(m.ID))
		}
	}

	s.memory = make([]Value, size)

	return s
}

// Graph returns the graph the state is laid out for.
func (s *State) Graph() *network.Graph {
	return s.graph
}

// Reset puts the state back to its initial value.
func (s *State) Reset() {
	clear(s.on)
	clear(s.highs)

	for i := range s.memory {
		s.memory[i] = Low
	}
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	return &State{
		graph:   s.graph,
		on:      append([]bool(nil), s.on...),
		offsets: s.offsets,
		memory:  append([]Value(nil), s.memory...),
		highs:   append([]int(nil), s.highs...),
	}
}

// Equal tells if two states of the same graph hold the same values.
func (s *State) Equal(other *State) bool {
	if s.graph != other.graph {
		return false
	}

	for i := range s.on {
		if s.on[i] != other.on[i] {
			return false
		}
	}

	for i := range s.memory {
		if s.memory[i] != other.memory[i] {
			return false
		}
	}

	return true
}

// IsOn returns the bit of a flip-flop.
func (s *State) IsOn(id network.ID) bool {
	return s.on[id]
}

// Toggle flips the bit of a flip-flop and returns the new bit.
func (s *State) Toggle(id network.ID) bool {
	s.on[id] = !s.on[id]
	return s.on[id]
}

// Memory returns the value a conjunction remembers from one of its inputs.
func (s *State) Memory(conj, sender network.ID) (Value, error) {
	slot, err := s.slot(conj, sender)
	if err != nil {
		return Low, err
	}

	return s.memory[s.offsets[conj]+slot], nil
}

// Remember overwrites the value a conjunction remembers from one of its
// inputs and reports whether all its inputs are now high.
func (s *State) Remember(conj, sender network.ID, v Value) (bool, error) {
	slot, err := s.slot(conj, sender)
	if err != nil {
		return false, err
	}

	cell := &s.memory[s.offsets[conj]+slot]
	if *cell != v {
		if v == High {
			s.highs[conj]++
		} else {
			s.highs[conj]--
		}

		*cell = v
	}

	return s.AllHigh(conj), nil
}

// AllHigh tells if a conjunction remembers high from every input.
func (s *State) AllHigh(conj network.ID) bool {
	return s.highs[conj] == len(s.graph.Inputs(conj))
}

func (s *State) slot(conj, sender network.ID) (int, error) {
	slot, found := s.graph.InputSlot(conj, sender)
	if !found {
		return 0, &MissingInputError{
			Conjunction: s.graph.Name(conj),
			Sender:      nodeName(s.graph, sender),
		}
	}

	return slot, nil
}

func nodeName(g *network.Graph, id network.ID) string {
	if id == Button {
		return ButtonName
	}

	return g.Name(id)
}
