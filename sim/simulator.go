package sim

import (
	"fmt"

	"github.com/sarchlab/pulsesim/network"
)

// A Simulator runs button presses over one session. Pulses are processed in
// strict arrival order: every pulse emitted while handling a pulse is appended
// to the tail of the same queue, so all pulses of one propagation depth are
// delivered before any pulse of the next depth.
//
// A Simulator is not safe for concurrent use. Independent sessions need
// independent simulators.
type Simulator struct {
	HookableBase

	name    string
	graph   *network.Graph
	state   *State
	queue   PulseQueue
	presses uint64
	tally   Tally
}

// Builder can build simulators.
type Builder struct {
	graph *network.Graph
	state *State
	queue PulseQueue
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithGraph sets the network to simulate.
func (b Builder) WithGraph(g *network.Graph) Builder {
	b.graph = g
	return b
}

// WithState sets the session state the simulator starts from. The simulator
// takes ownership of the state.
func (b Builder) WithState(s *State) Builder {
	b.state = s
	return b
}

// WithQueue sets the pulse queue used by the simulator.
func (b Builder) WithQueue(q PulseQueue) Builder {
	b.queue = q
	return b
}

// Build creates a new Simulator.
func (b Builder) Build(name string) *Simulator {
	if b.graph == nil {
		panic("simulator requires a graph")
	}

	s := &Simulator{
		name:  name,
		graph: b.graph,
		state: b.state,
		queue: b.queue,
	}

	if s.state == nil {
		s.state = NewState(b.graph)
	}

	if s.state.Graph() != b.graph {
		panic("state does not belong to the graph")
	}

	if s.queue == nil {
		s.queue = NewQueue()
	}

	return s
}

// NewSimulator creates a simulator with a fresh session over g.
func NewSimulator(g *network.Graph) *Simulator {
	return MakeBuilder().WithGraph(g).Build("Simulator")
}

// Name returns the name of the simulator.
func (s *Simulator) Name() string {
	return s.name
}

// Graph returns the simulated network.
func (s *Simulator) Graph() *network.Graph {
	return s.graph
}

// State returns the session state.
func (s *Simulator) State() *State {
	return s.state
}

// Presses returns the number of presses started in this session. While a
// press is running, it is the 1-based index of that press.
func (s *Simulator) Presses() uint64 {
	return s.presses
}

// Tally returns the pulses delivered since the session started.
func (s *Simulator) Tally() Tally {
	return s.tally
}

// NodeName returns the name of a node, including the virtual button.
func (s *Simulator) NodeName(id network.ID) string {
	return nodeName(s.graph, id)
}

// Reset starts a new session on the same graph.
func (s *Simulator) Reset() {
	s.state.Reset()
	s.queue.Reset()
	s.presses = 0
	s.tally = Tally{}
}

// Press sends one low pulse from the button to the broadcaster and processes
// pulses until the queue is empty.
func (s *Simulator) Press() error {
	s.presses++
	press := s.presses
	hooked := s.NumHooks() > 0

	if hooked {
		s.InvokeHook(HookCtx{Domain: s, Pos: HookPosPressStart, Item: press})
	}

	summary := PressSummary{Press: press}

	s.queue.Push(Pulse{From: Button, To: s.graph.Entry(), Value: Low})

	for s.queue.Len() > 0 {
		p := s.queue.Pop()

		s.tally.Add(p.Value)
		summary.Tally.Add(p.Value)

		if hooked {
			s.InvokeHook(HookCtx{Domain: s, Pos: HookPosPulse, Item: p})
		}

		m := s.graph.Module(p.To)
		if m == nil {
			continue
		}

		out, emits, err := s.transit(m, p)
		if err != nil {
			s.queue.Reset()
			return fmt.Errorf("press %d: %w", press, err)
		}

		if !emits {
			continue
		}

		for _, to := range m.Outputs {
			s.queue.Push(Pulse{From: m.ID, To: to, Value: out})
		}
	}

	if hooked {
		s.InvokeHook(HookCtx{
			Domain: s,
			Pos:    HookPosPressEnd,
			Item:   press,
			Detail: summary,
		})
	}

	return nil
}

// Deliver applies the transition of the receiver of p and returns the pulses
// it emits, in the receiver's output order. Pulses to sinks emit nothing.
// Deliver does not touch the queue or the tally.
func (s *Simulator) Deliver(p Pulse) ([]Pulse, error) {
	m := s.graph.Module(p.To)
	if m == nil {
		return nil, nil
	}

	out, emits, err := s.transit(m, p)
	if err != nil || !emits {
		return nil, err
	}

	pulses := make([]Pulse, 0, len(m.Outputs))
	for _, to := range m.Outputs {
		pulses = append(pulses, Pulse{From: m.ID, To: to, Value: out})
	}

	return pulses, nil
}

func (s *Simulator) transit(m *network.Module, p Pulse) (Value, bool, error) {
	switch m.Kind {
	case network.Broadcaster:
		return p.Value, true, nil
	case network.FlipFlop:
		if p.Value == High {
			return Low, false, nil
		}

		if s.state.Toggle(m.ID) {
			return High, true, nil
		}

		return Low, true, nil
	case network.Conjunction:
		allHigh, err := s.state.Remember(m.ID, p.From, p.Value)
		if err != nil {
			return Low, false, err
		}

		if allHigh {
			return Low, true, nil
		}

		return High, true, nil
	default:
		panic(fmt.Sprintf("unknown module kind %d", m.Kind))
	}
}
