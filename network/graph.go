package network

import (
	"errors"
	"fmt"
)

// ErrMultipleEntries is returned when more than one broadcaster is declared.
var ErrMultipleEntries = errors.New("network has more than one broadcaster")

// A Graph is the immutable structure of a pulse network. Names are interned
// into dense IDs; declared modules take the IDs [0, NumModules()) in
// declaration order, and sinks follow in order of first reference.
type Graph struct {
	names   []string
	index   map[string]ID
	modules []*Module
	inputs  [][]ID
	slots   []map[ID]int
	entry   ID
}

// Build interns the records and computes the reverse-edge index.
func Build(records []Record) (*Graph, error) {
	g := &Graph{
		index: make(map[string]ID),
		entry: -1,
	}

	for _, r := range records {
		if err := g.declare(r); err != nil {
			return nil, err
		}
	}

	if g.entry < 0 {
		return nil, ErrNoEntry
	}

	for i, r := range records {
		m := g.modules[i]
		m.Outputs = make([]ID, 0, len(r.Outputs))

		for _, out := range r.Outputs {
			if out == "" {
				return nil, fmt.Errorf("output of %q: %w", r.Name, ErrEmptyName)
			}

			m.Outputs = append(m.Outputs, g.intern(out))
		}
	}

	g.buildReverseEdges()

	return g, nil
}

func (g *Graph) declare(r Record) error {
	if r.Name == "" {
		return ErrEmptyName
	}

	if !r.Kind.Valid() {
		return &UnknownKindError{Name: r.Name, Kind: r.Kind}
	}

	if _, found := g.index[r.Name]; found {
		return &DuplicateModuleError{Name: r.Name}
	}

	id := g.intern(r.Name)
	g.modules = append(g.modules, &Module{
		ID:   id,
		Name: r.Name,
		Kind: r.Kind,
	})

	if r.Kind == Broadcaster {
		if g.entry >= 0 {
			return fmt.Errorf("%q and %q: %w",
				g.names[g.entry], r.Name, ErrMultipleEntries)
		}

		g.entry = id
	}

	return nil
}

func (g *Graph) intern(name string) ID {
	if id, found := g.index[name]; found {
		return id
	}

	id := ID(len(g.names))
	g.names = append(g.names, name)
	g.index[name] = id

	return id
}

func (g *Graph) buildReverseEdges() {
	g.inputs = make([][]ID, len(g.names))
	g.slots = make([]map[ID]int, len(g.names))

	for _, m := range g.modules {
		for _, out := range m.Outputs {
			in := g.inputs[out]
			if len(in) > 0 && in[len(in)-1] == m.ID {
				continue
			}

			g.inputs[out] = append(in, m.ID)
		}
	}

	for _, m := range g.modules {
		if m.Kind != Conjunction {
			continue
		}

		slots := make(map[ID]int, len(g.inputs[m.ID]))
		for i, sender := range g.inputs[m.ID] {
			slots[sender] = i
		}

		g.slots[m.ID] = slots
	}
}

// NumNodes returns the number of interned names, sinks included.
func (g *Graph) NumNodes() int {
	return len(g.names)
}

// NumModules returns the number of declared modules.
func (g *Graph) NumModules() int {
	return len(g.modules)
}

// Entry returns the ID of the broadcaster.
func (g *Graph) Entry() ID {
	return g.entry
}

// ID returns the interned ID of a name.
func (g *Graph) ID(name string) (ID, bool) {
	id, found := g.index[name]
	return id, found
}

// Name returns the name of an ID.
func (g *Graph) Name(id ID) string {
	if id < 0 || int(id) >= len(g.names) {
		return fmt.Sprintf("#%d", id)
	}

	return g.names[id]
}

// Module returns the module with the given ID, or nil if the ID is a sink.
func (g *Graph) Module(id ID) *Module {
	if id < 0 || int(id) >= len(g.modules) {
		return nil
	}

	return g.modules[id]
}

// Modules returns all declared modules in declaration order.
func (g *Graph) Modules() []*Module {
	return g.modules
}

// Sinks returns the names that are referenced but never declared.
func (g *Graph) Sinks() []string {
	sinks := make([]string, 0, len(g.names)-len(g.modules))
	for _, name := range g.names[len(g.modules):] {
		sinks = append(sinks, name)
	}

	return sinks
}

// Lookup finds a declared module by name.
func (g *Graph) Lookup(name string) (*Module, bool) {
	id, found := g.index[name]
	if !found {
		return nil, false
	}

	m := g.Module(id)

	return m, m != nil
}

// Predecessors returns the IDs of all modules that have an edge into id,
// ordered by ID.
func (g *Graph) Predecessors(id ID) []ID {
	if id < 0 || int(id) >= len(g.inputs) {
		return nil
	}

	return g.inputs[id]
}

// Inputs returns the input set of a conjunction, ordered by ID. It is nil for
// any other kind of node.
func (g *Graph) Inputs(id ID) []ID {
	if g.slots == nil || id < 0 || int(id) >= len(g.slots) ||
		g.slots[id] == nil {
		return nil
	}

	return g.inputs[id]
}

// InputsOf returns the names of the inputs of a conjunction.
func (g *Graph) InputsOf(name string) []string {
	id, found := g.index[name]
	if !found {
		return nil
	}

	ids := g.Inputs(id)
	names := make([]string, 0, len(ids))
	for _, in := range ids {
		names = append(names, g.names[in])
	}

	return names
}

// InputSlot returns the position of sender in the memory of conjunction conj.
func (g *Graph) InputSlot(conj, sender ID) (int, bool) {
	if conj < 0 || int(conj) >= len(g.slots) || g.slots[conj] == nil {
		return 0, false
	}

	slot, found := g.slots[conj][sender]

	return slot, found
}
