// Package network defines the static structure of a pulse network: typed
// modules, their ordered wiring, and the reverse edges that seed the memory
// of conjunction modules.
package network

// Kind is the type of a module.
type Kind int

// The closed set of module kinds.
const (
	Broadcaster Kind = iota
	FlipFlop
	Conjunction
)

func (k Kind) String() string {
	switch k {
	case Broadcaster:
		return "broadcaster"
	case FlipFlop:
		return "flip-flop"
	case Conjunction:
		return "conjunction"
	default:
		return "unknown"
	}
}

// Valid tells if k is one of the module kinds.
func (k Kind) Valid() bool {
	return k >= Broadcaster && k <= Conjunction
}

// Prefix returns the character that marks the kind in the text format. The
// broadcaster has no prefix.
func (k Kind) Prefix() string {
	switch k {
	case FlipFlop:
		return "%"
	case Conjunction:
		return "&"
	default:
		return ""
	}
}

// ID is the dense integer identity of a name in a Graph. Every name that
// appears in the network gets an ID, including sinks.
type ID int

// A Module is a declared node of the network.
type Module struct {
	ID      ID
	Name    string
	Kind    Kind
	Outputs []ID
}

// A Record is the declaration of one module, before names are interned.
type Record struct {
	Kind    Kind
	Name    string
	Outputs []string
}
