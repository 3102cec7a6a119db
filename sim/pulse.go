package sim

import (
	"fmt"

	"github.com/sarchlab/pulsesim/network"
)

// Value is the level carried by a pulse.
type Value uint8

// Pulse values.
const (
	Low Value = iota
	High
)

func (v Value) String() string {
	if v == High {
		return "high"
	}

	return "low"
}

// Button is the virtual sender of the pulse that starts every press.
const Button network.ID = -1

// ButtonName is how the virtual sender is reported.
const ButtonName = "button"

// A Pulse is a value travelling from one node to another.
type Pulse struct {
	From  network.ID
	To    network.ID
	Value Value
}

// String prints the pulse with numeric node IDs, as in "3 -high-> 5". Use
// Describe to print names.
func (p Pulse) String() string {
	return fmt.Sprintf("%d -%s-> %d", p.From, p.Value, p.To)
}

// Describe prints the pulse with the node names given by name, as in
// "a -high-> inv".
func (p Pulse) Describe(name func(network.ID) string) string {
	return fmt.Sprintf("%s -%s-> %s", name(p.From), p.Value, name(p.To))
}

// Tally counts delivered pulses by value.
type Tally struct {
	Low  uint64
	High uint64
}

// Add counts one pulse.
func (t *Tally) Add(v Value) {
	if v == High {
		t.High++
		return
	}

	t.Low++
}

// Total returns the number of pulses counted.
func (t Tally) Total() uint64 {
	return t.Low + t.High
}

// Product returns Low multiplied by High.
func (t Tally) Product() uint64 {
	return t.Low * t.High
}

// A PressSummary describes what happened during one press.
type PressSummary struct {
	Press uint64
	Tally Tally
}
