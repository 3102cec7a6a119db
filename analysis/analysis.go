// Package analysis drives pulse network simulations: it counts pulses over a
// number of presses, finds the period of gate modules, and combines periods
// into the press at which all gates fire together.
package analysis

import (
	"errors"
	"fmt"
)

// ErrUnknownModule is returned when a name does not refer to a declared
// module of the network.
var ErrUnknownModule = errors.New("unknown module")

func unknownModule(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownModule, name)
}
