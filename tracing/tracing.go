// Package tracing provides hooks that collect what happens during pulse
// network simulations, either counting in memory or writing into a
// datarecording.DataRecorder.
package tracing

import (
	"github.com/sarchlab/pulsesim/sim"
)

// A PulseFilter decides if a pulse should be traced.
type PulseFilter func(s *sim.Simulator, p sim.Pulse) bool

// AllPulses is a PulseFilter that accepts every pulse.
func AllPulses(*sim.Simulator, sim.Pulse) bool {
	return true
}

// HighPulses is a PulseFilter that accepts high pulses only.
func HighPulses(_ *sim.Simulator, p sim.Pulse) bool {
	return p.Value == sim.High
}
