package sim

import (
	"log"
)

// PulseLogger is a hook that prints every delivered pulse. Pulses of a
// Simulator are printed with node names, others with node IDs.
type PulseLogger struct {
	LogHookBase
}

// NewPulseLogger returns a new PulseLogger which will write in to the logger
func NewPulseLogger(logger *log.Logger) *PulseLogger {
	h := new(PulseLogger)
	h.Logger = logger
	return h
}

// Func writes the pulse information into the logger
func (h *PulseLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosPulse {
		return
	}

	p, ok := ctx.Item.(Pulse)
	if !ok {
		return
	}

	s, ok := ctx.Domain.(*Simulator)
	if !ok {
		h.Logger.Printf("%s", p)
		return
	}

	h.Logger.Printf("%d, %s", s.Presses(), p.Describe(s.NodeName))
}
