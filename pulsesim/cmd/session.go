package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pulsesim/config"
	"github.com/sarchlab/pulsesim/datarecording"
	"github.com/sarchlab/pulsesim/sim"
	"github.com/sarchlab/pulsesim/tracing"
)

// session gathers the hooks requested by the configuration for one command.
type session struct {
	cmd    *cobra.Command
	hooks  []sim.Hook
	stats  *tracing.SenderCountTracer
	tracer *tracing.DBTracer
}

// newSession creates the hooks of a command. Recording is only possible for
// commands that run their presses one session after the other.
func newSession(
	cmd *cobra.Command,
	c config.Config,
	recordable bool,
) (*session, error) {
	s := &session{cmd: cmd}

	if c.LogPulses {
		s.hooks = append(s.hooks, sim.NewPulseLogger(pulseLogger(cmd)))
	}

	if c.Stats {
		s.stats = tracing.NewSenderCountTracer(tracing.HighPulses)
		s.hooks = append(s.hooks, s.stats)
	}

	if c.RecordPath != "" {
		if recordable {
			recorder, err := datarecording.New(c.RecordPath)
			if err != nil {
				return nil, err
			}

			s.tracer = tracing.NewDBTracer(recorder, "", tracing.HighPulses)
			s.hooks = append(s.hooks, s.tracer)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(),
				"Recording is not supported by %s, ignoring --record.\n",
				cmd.Name())
		}
	}

	return s, nil
}

// finish flushes the recording and prints the statistics.
func (s *session) finish() {
	if s.tracer != nil {
		s.tracer.Terminate()
		fmt.Fprintf(s.cmd.ErrOrStderr(),
			"Recorded session %s\n", s.tracer.Session())
	}

	if s.stats == nil {
		return
	}

	out := s.cmd.OutOrStdout()
	for _, name := range s.stats.GetSenderNames() {
		fmt.Fprintf(out, "%s\t%d\n", name, s.stats.GetCount(name))
	}
}
