package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pulsesim/analysis"
	"github.com/sarchlab/pulsesim/config"
)

func newCycleCmd() *cobra.Command {
	cycleCmd := &cobra.Command{
		Use:   "cycle FILE MODULE",
		Short: "Find the first press at which a module sends a high pulse.",
		Args:  cobra.ExactArgs(2),
		RunE:  runCycle,
	}

	addCycleFlags(cycleCmd)

	return cycleCmd
}

func addCycleFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("bound", analysis.DefaultSafetyBound,
		"maximum number of presses of one analysis")
	cmd.Flags().Int("occurrences", analysis.DefaultOccurrences,
		"number of high presses that must confirm the period")
}

func buildAnalyzer(c config.Config, s *session) *analysis.CycleAnalyzer {
	return analysis.MakeCycleAnalyzerBuilder().
		WithSafetyBound(c.SafetyBound).
		WithOccurrences(c.Occurrences).
		WithHooks(s.hooks...).
		Build()
}

func runCycle(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	g, err := loadGraph(args[0])
	if err != nil {
		return err
	}

	s, err := newSession(cmd, c, true)
	if err != nil {
		return err
	}
	defer s.finish()

	cycle, err := buildAnalyzer(c, s).Analyze(g, args[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", cycle.Node, cycle.Period)

	return nil
}
