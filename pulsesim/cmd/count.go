package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pulsesim/analysis"
	"github.com/sarchlab/pulsesim/config"
	"github.com/sarchlab/pulsesim/monitoring"
	"github.com/sarchlab/pulsesim/network"
	"github.com/sarchlab/pulsesim/sim"
)

func newCountCmd() *cobra.Command {
	countCmd := &cobra.Command{
		Use:   "count FILE",
		Short: "Count the low and high pulses of many presses.",
		Long: "`count FILE` presses the button of the network in FILE and " +
			"prints the low and high pulses delivered, and their product.",
		Args: cobra.ExactArgs(1),
		RunE: runCount,
	}

	countCmd.Flags().Uint64("presses", 1000, "number of button presses")

	return countCmd
}

func runCount(cmd *cobra.Command, args []string) error {
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

	counter := analysis.MakeCounterBuilder().WithHooks(s.hooks...).Build()
	runner := counter.NewRunner(g)

	if c.Monitor.Enabled {
		bar := startMonitor(c, runner, g)
		runner.WithProgress(bar)
	}

	tally, err := counter.Run(runner, c.Presses)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "low %d\nhigh %d\nproduct %d\n",
		tally.Low, tally.High, tally.Product())

	return nil
}

func startMonitor(
	c config.Config,
	runner *sim.Runner,
	g *network.Graph,
) *monitoring.ProgressBar {
	m := monitoring.NewMonitor().
		WithPortNumber(c.Monitor.Port).
		WithOpenBrowser(c.Monitor.OpenBrowser)
	m.RegisterRunner(runner)
	m.StartServer()

	return m.CreateProgressBar(fmt.Sprintf("count %d modules", g.NumModules()),
		c.Presses)
}
