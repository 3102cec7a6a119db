package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pulsesim/analysis"
)

func newGatesCmd() *cobra.Command {
	gatesCmd := &cobra.Command{
		Use:   "gates FILE",
		Short: "List the modules that gate a sink.",
		Args:  cobra.ExactArgs(1),
		RunE:  runGates,
	}

	gatesCmd.Flags().String("sink", "rx", "name of the sink")

	return gatesCmd
}

func runGates(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	g, err := loadGraph(args[0])
	if err != nil {
		return err
	}

	gates, err := analysis.DiscoverGates(g, c.Sink)
	if err != nil {
		return err
	}

	for _, gate := range gates {
		fmt.Fprintln(cmd.OutOrStdout(), gate)
	}

	return nil
}
