package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pulsesim/analysis"
)

func newPredictCmd() *cobra.Command {
	predictCmd := &cobra.Command{
		Use:   "predict FILE",
		Short: "Predict the first press at which a sink receives a low pulse.",
		Long: "`predict FILE` finds the gates of the sink, analyzes the " +
			"period of every gate in its own session and prints their least " +
			"common multiple.",
		Args: cobra.ExactArgs(1),
		RunE: runPredict,
	}

	predictCmd.Flags().String("sink", "rx", "name of the sink")
	predictCmd.Flags().Int("parallel", 0,
		"number of gates analyzed at the same time, 0 for one per CPU")
	addCycleFlags(predictCmd)

	return predictCmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	g, err := loadGraph(args[0])
	if err != nil {
		return err
	}

	s, err := newSession(cmd, c, false)
	if err != nil {
		return err
	}
	defer s.finish()

	predictor := analysis.NewPredictor(buildAnalyzer(c, s), c.Parallelism)

	pred, err := predictor.Predict(g, c.Sink)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, cycle := range pred.Cycles {
		fmt.Fprintf(out, "%s %d\n", cycle.Node, cycle.Period)
	}

	fmt.Fprintf(out, "%s %d\n", pred.Sink, pred.Press)

	return nil
}
