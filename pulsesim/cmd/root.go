// Package cmd provides the command-line interface of pulsesim.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/pulsesim/config"
	"github.com/sarchlab/pulsesim/network"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pulsesim",
		Short: "pulsesim simulates networks of flip-flops and conjunctions.",
		Long: `pulsesim simulates networks of flip-flops and conjunctions ` +
			`driven by a button. It counts the pulses of many presses, finds ` +
			`the period of a module and predicts the first press at which a ` +
			`sink receives a low pulse.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML file with the run parameters")
	flags.Bool("monitor", false, "serve the running simulation over HTTP")
	flags.Int("monitor-port", 0, "port of the monitoring server")
	flags.Bool("open-browser", false, "open the monitoring server in a browser")
	flags.String("record", "", "record presses into this SQLite file")
	flags.Bool("log-pulses", false, "print every delivered pulse to stderr")
	flags.Bool("stats", false, "print how many high pulses each module sent")

	root.AddCommand(
		newCountCmd(),
		newCycleCmd(),
		newGatesCmd(),
		newPredictCmd(),
		newStatsCmd(),
	)

	return root
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadConfig merges, from lowest to highest priority, the defaults, the
// config file, the environment and the flags set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	c, err := config.Load(path)
	if err != nil {
		return c, err
	}

	if err := c.ApplyEnv(); err != nil {
		return c, err
	}

	applyFlags(cmd, &c)

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}

	return c, nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("presses") {
		c.Presses, _ = flags.GetUint64("presses")
	}

	if flags.Changed("bound") {
		c.SafetyBound, _ = flags.GetUint64("bound")
	}

	if flags.Changed("occurrences") {
		c.Occurrences, _ = flags.GetInt("occurrences")
	}

	if flags.Changed("sink") {
		c.Sink, _ = flags.GetString("sink")
	}

	if flags.Changed("parallel") {
		c.Parallelism, _ = flags.GetInt("parallel")
	}

	if flags.Changed("monitor") {
		c.Monitor.Enabled, _ = flags.GetBool("monitor")
	}

	if flags.Changed("monitor-port") {
		c.Monitor.Port, _ = flags.GetInt("monitor-port")
	}

	if flags.Changed("open-browser") {
		c.Monitor.OpenBrowser, _ = flags.GetBool("open-browser")
	}

	if flags.Changed("record") {
		c.RecordPath, _ = flags.GetString("record")
	}

	if flags.Changed("log-pulses") {
		c.LogPulses, _ = flags.GetBool("log-pulses")
	}

	if flags.Changed("stats") {
		c.Stats, _ = flags.GetBool("stats")
	}
}

func loadGraph(path string) (*network.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := network.ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, nil
}

func pulseLogger(cmd *cobra.Command) *log.Logger {
	return log.New(cmd.ErrOrStderr(), "", 0)
}
