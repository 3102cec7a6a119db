package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pulsesim/datarecording"
)

func newStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats RECORDING",
		Short: "Summarize a session recorded with --record.",
		Long: "`stats RECORDING` reads a recording back and prints the pulses " +
			"of one session over a range of presses, and the modules that " +
			"sent high pulses. Without --session, the last session is used.",
		Args: cobra.ExactArgs(1),
		RunE: runStats,
	}

	statsCmd.Flags().String("session", "", "session to summarize")
	statsCmd.Flags().Uint64("from", 1, "first press of the range")
	statsCmd.Flags().Uint64("to", 0, "last press of the range, 0 for the last")
	statsCmd.Flags().Bool("list", false, "list the sessions of the recording")

	return statsCmd
}

func runStats(cmd *cobra.Command, args []string) error {
	reader, err := datarecording.Open(args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	if list, _ := cmd.Flags().GetBool("list"); list {
		return listSessions(cmd, reader)
	}

	session, _ := cmd.Flags().GetString("session")
	presses := datarecording.PressRange{}
	presses.From, _ = cmd.Flags().GetUint64("from")
	presses.To, _ = cmd.Flags().GetUint64("to")

	ctx := cmd.Context()

	session, err = reader.Resolve(ctx, session)
	if err != nil {
		return err
	}

	records, err := reader.Presses(ctx, session, presses)
	if err != nil {
		return err
	}

	low, high, err := reader.Tally(ctx, session, presses)
	if err != nil {
		return err
	}

	senders, err := reader.HighSenders(ctx, session, presses)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s\npresses %d\nlow %d\nhigh %d\nproduct %d\n",
		session, len(records), low, high, low*high)

	for _, s := range senders {
		fmt.Fprintf(out, "%s\t%d\n", s.Sender, s.Count)
	}

	return nil
}

func listSessions(cmd *cobra.Command, reader *datarecording.Reader) error {
	sessions, err := reader.Sessions(cmd.Context())
	if err != nil {
		return err
	}

	for _, s := range sessions {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d-%d\tlow %d\thigh %d\n",
			s.Session, s.First, s.Last, s.Low, s.High)
	}

	return nil
}
