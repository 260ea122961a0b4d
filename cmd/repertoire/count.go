package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count [MOVE...]",
	Short: "Count move paths from a position",
	Long: `Count the move paths of the given depth after the given moves (SAN).

Transpositions are counted once per path, as in perft. A depth of 0 or 1
both print the number of legal moves.

Examples:
  # perft(3) from the initial position: 8902
  repertoire count --depth 3

  # After 1. d4 d5
  repertoire count --depth 2 d4 d5`,
	RunE: runCount,
}

var (
	countDepth  int
	countTiming bool
)

func init() {
	countCmd.Flags().IntVarP(&countDepth, "depth", "n", 1, "path length in plies")
	countCmd.Flags().BoolVar(&countTiming, "timing", false, "show elapsed time")
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	client, err := newClient(ctx, false)
	if err != nil {
		return err
	}
	defer client.Close()

	start := time.Now()
	n, err := client.CountPositions(ctx, args, countDepth)
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, n)
	if countTiming {
		fmt.Fprintf(out, "Time: %s\n", time.Since(start))
	}
	return nil
}
