package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var followCmd = &cobra.Command{
	Use:   "follow CORPUS [MOVE...]",
	Short: "List the games that followed a line",
	Long: `List the games of a corpus whose opening moves match the given SAN
moves, with a tally of their results.

Example:
  repertoire follow games.pgn e4 e5 Nf3 --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFollow,
}

var followLimit int

func init() {
	followCmd.Flags().IntVar(&followLimit, "limit", 20, "maximum games to list (0 lists none)")
	rootCmd.AddCommand(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	name, moves := args[0], args[1:]
	ctx, stop := signalContext()
	defer stop()

	client, err := newClient(ctx, true)
	if err != nil {
		return err
	}
	defer client.Close()

	corpus, err := client.LoadCorpus(ctx, name)
	if err != nil {
		return err
	}

	games := client.GamesFollowing(corpus, moves)
	tally := client.Tally(corpus, moves)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d of %d games: +%d -%d =%d (White %.1f%%)\n",
		len(games), len(corpus), tally.WhiteWins, tally.BlackWins, tally.Draws, tally.WhiteWinRate()*100)

	if followLimit <= 0 || len(games) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHITE\tBLACK\tRESULT\tOPENING")
	for i, g := range games {
		if i == followLimit {
			break
		}
		fmt.Fprintf(tw, "%s (%s)\t%s (%s)\t%s\t%s\n", g.White, g.WhiteElo, g.Black, g.BlackElo, g.Result, g.Opening)
	}
	return tw.Flush()
}
