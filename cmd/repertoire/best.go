package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/repertoire"
)

var bestCmd = &cobra.Command{
	Use:   "best CORPUS",
	Short: "Find the line with the highest White win rate",
	Long: `Search every line of --depth moves and print the one whose games White
won most often. Lines followed by fewer than --min-games games are ignored;
ties go to the line the move generator lists first.

Examples:
  repertoire best games.pgn --depth 2 --min-games 50

  # Best reply continuations after 1. e4 c5
  repertoire best games.pgn.zst --after e4,c5 --depth 2 --min-games 20 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runBest,
}

var (
	bestDepth    int
	bestMinGames int
	bestAfter    []string
	bestJSON     bool
)

func init() {
	bestCmd.Flags().IntVarP(&bestDepth, "depth", "n", 1, "moves to search beyond --after")
	bestCmd.Flags().IntVarP(&bestMinGames, "min-games", "m", 1, "minimum games backing a line")
	bestCmd.Flags().StringSliceVar(&bestAfter, "after", nil, "comma-separated SAN moves to start from")
	bestCmd.Flags().BoolVar(&bestJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(bestCmd)
}

// bestOutput is the JSON form of a search result.
type bestOutput struct {
	Corpus      string     `json:"corpus"`
	Moves       []string   `json:"moves"`
	WhiteWins   int        `json:"white_wins"`
	SampleSize  int        `json:"sample_size"`
	Probability float64    `json:"probability"`
	Interval    [2]float64 `json:"interval_95"`
	Qualified   bool       `json:"qualified"`
	ElapsedMS   int64      `json:"elapsed_ms"`
}

func runBest(cmd *cobra.Command, args []string) error {
	name := args[0]
	ctx, stop := signalContext()
	defer stop()

	client, err := newClient(ctx, true)
	if err != nil {
		return err
	}
	defer client.Close()

	start := time.Now()
	corpus, err := client.LoadCorpus(ctx, name)
	if err != nil {
		return err
	}

	res, err := client.WinningStatisticsAfter(ctx, corpus, bestAfter, bestDepth, bestMinGames)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	if bestJSON {
		moves := res.Moves
		if moves == nil {
			moves = []string{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(bestOutput{
			Corpus:      name,
			Moves:       moves,
			WhiteWins:   res.WhiteWins,
			SampleSize:  res.SampleSize,
			Probability: res.Probability(),
			Interval:    interval(res),
			Qualified:   res.Qualified,
			ElapsedMS:   elapsed.Milliseconds(),
		})
	}

	printBestText(cmd, name, len(corpus), res)
	return nil
}

func printBestText(cmd *cobra.Command, name string, games int, res repertoire.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Corpus: %s (%d games)\n", name, games)
	if len(bestAfter) > 0 {
		fmt.Fprintf(out, "After:  %s\n", strings.Join(bestAfter, " "))
	}
	if !res.Qualified {
		fmt.Fprintf(out, "No line of depth %d was backed by %d games with a White win.\n", bestDepth, bestMinGames)
		return
	}
	fmt.Fprintf(out, "Line:   %s\n", res.Movetext())
	fmt.Fprintf(out, "Score:  %d/%d White wins (%.1f%%)\n", res.WhiteWins, res.SampleSize, res.Probability()*100)
	ci := interval(res)
	fmt.Fprintf(out, "95%% CI: %.1f%% - %.1f%%\n", ci[0]*100, ci[1]*100)
}

func interval(res repertoire.Result) [2]float64 {
	lo, hi := res.Interval(0.95)
	return [2]float64{lo, hi}
}
