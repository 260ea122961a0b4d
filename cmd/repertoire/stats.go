package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/discochess/repertoire/internal/fetch"
	"github.com/discochess/repertoire/internal/store/location"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the corpora in the data directory",
	Long: `List the corpus files in the data directory with their size and, for
fetched files, their source. With --games each corpus is parsed and its
game count and result tally printed.`,
	RunE: runStats,
}

var statsGames bool

func init() {
	statsCmd.Flags().BoolVar(&statsGames, "games", false, "parse each corpus and count its games")
	rootCmd.AddCommand(statsCmd)
}

// isCorpusFile reports whether name looks like a PGN corpus.
func isCorpusFile(name string) bool {
	for _, ext := range []string{".pgn", ".pgn.zst", ".pgn.gz"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return true
		}
	}
	return false
}

func runStats(cmd *cobra.Command, args []string) error {
	loc, err := location.Parse(dataDir)
	if err != nil {
		return err
	}
	if loc.Scheme != location.SchemeFile {
		return fmt.Errorf("stats needs a local data directory, got %s", dataDir)
	}
	dir := loc.Prefix

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("data directory %q does not exist; run 'repertoire fetch' first", dir)
	}
	if err != nil {
		return fmt.Errorf("reading data directory: %w", err)
	}

	manifest, err := fetch.ReadManifest(dir)
	if err != nil {
		return err
	}
	sources := make(map[string]string, len(manifest.Corpora))
	for _, e := range manifest.Corpora {
		sources[e.Name] = e.SourceURL
	}

	var names []string
	var totalSize int64
	sizes := make(map[string]int64)
	for _, entry := range entries {
		if entry.IsDir() || !isCorpusFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		names = append(names, entry.Name())
		sizes[entry.Name()] = info.Size()
		totalSize += info.Size()
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No corpora found in data directory.")
		fmt.Fprintln(out, "Run 'repertoire fetch' to download one.")
		return nil
	}

	fmt.Fprintf(out, "Data directory: %s\n", dir)
	fmt.Fprintf(out, "Corpora:        %d\n", len(names))
	fmt.Fprintf(out, "Total size:     %s\n\n", fetch.FormatBytes(totalSize))

	ctx, stop := signalContext()
	defer stop()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if statsGames {
		c, err := newClient(ctx, true)
		if err != nil {
			return err
		}
		defer c.Close()

		fmt.Fprintln(tw, "NAME\tSIZE\tGAMES\t+/-/=\tSOURCE")
		for _, name := range names {
			corpus, err := c.LoadCorpus(ctx, name)
			if err != nil {
				return err
			}
			t := c.Tally(corpus, nil)
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d/%d/%d\t%s\n",
				name, fetch.FormatBytes(sizes[name]), len(corpus), t.WhiteWins, t.BlackWins, t.Draws, sourceOf(sources, name))
		}
		return tw.Flush()
	}

	fmt.Fprintln(tw, "NAME\tSIZE\tSOURCE")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, fetch.FormatBytes(sizes[name]), sourceOf(sources, name))
	}
	return tw.Flush()
}

func sourceOf(sources map[string]string, name string) string {
	if s, ok := sources[filepath.Base(name)]; ok {
		return s
	}
	return "-"
}
