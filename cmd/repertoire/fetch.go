package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/repertoire/internal/fetch"
	"github.com/discochess/repertoire/internal/store/location"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [URL]",
	Short: "Download a corpus into the data directory",
	Long: `Download a PGN corpus into the data directory. Interrupted downloads
resume where they stopped. Fetched files are recorded in manifest.json.

Examples:
  # A month of rated standard games from the Lichess database
  repertoire fetch --month 2013-01

  # Any URL
  repertoire fetch https://example.com/games.pgn.gz`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

var fetchMonth string

func init() {
	fetchCmd.Flags().StringVar(&fetchMonth, "month", "", "Lichess month to fetch (YYYY-MM)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	var url string
	switch {
	case len(args) == 1 && fetchMonth != "":
		return errors.New("give either a URL or --month, not both")
	case len(args) == 1:
		url = args[0]
	case fetchMonth != "":
		u, err := fetch.LichessURL(fetchMonth)
		if err != nil {
			return err
		}
		url = u
	default:
		return errors.New("a URL or --month is required")
	}

	loc, err := location.Parse(dataDir)
	if err != nil {
		return err
	}
	if loc.Scheme != location.SchemeFile {
		return fmt.Errorf("fetch needs a local data directory, got %s", dataDir)
	}

	ctx, stop := signalContext()
	defer stop()

	downloader := fetch.NewDownloader(fetch.WithProgress(fetch.Printer(cmd.ErrOrStderr())))
	f, err := fetch.New(loc.Prefix, downloader, log.Named("fetch"))
	if err != nil {
		return err
	}

	name, err := f.Fetch(ctx, url)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}
