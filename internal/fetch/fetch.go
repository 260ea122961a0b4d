package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// LichessBaseURL hosts the monthly Lichess game dumps.
const LichessBaseURL = "https://database.lichess.org"

// LichessURL returns the URL of the rated standard dump for month,
// formatted as YYYY-MM.
func LichessURL(month string) (string, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return "", fmt.Errorf("invalid month %q: want YYYY-MM", month)
	}
	return fmt.Sprintf("%s/standard/lichess_db_standard_rated_%s.pgn.zst", LichessBaseURL, month), nil
}

// Fetcher downloads corpora into a data directory and records them in its
// manifest.
type Fetcher struct {
	dir        string
	downloader *Downloader
	logger     *zap.Logger
	now        func() time.Time
}

// New returns a Fetcher writing into dir, creating it if needed.
func New(dir string, downloader *Downloader, logger *zap.Logger) (*Fetcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if downloader == nil {
		downloader = NewDownloader()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{dir: dir, downloader: downloader, logger: logger, now: time.Now}, nil
}

// Fetch downloads rawURL into the data directory and returns the corpus
// name, which is the last path element of the URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("URL %q has no file name", rawURL)
	}

	start := f.now()
	f.logger.Info("fetching corpus", zap.String("name", name), zap.String("url", rawURL))

	size, err := f.downloader.DownloadToFile(ctx, rawURL, filepath.Join(f.dir, name))
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", name, err)
	}

	m, err := ReadManifest(f.dir)
	if err != nil {
		return "", err
	}
	m.Put(Entry{Name: name, SourceURL: rawURL, Size: size, FetchedAt: f.now().UTC()})
	if err := WriteManifest(f.dir, m); err != nil {
		return "", err
	}

	if f.downloader.progress != nil {
		f.downloader.progress(Progress{Phase: PhaseDone, Name: name, BytesDownloaded: size, StartTime: start})
	}
	f.logger.Info("fetched corpus",
		zap.String("name", name),
		zap.Int64("bytes", size),
		zap.Duration("elapsed", f.now().Sub(start)),
	)
	return name, nil
}
