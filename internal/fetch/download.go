// Package fetch downloads game corpora into a local data directory.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultResponseHeaderTimeout is the default timeout for receiving response headers.
const DefaultResponseHeaderTimeout = 30 * time.Second

// partSuffix marks an incomplete download.
const partSuffix = ".part"

// Downloader handles downloading files with resume support.
type Downloader struct {
	client   *http.Client
	progress ProgressFunc
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.client = client
	}
}

// WithTimeout sets the timeout for HTTP operations.
func WithTimeout(timeout time.Duration) DownloaderOption {
	return func(d *Downloader) {
		d.client = &http.Client{
			Timeout: timeout,
		}
	}
}

// WithProgress sets a callback for download progress.
func WithProgress(fn ProgressFunc) DownloaderOption {
	return func(d *Downloader) {
		d.progress = fn
	}
}

// NewDownloader creates a new Downloader with sensible defaults.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client: &http.Client{
			Timeout: 0, // Dumps take hours; only the header wait is bounded.
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// response is an open download body positioned after offset bytes.
type response struct {
	body   io.ReadCloser
	offset int64
	total  int64
}

// open requests url, asking the server to skip the first offset bytes.
// A server that ignores the range restarts the body at zero.
func (d *Downloader) open(ctx context.Context, url string, offset int64) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return &response{body: resp.Body, total: resp.ContentLength}, nil
	case http.StatusPartialContent:
		total := int64(-1)
		if resp.ContentLength >= 0 {
			total = offset + resp.ContentLength
		}
		// Format: bytes 0-999/1234
		var start, end int64
		if _, err := fmt.Sscanf(resp.Header.Get("Content-Range"), "bytes %d-%d/%d", &start, &end, &total); err == nil && start != offset {
			resp.Body.Close()
			return nil, fmt.Errorf("server resumed at byte %d, want %d", start, offset)
		}
		return &response{body: resp.Body, offset: offset, total: total}, nil
	case http.StatusRequestedRangeNotSatisfiable:
		// The partial file already holds everything.
		resp.Body.Close()
		return &response{body: http.NoBody, offset: offset, total: offset}, nil
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

// DownloadToFile downloads url to destPath. Bytes land in destPath+".part"
// first; an interrupted download resumes from there and destPath only
// appears once the body has been read completely.
func (d *Downloader) DownloadToFile(ctx context.Context, url string, destPath string) (int64, error) {
	partPath := destPath + partSuffix

	var existing int64
	if info, err := os.Stat(partPath); err == nil {
		existing = info.Size()
	}

	resp, err := d.open(ctx, url, existing)
	if err != nil {
		return 0, err
	}
	defer resp.body.Close()

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if resp.offset > 0 {
		flags = os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(partPath, flags, 0644)
	if err != nil {
		return 0, fmt.Errorf("opening file: %w", err)
	}

	downloaded, err := d.copy(ctx, file, resp)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing file: %w", closeErr)
	}
	if err != nil {
		return downloaded, err
	}

	if resp.total > 0 && downloaded != resp.total {
		return downloaded, fmt.Errorf("short download: got %d of %d bytes", downloaded, resp.total)
	}
	if err := os.Rename(partPath, destPath); err != nil {
		return downloaded, fmt.Errorf("finalizing download: %w", err)
	}
	return downloaded, nil
}

// copy streams the body to w, reporting progress, and returns the file size
// reached so far.
func (d *Downloader) copy(ctx context.Context, w io.Writer, resp *response) (int64, error) {
	buf := make([]byte, 32*1024)
	downloaded := resp.offset

	for {
		if err := ctx.Err(); err != nil {
			return downloaded, err
		}

		n, err := resp.body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return downloaded, fmt.Errorf("writing file: %w", writeErr)
			}
			downloaded += int64(n)

			if d.progress != nil {
				d.progress(Progress{
					Phase:           PhaseDownload,
					BytesDownloaded: downloaded,
					BytesTotal:      resp.total,
				})
			}
		}
		if errors.Is(err, io.EOF) {
			return downloaded, nil
		}
		if err != nil {
			return downloaded, fmt.Errorf("reading response: %w", err)
		}
	}
}

// ContentLength gets the content length of a URL without downloading.
// It returns -1 when the server does not report one.
func (d *Downloader) ContentLength(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return resp.ContentLength, nil
}
