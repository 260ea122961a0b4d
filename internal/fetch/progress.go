package fetch

import (
	"fmt"
	"io"
	"time"
)

// Phases reported through ProgressFunc.
const (
	PhaseDownload = "download"
	PhaseDone     = "done"
)

// Progress tracks fetch progress.
type Progress struct {
	Phase           string
	Name            string
	BytesDownloaded int64
	BytesTotal      int64
	StartTime       time.Time
}

// ProgressFunc is called periodically with progress updates.
type ProgressFunc func(Progress)

// FormatBytes formats bytes as human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// Printer returns a ProgressFunc that redraws a status line on w.
func Printer(w io.Writer) ProgressFunc {
	return func(p Progress) {
		switch p.Phase {
		case PhaseDownload:
			if p.BytesTotal <= 0 {
				fmt.Fprintf(w, "\r[Download] %s", FormatBytes(p.BytesDownloaded))
				return
			}
			pct := float64(p.BytesDownloaded) / float64(p.BytesTotal) * 100
			fmt.Fprintf(w, "\r[Download] %s / %s (%.1f%%)",
				FormatBytes(p.BytesDownloaded), FormatBytes(p.BytesTotal), pct)
		case PhaseDone:
			fmt.Fprintf(w, "\n[Done] %s: %s in %s\n",
				p.Name, FormatBytes(p.BytesDownloaded), FormatDuration(time.Since(p.StartTime)))
		}
	}
}
