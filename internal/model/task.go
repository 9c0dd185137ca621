package model

import (
	"fmt"
	"time"
)

// DownloadTask is a transient, in-memory transfer of one item. It is
// never persisted and never resumed across restarts.
type DownloadTask struct {
	ID              string
	ItemID          string
	URL             string
	FallbackURL     string
	DestinationPath string
	ExpectedVersion string
	Status          TaskStatus
	Percent         int   // 0 to 100
	BytesDownloaded int64 // bytes written so far
	BytesTotal      int64 // -1 or 0 if unknown
	LastError       string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// ProgressState is a single progress observation for an item. Each new
// observation supersedes the previous one.
type ProgressState struct {
	ItemID          string
	Percent         int
	BytesDownloaded int64
	BytesTotal      int64
}

// Done reports whether the observation marks the end of a transfer
func (ps ProgressState) Done() bool {
	return ps.Percent >= 100
}

// State returns the current progress snapshot of the task
func (dt *DownloadTask) State() ProgressState {
	return ProgressState{
		ItemID:          dt.ItemID,
		Percent:         dt.Percent,
		BytesDownloaded: dt.BytesDownloaded,
		BytesTotal:      dt.BytesTotal,
	}
}

// GetDisplayTitle returns the item's display name, falling back to the URL
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.ItemID != "" {
		return DisplayName(dt.ItemID)
	}
	return dt.URL
}

// GetProgressString returns "downloaded / total" in human readable units,
// or just the downloaded amount when the total is unknown
func (dt *DownloadTask) GetProgressString() string {
	if dt.BytesTotal <= 0 {
		return FormatBytes(dt.BytesDownloaded)
	}
	return fmt.Sprintf("%s / %s", FormatBytes(dt.BytesDownloaded), FormatBytes(dt.BytesTotal))
}

// FormatBytes renders a byte count using binary units
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
