package download

import (
	"context"

	"github.com/ytget/ptd-launcher/internal/model"
)

// ProgressFunc receives transfer progress. total is <= 0 when the server
// did not announce a size; percent is then always 0.
type ProgressFunc func(percent int, downloaded, total int64)

// Downloader defines the interface for the download service.
type Downloader interface {
	// Download fetches task.URL into task.DestinationPath, falling back to
	// task.FallbackURL when set. progress may be nil.
	Download(ctx context.Context, task *model.DownloadTask, progress ProgressFunc) error
}
