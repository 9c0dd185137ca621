package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/model"
)

// Transfer defaults
const (
	DefaultRetries   = 3
	DefaultBaseDelay = time.Second
	DefaultTimeout   = 30 * time.Second
	ChunkSize        = 8192
	TaskIDPrefix     = "task-"
	PartSuffix       = ".part"

	userAgent = "ptd-launcher"
	filePerm  = 0644
	dirPerm   = 0755
)

// Service performs downloads over HTTP
type Service struct {
	client    *http.Client
	retries   uint64
	baseDelay time.Duration
	chunkSize int
}

// Option configures a Service
type Option func(*Service)

// WithRetries sets how many times a failed transfer is repeated
func WithRetries(n int) Option {
	return func(s *Service) {
		if n < 0 {
			n = 0
		}
		s.retries = uint64(n)
	}
}

// WithBaseDelay sets the wait before the first retry; each further retry
// doubles it
func WithBaseDelay(d time.Duration) Option {
	return func(s *Service) {
		s.baseDelay = d
	}
}

// WithTimeout sets the connect and response header timeout of a request
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.client = newHTTPClient(d)
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

// NewService creates a new download service
func NewService(opts ...Option) *Service {
	s := &Service{
		client:    newHTTPClient(DefaultTimeout),
		retries:   DefaultRetries,
		baseDelay: DefaultBaseDelay,
		chunkSize: ChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newHTTPClient(timeout time.Duration) *http.Client {
	// No overall client timeout: it would also bound the body transfer.
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
		},
	}
}

// NewTask creates a transient download task
func NewTask(itemID, url, fallbackURL, destination, expectedVersion string) *model.DownloadTask {
	return &model.DownloadTask{
		ID:              generateTaskID(),
		ItemID:          itemID,
		URL:             url,
		FallbackURL:     fallbackURL,
		DestinationPath: destination,
		ExpectedVersion: expectedVersion,
		Status:          model.TaskStatusPending,
		BytesTotal:      -1,
	}
}

// Download fetches the task's URL, then its fallback URL with a fresh retry
// budget if the primary fails. Final failure is a *model.DownloadError.
// The body is written to PartPath and renamed over the destination only
// once complete, so a failed transfer never replaces or creates the
// destination file.
func (s *Service) Download(ctx context.Context, task *model.DownloadTask, progress ProgressFunc) (err error) {
	task.Status = model.TaskStatusDownloading
	task.StartedAt = time.Now()
	task.LastError = ""
	defer func() { task.FinishedAt = time.Now() }()
	defer func() {
		if err == nil {
			return
		}
		if rmErr := os.Remove(PartPath(task.DestinationPath)); rmErr != nil && !os.IsNotExist(rmErr) {
			log.WithField("item", task.ItemID).Warnf("failed to remove partial download: %v", rmErr)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(task.DestinationPath), dirPerm); err != nil {
		return s.fail(task, &model.DownloadError{URL: task.URL, Cause: err})
	}

	err = s.downloadWithRetry(ctx, task, task.URL, progress)
	if err == nil {
		return nil
	}
	if task.FallbackURL == "" || ctx.Err() != nil {
		return s.fail(task, err)
	}

	log.WithField("item", task.ItemID).Warnf("primary download failed, trying fallback source: %v", err)
	fallbackErr := s.downloadWithRetry(ctx, task, task.FallbackURL, progress)
	if fallbackErr == nil {
		return nil
	}

	return s.fail(task, &model.DownloadError{
		URL:   task.URL,
		Cause: multierror.Append(err, fallbackErr),
	})
}

// PartPath returns where the body of destination is staged while in flight
func PartPath(destination string) string {
	return destination + PartSuffix
}

func (s *Service) fail(task *model.DownloadTask, err error) error {
	task.Status = model.TaskStatusFailed
	task.LastError = err.Error()
	return err
}

// downloadWithRetry attempts the transfer up to retries+1 times
func (s *Service) downloadWithRetry(ctx context.Context, task *model.DownloadTask, url string, progress ProgressFunc) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := s.fetch(ctx, task, url, progress)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.WithField("item", task.ItemID).Warnf("download attempt %d failed, retrying in %s: %v", attempt, wait, err)
	}

	if err := backoff.RetryNotify(operation, s.backOff(ctx), notify); err != nil {
		log.WithField("item", task.ItemID).Errorf("download of %s failed after %d attempts: %v", url, attempt, err)
		return &model.DownloadError{URL: url, Cause: err}
	}
	return nil
}

func (s *Service) backOff(ctx context.Context) backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     s.baseDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         time.Minute,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, s.retries), ctx)
}

// fetch performs a single GET, streams the body into the part file and
// moves it over the destination once the whole body has arrived
func (s *Service) fetch(ctx context.Context, task *model.DownloadTask, url string, progress ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	part := PartPath(task.DestinationPath)
	out, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}

	task.Percent = 0
	task.BytesDownloaded = 0
	task.BytesTotal = resp.ContentLength

	copyErr := s.copyWithProgress(out, resp.Body, task, progress)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	if closeErr != nil {
		return fmt.Errorf("close destination: %w", closeErr)
	}
	if task.BytesTotal > 0 && task.BytesDownloaded != task.BytesTotal {
		return fmt.Errorf("short body: got %d of %d bytes", task.BytesDownloaded, task.BytesTotal)
	}
	if err := os.Rename(part, task.DestinationPath); err != nil {
		return fmt.Errorf("move download into place: %w", err)
	}
	return nil
}

// copyWithProgress copies in chunkSize pieces and reports progress each
// time the integer percentage advances, or on every chunk when the total
// size is unknown
func (s *Service) copyWithProgress(dst io.Writer, src io.Reader, task *model.DownloadTask, progress ProgressFunc) error {
	buf := make([]byte, s.chunkSize)
	lastPercent := -1

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return fmt.Errorf("write destination: %w", err)
			}
			task.BytesDownloaded += int64(n)

			if task.BytesTotal > 0 {
				percent := int(task.BytesDownloaded * 100 / task.BytesTotal)
				if percent > 100 {
					percent = 100
				}
				task.Percent = percent
				if percent > lastPercent {
					lastPercent = percent
					notifyProgress(progress, percent, task.BytesDownloaded, task.BytesTotal)
				}
			} else {
				notifyProgress(progress, 0, task.BytesDownloaded, task.BytesTotal)
			}
		}

		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read body: %w", readErr)
		}
	}
}

func notifyProgress(progress ProgressFunc, percent int, downloaded, total int64) {
	if progress != nil {
		progress(percent, downloaded, total)
	}
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return TaskIDPrefix + uuid.New().String()
}
