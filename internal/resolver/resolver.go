// Package resolver asks a download server which version of a file it
// currently serves, using a header-only request.
package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/model"
)

// Request timeout bounds
const (
	MinTimeout     = 5 * time.Second
	MaxTimeout     = 30 * time.Second
	DefaultTimeout = MaxTimeout

	DefaultRetries   = 2
	DefaultBaseDelay = time.Second

	dispositionHeader = "Content-Disposition"
	filenameParam     = "filename="
	userAgent         = "ptd-launcher"
)

// Remote describes what the server advertises for a URL
type Remote struct {
	Filename string
	Version  string

	// Synthesized is true when the filename carries no version marker and
	// Version is a Unix timestamp
	Synthesized bool
}

// Resolver issues HEAD requests and extracts a version from the response
type Resolver struct {
	client    *http.Client
	retries   uint64
	baseDelay time.Duration
	now       func() time.Time
}

// Option configures a Resolver
type Option func(*Resolver)

// WithTimeout sets the per-request timeout, clamped to 5-30s
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.client.Timeout = clampTimeout(d)
	}
}

// WithRetries sets how many times a failed request is repeated
func WithRetries(n int) Option {
	return func(r *Resolver) {
		if n < 0 {
			n = 0
		}
		r.retries = uint64(n)
	}
}

// WithBaseDelay sets the first retry delay
func WithBaseDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.baseDelay = d
	}
}

// WithClock replaces the time source used for synthesized versions
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// New creates a Resolver
func New(opts ...Option) *Resolver {
	r := &Resolver{
		client:    &http.Client{Timeout: DefaultTimeout},
		retries:   DefaultRetries,
		baseDelay: DefaultBaseDelay,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the filename and version served at rawURL. Failures are
// reported as *model.NetworkError.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Remote, error) {
	var header http.Header

	operation := func() error {
		h, err := r.head(ctx, rawURL)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		header = h
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.WithField("url", rawURL).Warnf("version check failed, retrying in %s: %v", wait, err)
	}

	if err := backoff.RetryNotify(operation, r.backOff(ctx), notify); err != nil {
		return Remote{}, &model.NetworkError{URL: rawURL, Cause: err}
	}

	filename := FilenameFromResponse(rawURL, header)
	version, ok := ExtractVersion(filename)
	if !ok {
		version = strconv.FormatInt(r.now().Unix(), 10)
	}

	return Remote{Filename: filename, Version: version, Synthesized: !ok}, nil
}

func (r *Resolver) head(ctx context.Context, rawURL string) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return resp.Header, nil
}

func (r *Resolver) backOff(ctx context.Context) backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     r.baseDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         MaxTimeout,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, r.retries), ctx)
}

// FilenameFromResponse returns the filename= value of the
// Content-Disposition header, or the last path segment of rawURL
func FilenameFromResponse(rawURL string, header http.Header) string {
	if cd := header.Get(dispositionHeader); cd != "" {
		if idx := strings.Index(cd, filenameParam); idx >= 0 {
			name := cd[idx+len(filenameParam):]
			if end := strings.IndexByte(name, ';'); end >= 0 {
				name = name[:end]
			}
			name = strings.Trim(strings.TrimSpace(name), `"`)
			if name != "" {
				return name
			}
		}
	}

	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}

// ExtractVersion returns the token between "-v" and ".swf" in filename
func ExtractVersion(filename string) (string, bool) {
	idx := strings.Index(filename, model.VersionMarker)
	if idx < 0 {
		return "", false
	}
	rest := filename[idx+len(model.VersionMarker):]
	end := strings.Index(rest, model.GameFileExt)
	if end < 0 {
		end = len(rest)
	}
	version := rest[:end]
	if version == "" {
		return "", false
	}
	return version, true
}

func clampTimeout(d time.Duration) time.Duration {
	if d < MinTimeout {
		return MinTimeout
	}
	if d > MaxTimeout {
		return MaxTimeout
	}
	return d
}
