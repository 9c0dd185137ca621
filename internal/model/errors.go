package model

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a batch or a manual download is already running
	ErrBusy = errors.New("another update or download is already in progress")

	// ErrUnsupportedOS is returned on platforms without a runtime build
	ErrUnsupportedOS = errors.New("unsupported operating system")
)

// ConfigError means the bundled configuration is missing or malformed.
// It is fatal at startup.
type ConfigError struct {
	Path  string
	Cause error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Cause)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// NetworkError means a version check failed. The item is skipped.
type NetworkError struct {
	URL   string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("version check %s: %v", e.URL, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// DownloadError means a transfer failed after all retries
type DownloadError struct {
	URL   string
	Cause error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Cause)
}

func (e *DownloadError) Unwrap() error { return e.Cause }

// LaunchError means the runtime or the game file is missing, or the
// runtime could not be spawned
type LaunchError struct {
	Item  string
	Cause error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Item, e.Cause)
}

func (e *LaunchError) Unwrap() error { return e.Cause }

// PersistenceError means the ledger or settings could not be written.
// In-memory state stays valid for the current session.
type PersistenceError struct {
	Path  string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }
