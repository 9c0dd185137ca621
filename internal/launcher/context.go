// Package launcher holds the explicitly constructed application context
// and the operations the UI calls outside of the update batch: locating
// and launching games, installing a custom runtime and resetting settings.
package launcher

import (
	"fmt"
	"path/filepath"
	"runtime"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/config"
	"github.com/ytget/ptd-launcher/internal/ledger"
	"github.com/ytget/ptd-launcher/internal/platform"
)

// Context is the state shared by the launcher's collaborators. It is
// created once at startup and passed explicitly.
type Context struct {
	GOOS     string
	Paths    platform.Paths
	Bundle   *config.Bundle
	Settings *config.Settings
	Ledger   *ledger.Store
	Runtime  config.RuntimeSource
}

// Options control how a Context is built
type Options struct {
	// GOOS defaults to runtime.GOOS
	GOOS string

	// Home overrides the app-data root
	Home string

	// ConfigPath overrides the embedded config.json
	ConfigPath string
}

// NewContext loads the bundled config, resolves the app-data layout,
// creates its directories and loads settings and the ledger. Config and
// unsupported-OS errors are fatal to the caller; a ledger read failure is
// logged and defaults are used.
func NewContext(opts Options) (*Context, error) {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	bundle, err := config.LoadBundle(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	src, err := bundle.Runtime(goos)
	if err != nil {
		return nil, err
	}

	root := opts.Home
	if root == "" {
		if root, err = platform.AppDataRoot(goos); err != nil {
			return nil, err
		}
	}

	paths := platform.NewPaths(root)
	if err := paths.Ensure(); err != nil {
		return nil, fmt.Errorf("create app directories: %w", err)
	}

	store := ledger.NewStore(paths.Root)
	if _, err := store.Load(); err != nil {
		log.Errorf("failed to load ledger, using defaults: %v", err)
	}

	return &Context{
		GOOS:     goos,
		Paths:    paths,
		Bundle:   bundle,
		Settings: config.NewSettings(paths.Root),
		Ledger:   store,
		Runtime:  src,
	}, nil
}

// SoundEnabled reports whether UI sounds should play
func (c *Context) SoundEnabled() bool {
	return c.Settings.GetSoundEnabled()
}

// IsCustomRuntime reports whether the user supplied their own runtime,
// either through the ledger marker or the settings flag
func (c *Context) IsCustomRuntime() bool {
	return c.Ledger.Get().IsCustomRuntime() || c.Settings.GetCustomFlashPlayer()
}

// DefaultRuntimePath returns where the downloaded runtime is installed
func (c *Context) DefaultRuntimePath() string {
	return filepath.Join(c.Paths.Flash, c.Runtime.Filename)
}

// RuntimeArchivePath returns where the runtime download is written before
// it is unpacked
func (c *Context) RuntimeArchivePath() string {
	switch c.GOOS {
	case platform.OSDarwin:
		return filepath.Join(c.Paths.Flash, platform.DMGArchiveName)
	case platform.OSLinux:
		return filepath.Join(c.Paths.Flash, platform.TarGzArchiveName)
	default:
		return c.DefaultRuntimePath()
	}
}

// InstallRuntime unpacks a downloaded runtime archive into place and
// returns the runtime path. On Windows the download is the runtime.
func (c *Context) InstallRuntime(archivePath string) (string, error) {
	switch c.GOOS {
	case platform.OSDarwin:
		return platform.UnpackDMG(archivePath, c.Runtime.Filename, c.Paths.Flash)
	case platform.OSLinux:
		return platform.UnpackTarGz(archivePath, c.Runtime.Filename, c.Paths.Flash)
	default:
		return archivePath, nil
	}
}
