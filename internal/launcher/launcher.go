package launcher

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/ledger"
	"github.com/ytget/ptd-launcher/internal/model"
	"github.com/ytget/ptd-launcher/internal/platform"
)

// ErrGameNotInstalled is wrapped in the LaunchError returned by Play when
// the game file is missing
var ErrGameNotInstalled = errors.New("game is not downloaded")

// ErrRuntimeNotInstalled is wrapped in the LaunchError returned by Play
// when no runtime is available
var ErrRuntimeNotInstalled = errors.New("flash player is not installed")

// FindInstalledPath returns the game file for item, if one exists on disk
func (c *Context) FindInstalledPath(item string) (string, bool) {
	return platform.FindInstalledGame(c.Paths.Games, item)
}

// RuntimePath returns the runtime to launch games with: the custom path
// from settings when it exists, otherwise the downloaded runtime
func (c *Context) RuntimePath() (string, bool) {
	if c.Settings.GetCustomFlashPlayer() {
		if custom := c.Settings.GetFlashPlayerPath(); custom != "" && platform.FileExists(custom) {
			return custom, true
		}
	}
	path := c.DefaultRuntimePath()
	return path, platform.FileExists(path)
}

// Launch starts item with the runtime at runtimePath without waiting
func (c *Context) Launch(item, runtimePath string) error {
	gamePath, ok := c.FindInstalledPath(item)
	if !ok {
		return &model.LaunchError{Item: item, Cause: ErrGameNotInstalled}
	}
	return platform.Launch(c.GOOS, item, runtimePath, gamePath)
}

// Play launches item with the current runtime. The returned LaunchError
// wraps ErrGameNotInstalled or ErrRuntimeNotInstalled so callers can offer
// the matching download.
func (c *Context) Play(item string) error {
	if !model.IsKnownGame(item) {
		return &model.LaunchError{Item: item, Cause: fmt.Errorf("unknown game %q", item)}
	}
	if _, ok := c.FindInstalledPath(item); !ok {
		return &model.LaunchError{Item: item, Cause: ErrGameNotInstalled}
	}
	runtimePath, ok := c.RuntimePath()
	if !ok {
		return &model.LaunchError{Item: item, Cause: ErrRuntimeNotInstalled}
	}

	log.WithField("item", item).Infof("launching %s", model.DisplayName(item))
	return c.Launch(item, runtimePath)
}

// SetCustomRuntime copies src into the runtime location, marks the ledger
// entry as custom and records the path in settings
func (c *Context) SetCustomRuntime(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("selected file does not exist: %w", err)
	}

	// An .app bundle is used in place.
	dst := src
	if !info.IsDir() {
		dst = c.DefaultRuntimePath()
		if err := platform.CopyFile(src, dst); err != nil {
			return "", fmt.Errorf("copy custom runtime: %w", err)
		}
	}
	if err := c.Ledger.Update(func(l *ledger.Ledger) {
		l.FlashPlayer = model.CustomVersion
	}); err != nil {
		log.Errorf("failed to record custom runtime: %v", err)
	}
	c.Settings.SetCustomFlashPlayer(dst)

	log.Infof("custom flash player installed from %s to %s", src, dst)
	return dst, nil
}

// ResetSettings restores default settings and clears the custom runtime
// marker so the next batch downloads the official runtime
func (c *Context) ResetSettings() {
	c.Settings.Reset()
	if c.Ledger.Get().IsCustomRuntime() {
		if err := c.Ledger.Update(func(l *ledger.Ledger) {
			l.FlashPlayer = ""
		}); err != nil {
			log.Errorf("failed to clear custom runtime marker: %v", err)
		}
	}
	log.Info("settings reset to defaults")
}

// OpenPokecenter opens the website of the game's series
func (c *Context) OpenPokecenter(game string) error {
	url := model.PokecenterURL(game)
	if url == "" {
		return fmt.Errorf("no PokéCenter for %s", game)
	}
	return platform.OpenURL(url)
}
