package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ytget/ptd-launcher/internal/model"
)

// BundledConfigName is the name used in errors for the embedded config
const BundledConfigName = "resources/config.json"

// Runtime section keys in config.json
const (
	RuntimeWindows = "windows"
	RuntimeMacOS   = "macos"
	RuntimeLinux   = "linux"
)

//go:embed resources/config.json
var bundledConfig []byte

// RuntimeSource describes where the runtime for one OS is downloaded from
type RuntimeSource struct {
	PrimaryURL  string `json:"primary_url"`
	FallbackURL string `json:"fallback_url,omitempty"`
	Filename    string `json:"filename"`
}

// Bundle is the read-only configuration shipped with the launcher
type Bundle struct {
	FlashPlayer     map[string]RuntimeSource `json:"flash_player"`
	FallbackVersion string                   `json:"fallback_version"`
	GameURLs        map[string]string        `json:"game_urls"`
}

// LoadBundle reads config.json from path, or the embedded copy when path
// is empty. Any failure is a *model.ConfigError.
func LoadBundle(path string) (*Bundle, error) {
	name := path
	data := bundledConfig
	if path == "" {
		name = BundledConfigName
	} else {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, &model.ConfigError{Path: name, Cause: err}
		}
	}
	return ParseBundle(name, data)
}

// ParseBundle decodes and validates a config document
func ParseBundle(name string, data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, &model.ConfigError{Path: name, Cause: err}
	}
	if err := b.Validate(); err != nil {
		return nil, &model.ConfigError{Path: name, Cause: err}
	}
	return &b, nil
}

// Validate checks that every runtime section and the game map are usable
func (b *Bundle) Validate() error {
	if len(b.GameURLs) == 0 {
		return errors.New("game_urls is empty")
	}
	for _, key := range []string{RuntimeWindows, RuntimeMacOS, RuntimeLinux} {
		src, ok := b.FlashPlayer[key]
		if !ok {
			return fmt.Errorf("flash_player.%s is missing", key)
		}
		if src.PrimaryURL == "" {
			return fmt.Errorf("flash_player.%s.primary_url is empty", key)
		}
		if src.Filename == "" {
			return fmt.Errorf("flash_player.%s.filename is empty", key)
		}
	}
	return nil
}

// Runtime returns the runtime source for a GOOS value
func (b *Bundle) Runtime(goos string) (RuntimeSource, error) {
	key, err := RuntimeKey(goos)
	if err != nil {
		return RuntimeSource{}, err
	}
	return b.FlashPlayer[key], nil
}

// GameURL returns the download URL of a game
func (b *Bundle) GameURL(game string) (string, bool) {
	url, ok := b.GameURLs[game]
	return url, ok && url != ""
}

// RuntimeKey maps a GOOS value to its config.json section
func RuntimeKey(goos string) (string, error) {
	switch goos {
	case "windows":
		return RuntimeWindows, nil
	case "darwin":
		return RuntimeMacOS, nil
	case "linux":
		return RuntimeLinux, nil
	default:
		return "", model.ErrUnsupportedOS
	}
}
