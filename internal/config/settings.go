package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/model"
)

// SettingsFileName is the user settings file inside the app-data root
const SettingsFileName = "user_settings.json"

// Settings keys in user_settings.json
const (
	KeySoundEnabled      = "sound_enabled"
	KeyCustomFlashPlayer = "custom_flash_player"
	KeyFlashPlayerPath   = "flash_player_path"
)

// Default values
const (
	DefaultSoundEnabled      = true
	DefaultCustomFlashPlayer = false
	DefaultFlashPlayerPath   = ""
)

type settingsFile struct {
	SoundEnabled      bool   `json:"sound_enabled"`
	CustomFlashPlayer bool   `json:"custom_flash_player"`
	FlashPlayerPath   string `json:"flash_player_path"`
}

func defaultSettings() settingsFile {
	return settingsFile{
		SoundEnabled:      DefaultSoundEnabled,
		CustomFlashPlayer: DefaultCustomFlashPlayer,
		FlashPlayerPath:   DefaultFlashPlayerPath,
	}
}

// Settings manages user preferences stored in user_settings.json. Every
// setter persists immediately; a failed write is logged and the new value
// is still used for the session.
type Settings struct {
	path   string
	mu     sync.RWMutex
	values settingsFile
}

// NewSettings loads settings from dir, falling back to defaults when the
// file is missing or unreadable
func NewSettings(dir string) *Settings {
	s := &Settings{
		path:   filepath.Join(dir, SettingsFileName),
		values: defaultSettings(),
	}
	s.load()
	return s
}

// Path returns the settings file path
func (s *Settings) Path() string {
	return s.path
}

func (s *Settings) load() {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		log.Warnf("failed to read %s: %v", s.path, err)
		return
	}

	values := defaultSettings()
	if err := json.Unmarshal(data, &values); err != nil {
		log.Warnf("ignoring malformed %s: %v", s.path, err)
		return
	}
	s.values = values
}

// Save writes the current values to disk
func (s *Settings) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.values, "", "    ")
	s.mu.RUnlock()
	if err != nil {
		return &model.PersistenceError{Path: s.path, Cause: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &model.PersistenceError{Path: s.path, Cause: fmt.Errorf("create settings dir: %w", err)}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &model.PersistenceError{Path: s.path, Cause: err}
	}
	return nil
}

func (s *Settings) update(fn func(v *settingsFile)) {
	s.mu.Lock()
	fn(&s.values)
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		log.Errorf("failed to save settings: %v", err)
	}
}

// GetSoundEnabled returns whether UI sounds are enabled
func (s *Settings) GetSoundEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.SoundEnabled
}

// SetSoundEnabled enables or disables UI sounds
func (s *Settings) SetSoundEnabled(enabled bool) {
	s.update(func(v *settingsFile) { v.SoundEnabled = enabled })
}

// GetCustomFlashPlayer returns whether a user-supplied runtime is in use
func (s *Settings) GetCustomFlashPlayer() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.CustomFlashPlayer
}

// GetFlashPlayerPath returns the configured runtime path, if any
func (s *Settings) GetFlashPlayerPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.FlashPlayerPath
}

// SetCustomFlashPlayer marks path as the user-supplied runtime
func (s *Settings) SetCustomFlashPlayer(path string) {
	s.update(func(v *settingsFile) {
		v.CustomFlashPlayer = path != ""
		v.FlashPlayerPath = path
	})
}

// Reset restores every setting to its default value
func (s *Settings) Reset() {
	s.update(func(v *settingsFile) { *v = defaultSettings() })
}
