package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ytget/ptd-launcher/internal/model"
)

func TestLoadBundle_Embedded(t *testing.T) {
	bundle, err := LoadBundle("")
	if err != nil {
		t.Fatalf("Expected embedded config to load, got %v", err)
	}

	for _, game := range model.KnownGames {
		if _, ok := bundle.GameURL(game); !ok {
			t.Errorf("Expected URL for %s in bundled config", game)
		}
	}
	if bundle.FallbackVersion == "" {
		t.Error("Expected fallback_version in bundled config")
	}
}

func TestBundle_Runtime(t *testing.T) {
	bundle, err := LoadBundle("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		goos     string
		filename string
		wantErr  bool
	}{
		{"windows", "flashplayer_sa.exe", false},
		{"darwin", "Flash Player.app", false},
		{"linux", "flashplayer", false},
		{"plan9", "", true},
	}

	for _, test := range tests {
		src, err := bundle.Runtime(test.goos)
		if test.wantErr {
			if !errors.Is(err, model.ErrUnsupportedOS) {
				t.Errorf("Runtime(%s) expected ErrUnsupportedOS, got %v", test.goos, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Runtime(%s) unexpected error %v", test.goos, err)
			continue
		}
		if src.Filename != test.filename {
			t.Errorf("Runtime(%s).Filename = %q, expected %q", test.goos, src.Filename, test.filename)
		}
	}
}

func TestParseBundle_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"no games", `{"flash_player": {}, "game_urls": {}}`},
		{"missing os", `{"game_urls": {"PTD1": "http://x"}, "flash_player": {"windows": {"primary_url": "a", "filename": "b"}}}`},
		{"empty filename", `{"game_urls": {"PTD1": "http://x"}, "flash_player": {
			"windows": {"primary_url": "a", "filename": "b"},
			"macos": {"primary_url": "a", "filename": ""},
			"linux": {"primary_url": "a", "filename": "b"}}}`},
	}

	for _, test := range tests {
		_, err := ParseBundle(test.name, []byte(test.data))
		var cfgErr *model.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: expected ConfigError, got %v", test.name, err)
		}
	}
}

func TestLoadBundle_MissingFile(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "nope.json"))
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist cause, got %v", err)
	}
}
