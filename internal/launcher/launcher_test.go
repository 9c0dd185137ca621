package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ptd-launcher/internal/ledger"
	"github.com/ytget/ptd-launcher/internal/model"
	"github.com/ytget/ptd-launcher/internal/platform"
)

func newTestContext(t *testing.T, goos string) *Context {
	t.Helper()
	lc, err := NewContext(Options{GOOS: goos, Home: t.TempDir()})
	require.NoError(t, err)
	return lc
}

func TestNewContext_Layout(t *testing.T) {
	lc := newTestContext(t, platform.OSLinux)

	for _, dir := range []string{lc.Paths.Root, lc.Paths.Games, lc.Paths.Flash} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.FileExists(t, filepath.Join(lc.Paths.Root, ledger.FileName))
	assert.Equal(t, "flashplayer", lc.Runtime.Filename)
	assert.True(t, lc.SoundEnabled())
}

func TestNewContext_FatalErrors(t *testing.T) {
	_, err := NewContext(Options{GOOS: "plan9", Home: t.TempDir()})
	assert.True(t, errors.Is(err, model.ErrUnsupportedOS), "got %v", err)

	_, err = NewContext(Options{GOOS: platform.OSLinux, Home: t.TempDir(), ConfigPath: filepath.Join(t.TempDir(), "missing.json")})
	var cfgErr *model.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "got %v", err)
}

func TestRuntimeArchivePath(t *testing.T) {
	tests := []struct {
		goos     string
		expected string
	}{
		{platform.OSWindows, "flashplayer_sa.exe"},
		{platform.OSDarwin, platform.DMGArchiveName},
		{platform.OSLinux, platform.TarGzArchiveName},
	}

	for _, test := range tests {
		lc := newTestContext(t, test.goos)
		assert.Equal(t, filepath.Join(lc.Paths.Flash, test.expected), lc.RuntimeArchivePath(), test.goos)
	}
}

func TestPlay_MissingPieces(t *testing.T) {
	lc := newTestContext(t, platform.OSLinux)

	err := lc.Play(model.GamePTD1)
	assert.True(t, errors.Is(err, ErrGameNotInstalled), "got %v", err)

	require.NoError(t, os.WriteFile(lc.Paths.GamePath(model.GamePTD1), []byte("swf"), 0644))
	err = lc.Play(model.GamePTD1)
	assert.True(t, errors.Is(err, ErrRuntimeNotInstalled), "got %v", err)

	var launchErr *model.LaunchError
	assert.True(t, errors.As(lc.Play("PTD9"), &launchErr))
}

func TestLaunch_GameMissing(t *testing.T) {
	lc := newTestContext(t, platform.OSLinux)

	err := lc.Launch(model.GamePTD2, "/nonexistent/flashplayer")
	var launchErr *model.LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, model.GamePTD2, launchErr.Item)
}

func TestFindInstalledPath(t *testing.T) {
	lc := newTestContext(t, platform.OSLinux)

	_, ok := lc.FindInstalledPath(model.GamePTD3)
	assert.False(t, ok)

	versioned := filepath.Join(lc.Paths.Games, "PTD3-v2.swf")
	require.NoError(t, os.WriteFile(versioned, []byte("swf"), 0644))

	path, ok := lc.FindInstalledPath(model.GamePTD3)
	assert.True(t, ok)
	assert.Equal(t, versioned, path)
}

func TestSetCustomRuntime(t *testing.T) {
	lc := newTestContext(t, platform.OSLinux)

	src := filepath.Join(t.TempDir(), "my-flash")
	require.NoError(t, os.WriteFile(src, []byte("custom runtime"), 0755))

	dst, err := lc.SetCustomRuntime(src)
	require.NoError(t, err)
	assert.Equal(t, lc.DefaultRuntimePath(), dst)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "custom runtime", string(data))

	assert.True(t, lc.IsCustomRuntime())
	assert.Equal(t, model.CustomVersion, lc.Ledger.Get().FlashPlayer)
	assert.True(t, lc.Settings.GetCustomFlashPlayer())

	runtimePath, ok := lc.RuntimePath()
	assert.True(t, ok)
	assert.Equal(t, dst, runtimePath)

	reloaded, err := ledger.NewStore(lc.Paths.Root).Load()
	require.NoError(t, err)
	assert.True(t, reloaded.IsCustomRuntime(), "custom marker must be persisted")
}

func TestSetCustomRuntime_MissingSource(t *testing.T) {
	lc := newTestContext(t, platform.OSLinux)

	_, err := lc.SetCustomRuntime(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.False(t, lc.IsCustomRuntime())
}

func TestResetSettings(t *testing.T) {
	lc := newTestContext(t, platform.OSLinux)

	src := filepath.Join(t.TempDir(), "my-flash")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0755))
	_, err := lc.SetCustomRuntime(src)
	require.NoError(t, err)
	lc.Settings.SetSoundEnabled(false)

	lc.ResetSettings()

	assert.False(t, lc.IsCustomRuntime())
	assert.True(t, lc.SoundEnabled())
	assert.Equal(t, "", lc.Ledger.Get().FlashPlayer)
}

func TestOpenPokecenter_UnknownGame(t *testing.T) {
	lc := newTestContext(t, platform.OSLinux)
	assert.Error(t, lc.OpenPokecenter(model.FlashPlayerID))
}
