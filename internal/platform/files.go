package platform

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/skratchdot/open-golang/open"

	"github.com/ytget/ptd-launcher/internal/model"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
	ExecutablePermissions  = 0755
)

// Directory layout
const (
	AppDirName   = "PTD Launcher"
	GamesDirName = "Games"
	FlashDirName = "Flash"
	LogFileName  = "ptdlauncher.log"

	// HomeEnvVar overrides the app-data root
	HomeEnvVar = "PTD_LAUNCHER_HOME"
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	MacOSAppFlag       = "-a"
	WindowsSelectParam = "/select,"
)

// Paths is the resolved on-disk layout of the launcher
type Paths struct {
	Root  string
	Games string
	Flash string
}

// NewPaths builds the layout below root
func NewPaths(root string) Paths {
	return Paths{
		Root:  root,
		Games: filepath.Join(root, GamesDirName),
		Flash: filepath.Join(root, FlashDirName),
	}
}

// LogFile returns the path of the launcher log
func (p Paths) LogFile() string {
	return filepath.Join(p.Root, LogFileName)
}

// Ensure creates the root, Games and Flash directories
func (p Paths) Ensure() error {
	for _, dir := range []string{p.Root, p.Games, p.Flash} {
		if err := CreateDirectoryIfNotExists(dir); err != nil {
			return err
		}
	}
	return nil
}

// GamePath returns the canonical destination of a game file
func (p Paths) GamePath(game string) string {
	return filepath.Join(p.Games, model.GameFileName(game))
}

// AppDataRoot returns the per-user application data directory for goos.
// The PTD_LAUNCHER_HOME environment variable takes precedence.
func AppDataRoot(goos string) (string, error) {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir, nil
	}

	switch goos {
	case OSWindows:
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(appData, AppDirName), nil
	case OSDarwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", AppDirName), nil
	case OSLinux:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share", AppDirName), nil
	default:
		return "", model.ErrUnsupportedOS
	}
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FileExists reports whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FindInstalledGame returns the canonical <id>.swf when it exists, else the
// most recently modified <id>-v*.swf in gamesDir.
func FindInstalledGame(gamesDir, game string) (string, bool) {
	canonical := filepath.Join(gamesDir, model.GameFileName(game))
	if FileExists(canonical) {
		return canonical, true
	}

	entries, err := os.ReadDir(gamesDir)
	if err != nil {
		return "", false
	}

	prefix := game + model.VersionMarker
	var latestPath string
	var latestMod int64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, model.GameFileExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); latestPath == "" || mod > latestMod {
			latestPath = filepath.Join(gamesDir, name)
			latestMod = mod
		}
	}

	return latestPath, latestPath != ""
}

// CopyFile copies src to dst, replacing dst and keeping src's mode
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	if err := CreateDirectoryIfNotExists(filepath.Dir(dst)); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}

// OpenURL opens url in the default browser without waiting
func OpenURL(url string) error {
	return open.Start(url)
}

// OpenFileInManager reveals path in the system file manager
func OpenFileInManager(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if !FileExists(absPath) {
		return fmt.Errorf("file does not exist: %s", absPath)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam+absPath).Run()
	case OSLinux:
		info, err := os.Stat(absPath)
		if err == nil && !info.IsDir() {
			absPath = filepath.Dir(absPath)
		}
		return exec.Command(XDGOpenCommand, absPath).Run()
	default:
		return model.ErrUnsupportedOS
	}
}
