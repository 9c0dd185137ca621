package platform

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	log "github.com/sirupsen/logrus"
)

// Runtime archive names used while downloading
const (
	DMGArchiveName   = "flash_player.dmg"
	TarGzArchiveName = "flash_player.tar.gz"
)

const (
	hdiutilCommand = "hdiutil"
	xattrCommand   = "xattr"
)

// UnpackDMG mounts dmgPath, copies appName into destDir and deletes the
// image. macOS only.
func UnpackDMG(dmgPath, appName, destDir string) (string, error) {
	mountPoint, err := os.MkdirTemp("", "ptd-dmg-*")
	if err != nil {
		return "", fmt.Errorf("failed to create mount point: %w", err)
	}
	defer os.RemoveAll(mountPoint)

	attach := exec.Command(hdiutilCommand, "attach", "-nobrowse", "-mountpoint", mountPoint, dmgPath)
	if out, err := attach.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to mount DMG: %w: %s", err, out)
	}
	defer func() {
		if err := exec.Command(hdiutilCommand, "detach", mountPoint, "-force").Run(); err != nil {
			log.Warnf("failed to detach %s: %v", mountPoint, err)
		}
	}()

	srcPath := filepath.Join(mountPoint, appName)
	if !FileExists(srcPath) {
		return "", fmt.Errorf("%s not found in %s", appName, dmgPath)
	}

	dstPath := filepath.Join(destDir, appName)
	_ = os.RemoveAll(dstPath)
	if out, err := exec.Command("cp", "-R", srcPath, dstPath).CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to copy application: %w: %s", err, out)
	}

	if err := exec.Command(xattrCommand, "-rd", "com.apple.quarantine", dstPath).Run(); err != nil {
		log.Debugf("failed to remove quarantine attributes: %v", err)
	}

	if err := os.Remove(dmgPath); err != nil {
		log.Warnf("failed to remove %s: %v", dmgPath, err)
	}
	return dstPath, nil
}

// UnpackTarGz extracts archivePath, locates the binary named binName,
// makes it executable, moves it to destDir/binName and deletes the archive
// together with the remaining extracted files.
func UnpackTarGz(archivePath, binName, destDir string) (string, error) {
	workDir, err := os.MkdirTemp(destDir, "unpack-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := extractTarGz(archivePath, workDir); err != nil {
		return "", err
	}

	found, err := findFile(workDir, binName)
	if err != nil {
		return "", err
	}

	if err := os.Chmod(found, ExecutablePermissions); err != nil {
		return "", fmt.Errorf("failed to make %s executable: %w", binName, err)
	}

	dstPath := filepath.Join(destDir, binName)
	_ = os.RemoveAll(dstPath)
	if err := os.Rename(found, dstPath); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", binName, err)
	}

	if err := os.Remove(archivePath); err != nil {
		log.Warnf("failed to remove %s: %v", archivePath, err)
	}
	return dstPath, nil
}

func extractTarGz(archivePath, targetDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		path, err := securejoin.SecureJoin(targetDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, DefaultDirPermissions); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
				return err
			}
			out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			out.Close()
		default:
			log.Debugf("skipping %s (type %c)", header.Name, header.Typeflag)
		}
	}
}

func findFile(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%s not found in archive", name)
	}
	return found, nil
}
