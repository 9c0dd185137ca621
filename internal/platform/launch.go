package platform

import (
	"fmt"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/model"
)

// LaunchCommand builds the command that opens gamePath with the runtime.
// On macOS the runtime is an .app bundle and is started through open -a.
func LaunchCommand(goos, runtimePath, gamePath string) (*exec.Cmd, error) {
	switch goos {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSAppFlag, runtimePath, gamePath), nil
	case OSWindows, OSLinux:
		return exec.Command(runtimePath, gamePath), nil
	default:
		return nil, model.ErrUnsupportedOS
	}
}

// Launch spawns the runtime with gamePath and returns without waiting for
// it to exit. The child is reaped in the background.
func Launch(goos, item, runtimePath, gamePath string) error {
	if !FileExists(runtimePath) {
		return &model.LaunchError{Item: item, Cause: fmt.Errorf("runtime not found: %s", runtimePath)}
	}
	if !FileExists(gamePath) {
		return &model.LaunchError{Item: item, Cause: fmt.Errorf("game file not found: %s", gamePath)}
	}

	cmd, err := LaunchCommand(goos, runtimePath, gamePath)
	if err != nil {
		return &model.LaunchError{Item: item, Cause: err}
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return &model.LaunchError{Item: item, Cause: err}
	}
	log.WithField("item", item).Infof("launched runtime with pid %d", cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			log.WithField("item", item).Warnf("runtime exited: %v", err)
		}
	}()
	return nil
}
