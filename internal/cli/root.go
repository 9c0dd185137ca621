// Package cli implements the ptd-launcher command line. Without a
// subcommand it opens the launcher window.
package cli

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ytget/ptd-launcher/internal/download"
	"github.com/ytget/ptd-launcher/internal/events"
	"github.com/ytget/ptd-launcher/internal/launcher"
	"github.com/ytget/ptd-launcher/internal/logging"
	"github.com/ytget/ptd-launcher/internal/platform"
	"github.com/ytget/ptd-launcher/internal/resolver"
	"github.com/ytget/ptd-launcher/internal/updater"
)

const (
	homeFlag     = "home"
	configFlag   = "config"
	logLevelFlag = "log-level"
	logFileFlag  = "log-file"
)

// version is set during build via -ldflags "-X github.com/ytget/ptd-launcher/internal/cli.version=X.Y.Z"
var version = "dev"

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	home       string
	configPath string
	logLevel   string
	logFile    string
}

// root returns the app-data root the flags select
func (o *rootOptions) root() (string, error) {
	if o.home != "" {
		return o.home, nil
	}
	return platform.AppDataRoot(runtime.GOOS)
}

func (o *rootOptions) initLogging() error {
	path := o.logFile
	if path == "" {
		root, err := o.root()
		if err != nil {
			path = logging.ConsolePath
		} else {
			path = platform.NewPaths(root).LogFile()
		}
	}
	return logging.Init(o.logLevel, path)
}

func (o *rootOptions) newContext() (*launcher.Context, error) {
	return launcher.NewContext(launcher.Options{Home: o.home, ConfigPath: o.configPath})
}

func newUpdater(lc *launcher.Context, sink events.Sink) *updater.Updater {
	return updater.New(lc, resolver.New(), download.NewService(), sink)
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "ptd-launcher",
		Short:        "Download, update and play the PTD games",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.home, homeFlag, "", "app-data directory (default: per-user data dir, or $"+platform.HomeEnvVar+")")
	flags.StringVarP(&opts.configPath, configFlag, "c", "", "config.json to use instead of the bundled one")
	flags.StringVarP(&opts.logLevel, logLevelFlag, "l", "info", "sets the log level")
	flags.StringVar(&opts.logFile, logFileFlag, "", "sets the log path. If console is specified the log will be output to stderr only")

	rootCmd.AddCommand(
		newGUICmd(opts),
		newUpdateCmd(opts),
		newCheckCmd(opts),
		newDownloadCmd(opts),
		newPlayCmd(opts),
		newSetRuntimeCmd(opts),
		newResetSettingsCmd(opts),
		newPokecenterCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line until it finishes or the process is
// interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		log.Debugf("command failed: %v", err)
	}
	return err
}
