package cli

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ytget/ptd-launcher/internal/events"
	"github.com/ytget/ptd-launcher/internal/ui"
)

const (
	AppID   = "ooo.ptd.launcher"
	AppName = "PTD Launcher"
)

func newGUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the launcher window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts)
		},
	}
}

// runGUI opens the window, starts the startup update and blocks until
// the window is closed. A config or platform error is shown in a dialog
// that quits the app.
func runGUI(opts *rootOptions) error {
	log.Infof("%s v%s starting...", AppName, version)

	a := app.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewLauncherTheme())

	w := a.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	w.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	lc, err := opts.newContext()
	if err != nil {
		ui.ShowFatalError(w, a, err)
		w.ShowAndRun()
		return err
	}

	queue := events.NewQueue()
	root := ui.NewRootUI(w, a, lc, newUpdater(lc, queue), queue)
	root.Start()

	w.ShowAndRun()
	return nil
}
