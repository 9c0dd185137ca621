package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/ptd-launcher/internal/model"
	"github.com/ytget/ptd-launcher/internal/updater"
)

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Download every game and the Flash Player that is missing or outdated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := opts.newContext()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			report, err := newUpdater(lc, newPrinter(out)).Run(cmd.Context())
			if err != nil {
				return err
			}
			printReport(out, report)
			return batchError(report)
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "List items with a newer version available without downloading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := opts.newContext()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			report, err := newUpdater(lc, newPrinter(out)).Check(cmd.Context())
			if err != nil {
				return err
			}
			printReport(out, report)
			return batchError(report)
		},
	}
}

func newDownloadCmd(opts *rootOptions) *cobra.Command {
	var missing bool

	cmd := &cobra.Command{
		Use:   "download [item]",
		Short: "Download one game or flash_player, even if it is up to date",
		Example: "  ptd-launcher download PTD2\n" +
			"  ptd-launcher download " + model.FlashPlayerID + "\n" +
			"  ptd-launcher download --missing",
		Args: func(cmd *cobra.Command, args []string) error {
			if missing {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := opts.newContext()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			upd := newUpdater(lc, newPrinter(out))

			if missing {
				report, err := upd.DownloadMissing(cmd.Context())
				if err != nil {
					return err
				}
				printReport(out, report)
				return batchError(report)
			}

			res, err := upd.DownloadItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", res.ItemID, res.To)
			return nil
		},
	}
	cmd.Flags().BoolVar(&missing, "missing", false, "download every game that is not on disk")
	return cmd
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play <game>",
		Short: "Launch a downloaded game with the Flash Player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := opts.newContext()
			if err != nil {
				return err
			}
			return lc.Play(args[0])
		},
	}
}

func newSetRuntimeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-runtime <path>",
		Short: "Use your own Flash Player projector instead of the downloaded one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := opts.newContext()
			if err != nil {
				return err
			}
			dst, err := lc.SetCustomRuntime(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Custom Flash Player installed at %s\n", dst)
			return nil
		},
	}
}

func newResetSettingsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-settings",
		Short: "Restore default settings and forget the custom Flash Player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := opts.newContext()
			if err != nil {
				return err
			}
			lc.ResetSettings()
			fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to defaults")
			return nil
		},
	}
}

func newPokecenterCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pokecenter <game>",
		Short: "Open the PokéCenter website of a game in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := opts.newContext()
			if err != nil {
				return err
			}
			return lc.OpenPokecenter(args[0])
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the launcher version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.Println(version)
		},
	}
}

// batchError turns per-item failures into a non-zero exit
func batchError(report *updater.Report) error {
	if report.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d items failed: %w", report.Failed, report.Err())
}
