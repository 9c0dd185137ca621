package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/launcher"
)

// SettingsDialog edits user_settings.json: sound, a custom Flash Player
// and a reset to defaults. Every change is applied immediately.
type SettingsDialog struct {
	lc           *launcher.Context
	window       fyne.Window
	localization *Localization
	onChanged    func()
	dialog       dialog.Dialog

	soundCheck   *widget.Check
	runtimeEntry *widget.Entry
}

// NewSettingsDialog creates a new settings dialog. onChanged runs after
// the runtime or the reset changed the ledger.
func NewSettingsDialog(lc *launcher.Context, window fyne.Window, localization *Localization, onChanged func()) *SettingsDialog {
	sd := &SettingsDialog{
		lc:           lc,
		window:       window,
		localization: localization,
		onChanged:    onChanged,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.soundCheck = widget.NewCheck(sd.localization.GetText(KeySoundEnabled), nil)

	sd.runtimeEntry = widget.NewEntry()
	sd.runtimeEntry.Disable()
	browseBtn := widget.NewButton(sd.localization.GetText(KeyBrowse), sd.onBrowseRuntime)
	runtimeRow := container.NewBorder(nil, nil, nil, browseBtn, sd.runtimeEntry)

	resetBtn := widget.NewButton(sd.localization.GetText(KeyResetSettings), sd.onReset)
	resetBtn.Importance = widget.DangerImportance

	form := container.NewVBox(
		sd.soundCheck,
		widget.NewSeparator(),
		widget.NewLabel(sd.localization.GetText(KeyCustomRuntime)+":"),
		runtimeRow,
		widget.NewSeparator(),
		resetBtn,
	)

	sd.dialog = dialog.NewCustom(sd.localization.GetText(KeySettings), "OK", form, sd.window)
	sd.dialog.Resize(fyne.NewSize(460, 260))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.soundCheck.OnChanged = nil
	sd.soundCheck.SetChecked(sd.lc.SoundEnabled())
	sd.soundCheck.OnChanged = sd.lc.Settings.SetSoundEnabled

	if sd.lc.Settings.GetCustomFlashPlayer() {
		sd.runtimeEntry.SetText(sd.lc.Settings.GetFlashPlayerPath())
	} else {
		sd.runtimeEntry.SetText("")
	}
}

// onBrowseRuntime lets the user pick a Flash Player binary
func (sd *SettingsDialog) onBrowseRuntime() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		if cerr := reader.Close(); cerr != nil {
			log.Warnf("failed to close %s: %v", path, cerr)
		}

		dst, err := sd.lc.SetCustomRuntime(path)
		if err != nil {
			dialog.ShowError(fmt.Errorf("%s: %w", sd.localization.GetText(KeyErrorCustomPlayer), err), sd.window)
			return
		}
		sd.runtimeEntry.SetText(dst)
		sd.changed()
		dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeyRuntimeInstalled), sd.window)
	}, sd.window)
}

// onReset restores defaults after confirmation
func (sd *SettingsDialog) onReset() {
	dialog.ShowConfirm(sd.localization.GetText(KeyResetSettings), sd.localization.GetText(KeyResetConfirm), func(ok bool) {
		if !ok {
			return
		}
		sd.lc.ResetSettings()
		sd.loadCurrentSettings()
		sd.changed()
		dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
	}, sd.window)
}

func (sd *SettingsDialog) changed() {
	if sd.onChanged != nil {
		sd.onChanged()
	}
}
