package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/ptd-launcher/internal/model"
)

// GameRow shows one tracked item: its name, installed version, status and
// transfer progress, plus the actions available for it. The Flash Player
// row has no Play or PokéCenter button.
type GameRow struct {
	widget.BaseWidget

	itemID       string
	localization *Localization

	titleLabel   *widget.Label
	versionLabel *widget.Label
	statusLabel  *widget.Label
	percentLabel *widget.Label
	progressBar  *widget.ProgressBar

	playBtn       *widget.Button
	downloadBtn   *widget.Button
	pokecenterBtn *widget.Button

	onPlay       func(itemID string)
	onDownload   func(itemID string)
	onPokecenter func(itemID string)
}

// NewGameRow creates a row for itemID
func NewGameRow(itemID string, localization *Localization) *GameRow {
	gr := &GameRow{
		itemID:       itemID,
		localization: localization,
	}
	gr.ExtendBaseWidget(gr)
	gr.createUI()
	return gr
}

// ItemID returns the item the row represents
func (gr *GameRow) ItemID() string {
	return gr.itemID
}

// SetCallbacks sets the action callbacks
func (gr *GameRow) SetCallbacks(onPlay, onDownload, onPokecenter func(itemID string)) {
	gr.onPlay = onPlay
	gr.onDownload = onDownload
	gr.onPokecenter = onPokecenter
}

func (gr *GameRow) isRuntime() bool {
	return gr.itemID == model.FlashPlayerID
}

func (gr *GameRow) createUI() {
	gr.titleLabel = widget.NewLabel(model.DisplayName(gr.itemID))
	gr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	gr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	gr.versionLabel = widget.NewLabel(DashPlaceholder)
	gr.versionLabel.TextStyle = fyne.TextStyle{Monospace: true}

	gr.statusLabel = widget.NewLabel("")
	gr.statusLabel.Alignment = fyne.TextAlignTrailing

	gr.percentLabel = widget.NewLabel("")
	gr.percentLabel.Alignment = fyne.TextAlignTrailing

	gr.progressBar = widget.NewProgressBar()
	gr.progressBar.TextFormatter = func() string { return "" }
	gr.progressBar.Hide()

	gr.playBtn = widget.NewButton(IconPlay+" "+gr.localization.GetText(KeyPlay), func() {
		if gr.onPlay != nil {
			gr.onPlay(gr.itemID)
		}
	})
	gr.playBtn.Importance = widget.HighImportance

	gr.downloadBtn = widget.NewButton(IconDownload, func() {
		if gr.onDownload != nil {
			gr.onDownload(gr.itemID)
		}
	})
	gr.downloadBtn.Importance = widget.MediumImportance

	gr.pokecenterBtn = widget.NewButton(gr.localization.GetText(KeyPokecenter), func() {
		if gr.onPokecenter != nil {
			gr.onPokecenter(gr.itemID)
		}
	})
	gr.pokecenterBtn.Importance = widget.LowImportance

	if gr.isRuntime() {
		gr.playBtn.Hide()
		gr.pokecenterBtn.Hide()
	}
}

// RefreshTexts re-reads localized button labels
func (gr *GameRow) RefreshTexts() {
	gr.playBtn.SetText(IconPlay + " " + gr.localization.GetText(KeyPlay))
	gr.pokecenterBtn.SetText(gr.localization.GetText(KeyPokecenter))
}

// SetVersion shows the installed version; empty means not installed
func (gr *GameRow) SetVersion(version string) {
	if version == "" {
		gr.versionLabel.SetText(gr.localization.GetText(KeyNotInstalled))
		return
	}
	gr.versionLabel.SetText("v" + version)
}

// SetStatus renders an item status
func (gr *GameRow) SetStatus(status model.TaskStatus) {
	importance, text := statusAppearance(status)
	gr.statusLabel.Importance = importance
	gr.statusLabel.SetText(text)

	if status.IsFinished() {
		gr.hideProgress()
	}
}

// SetProgress shows ps, or hides the bar when active is false
func (gr *GameRow) SetProgress(ps model.ProgressState, active bool) {
	if !active {
		gr.hideProgress()
		return
	}
	gr.progressBar.SetValue(float64(ps.Percent) / 100)
	gr.progressBar.Show()
	gr.percentLabel.SetText(progressText(ps))
}

func (gr *GameRow) hideProgress() {
	gr.progressBar.SetValue(0)
	gr.progressBar.Hide()
	gr.percentLabel.SetText("")
}

// SetBusy disables the download action while the updater is working
func (gr *GameRow) SetBusy(busy bool) {
	if busy {
		gr.downloadBtn.Disable()
	} else {
		gr.downloadBtn.Enable()
	}
}

// statusAppearance maps an item status to a label style and text
func statusAppearance(status model.TaskStatus) (widget.Importance, string) {
	switch status {
	case model.TaskStatusFailed:
		return widget.DangerImportance, IconError + " " + status.String()
	case model.TaskStatusInstalled, model.TaskStatusUpToDate:
		return widget.SuccessImportance, IconCheck + " " + status.String()
	case model.TaskStatusDownloading:
		return widget.HighImportance, IconDownload + " " + status.String()
	case model.TaskStatusResolving:
		return widget.MediumImportance, IconPending + " " + status.String()
	default:
		return widget.MediumImportance, ""
	}
}

// progressText is the percent label, with sizes when the total is unknown
func progressText(ps model.ProgressState) string {
	if ps.BytesTotal <= 0 {
		return model.FormatBytes(ps.BytesDownloaded)
	}
	return fmt.Sprintf(ProgressLabelFormat, ps.Percent)
}

// CreateRenderer creates the widget renderer
func (gr *GameRow) CreateRenderer() fyne.WidgetRenderer {
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewHBox(
		fixedWidth(VersionLabelWidth, gr.versionLabel),
		fixedWidth(ProgressBarWidth, container.NewVBox(gr.progressBar)),
		fixedWidth(PercentLabelWidth, gr.percentLabel),
		fixedWidth(StatusLabelWidth, gr.statusLabel),
	)
	actions := container.NewHBox(gr.playBtn, gr.downloadBtn, gr.pokecenterBtn)
	right := container.NewBorder(nil, nil, nil, actions, info)

	body := container.NewVBox(
		container.NewBorder(nil, nil, nil, right, gr.titleLabel),
		widget.NewSeparator(),
	)
	return widget.NewSimpleRenderer(body)
}

// MinSize keeps rows readable in narrow windows
func (gr *GameRow) MinSize() fyne.Size {
	size := gr.BaseWidget.MinSize()
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	if size.Height < RowMinHeight {
		size.Height = RowMinHeight
	}
	return size
}
