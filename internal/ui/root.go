package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/events"
	"github.com/ytget/ptd-launcher/internal/launcher"
	"github.com/ytget/ptd-launcher/internal/model"
	"github.com/ytget/ptd-launcher/internal/platform"
	"github.com/ytget/ptd-launcher/internal/updater"
)

// RootUI is the launcher window. It owns the event board and every widget;
// the updater reaches it only through the event queue. Updater work runs
// on a background context so closing the window never aborts a transfer.
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	lc           *launcher.Context
	updater      *updater.Updater
	queue        *events.Queue
	board        *events.Board
	localization *Localization

	rows  map[string]*GameRow
	order []string

	statusLabel *widget.Label
	spinner     *widget.ProgressBarInfinite
	checkBtn    *widget.Button
	missingBtn  *widget.Button

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewRootUI builds the window content. queue must be the sink the updater
// was created with.
func NewRootUI(window fyne.Window, app fyne.App, lc *launcher.Context, upd *updater.Updater, queue *events.Queue) *RootUI {
	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		window:       window,
		app:          app,
		lc:           lc,
		updater:      upd,
		queue:        queue,
		board:        events.NewBoard(),
		localization: NewLocalization(),
		rows:         make(map[string]*GameRow),
		ctx:          ctx,
		cancel:       cancel,
	}

	window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.setupUI()
	window.SetOnClosed(ui.Stop)
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	title := widget.NewLabelWithStyle(ui.localization.GetText(KeyAppTitle), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.checkBtn = widget.NewButton(ui.localization.GetText(KeyCheckUpdates), ui.onCheckUpdates)
	ui.missingBtn = widget.NewButton(ui.localization.GetText(KeyDownloadMissing), ui.onDownloadMissing)
	folderBtn := widget.NewButton(IconFolder, ui.onOpenFolder)
	folderBtn.Importance = widget.LowImportance

	top := container.NewBorder(nil, nil, title, container.NewHBox(ui.checkBtn, ui.missingBtn, folderBtn, settingsBtn))

	list := container.NewVBox()
	ui.order = append(append([]string{}, model.KnownGames...), model.FlashPlayerID)
	for _, id := range ui.order {
		row := NewGameRow(id, ui.localization)
		row.SetCallbacks(ui.onPlay, ui.onDownload, ui.onPokecenter)
		ui.rows[id] = row
		list.Add(row)
	}
	ui.refreshVersions()

	ui.statusLabel = widget.NewLabel(ui.localization.GetText(KeyReady))
	ui.spinner = widget.NewProgressBarInfinite()
	ui.spinner.Hide()
	bottom := container.NewBorder(widget.NewSeparator(), nil, nil, nil, container.NewVBox(ui.spinner, ui.statusLabel))

	ui.window.SetContent(container.NewBorder(top, bottom, nil, nil, container.NewVScroll(list)))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	checkItem := fyne.NewMenuItem(ui.localization.GetText(KeyCheckUpdates), ui.onCheckUpdates)
	folderItem := fyne.NewMenuItem(ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), checkItem, folderItem, settingsItem),
		languageMenu,
	))
}

// onLanguageChange switches the UI language for this session
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)

	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.checkBtn.SetText(ui.localization.GetText(KeyCheckUpdates))
	ui.missingBtn.SetText(ui.localization.GetText(KeyDownloadMissing))
	for _, row := range ui.rows {
		row.RefreshTexts()
	}
	ui.refreshVersions()
	ui.createMenu()
}

// Start begins draining events and launches the startup update batch
func (ui *RootUI) Start() {
	go ui.drainLoop()

	go func() {
		select {
		case <-ui.ctx.Done():
			return
		case <-time.After(AutoStartDelay):
		}
		ui.startBatch()
	}()
}

// Stop closes the event queue and stops draining. Transfers in flight are
// not aborted; their events are dropped.
func (ui *RootUI) Stop() {
	ui.stopOnce.Do(func() {
		log.Info("window closed, detaching from updater")
		ui.queue.Close()
		ui.cancel()
	})
}

func (ui *RootUI) drainLoop() {
	ticker := time.NewTicker(EventTick)
	defer ticker.Stop()

	for {
		select {
		case <-ui.ctx.Done():
			return
		case <-ticker.C:
			fyne.Do(ui.applyPending)
		}
	}
}

// applyPending folds queued events into the board and updates the rows
// they touched. Must run on the UI thread.
func (ui *RootUI) applyPending() {
	for _, ev := range ui.queue.Drain() {
		if !ui.board.Apply(ev) {
			continue
		}
		ui.render(ev)
	}
}

func (ui *RootUI) render(ev events.Event) {
	switch e := ev.(type) {
	case events.ProgressEvent:
		if row, ok := ui.rows[e.ItemID]; ok {
			ps, active := ui.board.Progress(e.ItemID)
			row.SetProgress(ps, active)
		}
	case events.ItemEvent:
		row, ok := ui.rows[e.ItemID]
		if !ok {
			return
		}
		row.SetStatus(e.Status)
		if e.Status == model.TaskStatusInstalled {
			row.SetVersion(e.Version)
		}
	case events.StatusEvent:
		ui.statusLabel.SetText(ui.board.Message())
	case events.BatchEvent:
		ui.setBusy(e.State == model.BatchChecking)
		if e.State == model.BatchDone {
			ui.refreshVersions()
			if e.Installed > 0 {
				ui.app.SendNotification(fyne.NewNotification(
					ui.localization.GetText(KeyUpdatesInstalled), ui.board.Message()))
			}
		}
	}
}

func (ui *RootUI) setBusy(busy bool) {
	if busy {
		ui.spinner.Show()
		ui.spinner.Start()
		ui.checkBtn.Disable()
		ui.missingBtn.Disable()
	} else {
		ui.spinner.Stop()
		ui.spinner.Hide()
		ui.checkBtn.Enable()
		ui.missingBtn.Enable()
	}
	for _, row := range ui.rows {
		row.SetBusy(busy)
	}
}

func (ui *RootUI) refreshVersions() {
	ledger := ui.lc.Ledger.Get()
	for id, row := range ui.rows {
		row.SetVersion(ledger.Version(id))
	}
}

func (ui *RootUI) startBatch() {
	if err := ui.updater.Start(context.Background()); err != nil {
		log.Warnf("update batch not started: %v", err)
	}
}

// onCheckUpdates runs a full update batch
func (ui *RootUI) onCheckUpdates() {
	if err := ui.updater.Start(context.Background()); err != nil {
		ui.showBusyOrError(err)
	}
}

// onDownloadMissing fetches every game not on disk in the background
func (ui *RootUI) onDownloadMissing() {
	go func() {
		if _, err := ui.updater.DownloadMissing(context.Background()); err != nil {
			fyne.Do(func() { ui.showBusyOrError(err) })
		}
	}()
}

// onDownload forces a download of one item
func (ui *RootUI) onDownload(itemID string) {
	if err := ui.updater.StartDownload(context.Background(), itemID); err != nil {
		ui.showBusyOrError(err)
	}
}

// onPlay launches a game, offering a download when a piece is missing
func (ui *RootUI) onPlay(itemID string) {
	err := ui.lc.Play(itemID)
	switch {
	case err == nil:
		return
	case errors.Is(err, launcher.ErrGameNotInstalled):
		msg := fmt.Sprintf(ui.localization.GetText(KeyGameMissing), model.DisplayName(itemID))
		ui.confirmDownload(msg, itemID)
	case errors.Is(err, launcher.ErrRuntimeNotInstalled):
		ui.confirmDownload(ui.localization.GetText(KeyRuntimeMissing), model.FlashPlayerID)
	default:
		log.WithField("item", itemID).Errorf("launch failed: %v", err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorLaunching), err), ui.window)
	}
}

func (ui *RootUI) confirmDownload(message, itemID string) {
	dialog.ShowConfirm(ui.localization.GetText(KeyDownload), message, func(ok bool) {
		if ok {
			ui.onDownload(itemID)
		}
	}, ui.window)
}

// onPokecenter opens the game's website
func (ui *RootUI) onPokecenter(itemID string) {
	if err := ui.lc.OpenPokecenter(itemID); err != nil {
		log.Errorf("failed to open PokéCenter for %s: %v", itemID, err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningSite), err), ui.window)
	}
}

// onOpenFolder reveals the games directory in the file manager
func (ui *RootUI) onOpenFolder() {
	if err := platform.OpenFileInManager(ui.lc.Paths.Games); err != nil {
		log.Errorf("failed to open %s: %v", ui.lc.Paths.Games, err)
		dialog.ShowError(err, ui.window)
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.lc, ui.window, ui.localization, ui.refreshVersions).Show()
}

func (ui *RootUI) showBusyOrError(err error) {
	if errors.Is(err, model.ErrBusy) {
		dialog.ShowInformation(ui.localization.GetText(KeyAppTitle), ui.localization.GetText(KeyBusy), ui.window)
		return
	}
	dialog.ShowError(err, ui.window)
}

// ShowFatalError shows err in window and quits the app once it is dismissed
func ShowFatalError(window fyne.Window, app fyne.App, err error) {
	log.Errorf("fatal: %v", err)
	d := dialog.NewError(err, window)
	d.SetOnClosed(app.Quit)
	d.Show()
}
