// Package updater compares remote versions with the ledger and downloads
// stale items one at a time on a single background worker.
package updater

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/download"
	"github.com/ytget/ptd-launcher/internal/events"
	"github.com/ytget/ptd-launcher/internal/launcher"
	"github.com/ytget/ptd-launcher/internal/ledger"
	"github.com/ytget/ptd-launcher/internal/model"
	"github.com/ytget/ptd-launcher/internal/platform"
	"github.com/ytget/ptd-launcher/internal/resolver"
)

// VersionResolver returns the version a server currently serves
type VersionResolver interface {
	Resolve(ctx context.Context, url string) (resolver.Remote, error)
}

// Updater drives batches and manual downloads. All entry points share one
// Gate, so at most one of them runs at a time.
type Updater struct {
	lc         *launcher.Context
	resolver   VersionResolver
	downloader download.Downloader
	sink       events.Sink
	gate       Gate
	wg         sync.WaitGroup
}

// New creates an Updater. A nil sink discards events.
func New(lc *launcher.Context, res VersionResolver, dl download.Downloader, sink events.Sink) *Updater {
	if sink == nil {
		sink = events.Discard
	}
	return &Updater{
		lc:         lc,
		resolver:   res,
		downloader: dl,
		sink:       sink,
	}
}

// State returns whether the worker is busy
func (u *Updater) State() State {
	return u.gate.State()
}

// item is one tracked download
type item struct {
	id          string
	url         string
	fallbackURL string
	destination string
	installed   string
	runtime     bool
}

func (u *Updater) gameItem(id string) (item, bool) {
	url, ok := u.lc.Bundle.GameURL(id)
	if !ok {
		return item{}, false
	}
	dest := u.lc.Paths.GamePath(id)
	return item{id: id, url: url, destination: dest, installed: dest}, true
}

func (u *Updater) runtimeItem() item {
	return item{
		id:          model.FlashPlayerID,
		url:         u.lc.Runtime.PrimaryURL,
		fallbackURL: u.lc.Runtime.FallbackURL,
		destination: u.lc.RuntimeArchivePath(),
		installed:   u.lc.DefaultRuntimePath(),
		runtime:     true,
	}
}

// items lists games with a configured URL, in display order, then the runtime
func (u *Updater) items() []item {
	var out []item
	for _, id := range model.KnownGames {
		if it, ok := u.gameItem(id); ok {
			out = append(out, it)
		} else {
			log.WithField("item", id).Warn("no download URL configured, skipping")
		}
	}
	return append(out, u.runtimeItem())
}

func (u *Updater) lookup(id string) (item, error) {
	if id == model.FlashPlayerID {
		return u.runtimeItem(), nil
	}
	if !model.IsKnownGame(id) {
		return item{}, fmt.Errorf("unknown item %q", id)
	}
	it, ok := u.gameItem(id)
	if !ok {
		return item{}, fmt.Errorf("no download URL configured for %s", id)
	}
	return it, nil
}

// Run performs a full batch synchronously. It returns model.ErrBusy if
// the worker is already in use.
func (u *Updater) Run(ctx context.Context) (*Report, error) {
	if err := u.gate.TryAcquire(); err != nil {
		return nil, err
	}
	defer u.gate.Release()

	return u.runBatch(ctx), nil
}

// Start runs a batch on a background goroutine. It returns model.ErrBusy
// immediately, without starting anything, if the worker is in use.
func (u *Updater) Start(ctx context.Context) error {
	if err := u.gate.TryAcquire(); err != nil {
		return err
	}

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		defer u.gate.Release()
		u.runBatch(ctx)
	}()
	return nil
}

// StartDownload downloads one item on a background goroutine, sharing the
// batch's busy token
func (u *Updater) StartDownload(ctx context.Context, id string) error {
	it, err := u.lookup(id)
	if err != nil {
		return err
	}
	if err := u.gate.TryAcquire(); err != nil {
		return err
	}

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		defer u.gate.Release()
		u.runSingle(ctx, it)
	}()
	return nil
}

// Wait blocks until background work started by Start or StartDownload ends
func (u *Updater) Wait() {
	u.wg.Wait()
}

// DownloadItem downloads one item even if it is up to date
func (u *Updater) DownloadItem(ctx context.Context, id string) (ItemResult, error) {
	it, err := u.lookup(id)
	if err != nil {
		return ItemResult{}, err
	}
	if err := u.gate.TryAcquire(); err != nil {
		return ItemResult{}, err
	}
	defer u.gate.Release()

	res := u.runSingle(ctx, it)
	return res, res.Err
}

// DownloadMissing downloads every game whose file is not on disk,
// without comparing versions
func (u *Updater) DownloadMissing(ctx context.Context) (*Report, error) {
	if err := u.gate.TryAcquire(); err != nil {
		return nil, err
	}
	defer u.gate.Release()

	u.batchEvent(model.BatchChecking, nil)
	report := &Report{}
	for _, it := range u.items() {
		if it.runtime {
			continue
		}
		if _, ok := u.lc.FindInstalledPath(it.id); ok {
			continue
		}
		u.status(fmt.Sprintf("%s not found. Downloading...", it.id))
		report.add(u.process(ctx, it, true))
	}

	if report.Installed > 0 {
		u.status(fmt.Sprintf("Downloaded %d games", report.Installed))
	} else if report.Failed == 0 {
		u.status("All games are already downloaded")
	} else {
		u.status(report.Summary())
	}
	u.batchEvent(model.BatchDone, report)
	return report, nil
}

// Check resolves every item and reports which are stale, without
// downloading anything
func (u *Updater) Check(ctx context.Context) (*Report, error) {
	if err := u.gate.TryAcquire(); err != nil {
		return nil, err
	}
	defer u.gate.Release()

	u.status("Checking for updates...")
	report := &Report{}
	for _, it := range u.items() {
		res := ItemResult{ItemID: it.id, From: u.lc.Ledger.Get().Version(it.id)}
		if it.runtime && u.lc.IsCustomRuntime() {
			res.Status = model.TaskStatusUpToDate
			report.add(res)
			continue
		}

		version, err := u.resolve(ctx, it)
		if err != nil {
			res.Status = model.TaskStatusFailed
			res.Err = err
			report.add(res)
			continue
		}

		res.To = version
		if u.upToDate(it, version) {
			res.Status = model.TaskStatusUpToDate
		} else {
			res.Status = model.TaskStatusPending
			res.Stale = true
		}
		report.add(res)
	}

	if stale := report.StaleItems(); len(stale) > 0 {
		u.status(fmt.Sprintf("Updates available: %d", len(stale)))
	} else {
		u.status("No updates available")
	}
	return report, nil
}

func (u *Updater) runBatch(ctx context.Context) *Report {
	u.batchEvent(model.BatchChecking, nil)
	u.status("Checking for updates...")

	report := &Report{}
	for _, it := range u.items() {
		report.add(u.process(ctx, it, false))
	}

	if err := report.Err(); err != nil {
		log.Warnf("batch finished with errors: %v", err)
	}
	log.Infof("batch finished: %d installed, %d failed", report.Installed, report.Failed)

	u.status(report.Summary())
	u.batchEvent(model.BatchDone, report)
	return report
}

// runSingle wraps one forced download in batch events so observers treat
// it like any other busy period
func (u *Updater) runSingle(ctx context.Context, it item) ItemResult {
	name := model.DisplayName(it.id)
	u.batchEvent(model.BatchChecking, nil)
	u.status(fmt.Sprintf("Downloading %s...", name))

	res := u.process(ctx, it, true)
	switch res.Status {
	case model.TaskStatusInstalled:
		u.status(fmt.Sprintf("%s downloaded", name))
	case model.TaskStatusUpToDate:
		u.status(fmt.Sprintf("%s is managed by a custom path, nothing to download", name))
	default:
		log.WithField("item", it.id).Warnf("manual download failed: %v", res.Err)
		u.status(fmt.Sprintf("Failed to download %s", name))
	}

	report := &Report{}
	report.add(res)
	u.batchEvent(model.BatchDone, report)
	return res
}

// process walks one item through Resolving, then UpToDate or Downloading,
// then Installed or Failed. force skips the up-to-date comparison.
func (u *Updater) process(ctx context.Context, it item, force bool) ItemResult {
	logger := log.WithField("item", it.id)
	res := ItemResult{ItemID: it.id, From: u.lc.Ledger.Get().Version(it.id)}

	if it.runtime && u.lc.IsCustomRuntime() {
		logger.Debug("custom runtime in use, skipping")
		return u.finish(res, model.TaskStatusUpToDate, nil)
	}

	u.itemEvent(it.id, model.TaskStatusResolving, "", nil)
	version, err := u.resolve(ctx, it)
	if err != nil {
		logger.Errorf("version check failed: %v", err)
		return u.finish(res, model.TaskStatusFailed, err)
	}
	res.To = version

	if !force && u.upToDate(it, version) {
		logger.Debugf("up to date at %s", version)
		return u.finish(res, model.TaskStatusUpToDate, nil)
	}

	task := download.NewTask(it.id, it.url, it.fallbackURL, it.destination, version)
	u.itemEvent(it.id, model.TaskStatusDownloading, version, nil)
	logger.Infof("downloading %s -> %s", res.From, version)

	progress := func(percent int, downloaded, total int64) {
		u.sink.Push(events.ProgressEvent{ProgressState: model.ProgressState{
			ItemID:          it.id,
			Percent:         percent,
			BytesDownloaded: downloaded,
			BytesTotal:      total,
		}})
	}
	if err := u.downloader.Download(ctx, task, progress); err != nil {
		logger.Errorf("download failed: %v", err)
		return u.finish(res, model.TaskStatusFailed, err)
	}

	if it.runtime {
		if _, err := u.lc.InstallRuntime(it.destination); err != nil {
			logger.Errorf("runtime install failed: %v", err)
			return u.finish(res, model.TaskStatusFailed, fmt.Errorf("install runtime: %w", err))
		}
	}

	if err := u.lc.Ledger.Update(func(l *ledger.Ledger) {
		l.SetVersion(it.id, version)
	}); err != nil {
		// The in-memory ledger already holds the new version.
		logger.Errorf("failed to persist ledger: %v", err)
	}

	u.sink.Push(events.ProgressEvent{ProgressState: model.ProgressState{
		ItemID:          it.id,
		Percent:         100,
		BytesDownloaded: task.BytesDownloaded,
		BytesTotal:      task.BytesDownloaded,
	}})
	return u.finish(res, model.TaskStatusInstalled, nil)
}

// resolve returns the remote version for it. The runtime uses the bundled
// fallback version when the server advertises none.
func (u *Updater) resolve(ctx context.Context, it item) (string, error) {
	remote, err := u.resolver.Resolve(ctx, it.url)
	if err != nil {
		return "", err
	}
	if it.runtime && remote.Synthesized && u.lc.Bundle.FallbackVersion != "" {
		return u.lc.Bundle.FallbackVersion, nil
	}
	return remote.Version, nil
}

func (u *Updater) upToDate(it item, version string) bool {
	return u.lc.Ledger.Get().Version(it.id) == version && platform.FileExists(it.installed)
}

func (u *Updater) finish(res ItemResult, status model.TaskStatus, err error) ItemResult {
	res.Status = status
	res.Err = err
	u.itemEvent(res.ItemID, status, res.To, err)
	return res
}

func (u *Updater) itemEvent(id string, status model.TaskStatus, version string, err error) {
	u.sink.Push(events.ItemEvent{ItemID: id, Status: status, Version: version, Err: err})
}

func (u *Updater) status(message string) {
	log.Info(message)
	u.sink.Push(events.StatusEvent{Message: message})
}

func (u *Updater) batchEvent(state model.BatchState, report *Report) {
	ev := events.BatchEvent{State: state}
	if report != nil {
		ev.Installed = report.Installed
		ev.Failed = report.Failed
	}
	u.sink.Push(ev)
}
