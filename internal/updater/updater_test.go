package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ptd-launcher/internal/config"
	"github.com/ytget/ptd-launcher/internal/download"
	"github.com/ytget/ptd-launcher/internal/events"
	"github.com/ytget/ptd-launcher/internal/launcher"
	"github.com/ytget/ptd-launcher/internal/ledger"
	"github.com/ytget/ptd-launcher/internal/model"
	"github.com/ytget/ptd-launcher/internal/platform"
	"github.com/ytget/ptd-launcher/internal/resolver"
)

const (
	runtimePath     = "flash"
	fallbackVersion = "32.0.0.465"
)

// fakeRemote serves versioned files: HEAD advertises NAME-vVERSION.swf
// through Content-Disposition, GET returns a small body.
type fakeRemote struct {
	mu       sync.Mutex
	versions map[string]string
	failHead map[string]bool
	truncate map[string]bool
	heads    map[string]int
	gets     map[string]int
	block    chan struct{}
	server   *httptest.Server
}

func newFakeRemote(t *testing.T) *fakeRemote {
	f := &fakeRemote{
		versions: make(map[string]string),
		failHead: make(map[string]bool),
		truncate: make(map[string]bool),
		heads:    make(map[string]int),
		gets:     make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRemote) handle(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")

	f.mu.Lock()
	block := f.block
	if r.Method == http.MethodHead {
		f.heads[name]++
	} else {
		f.gets[name]++
	}
	fail := f.failHead[name] && r.Method == http.MethodHead
	truncate := f.truncate[name]
	version := f.versions[name]
	f.mu.Unlock()

	if block != nil && r.Method == http.MethodHead {
		<-block
	}
	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if version != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-v%s.swf"`, name, version))
	}
	if r.Method == http.MethodGet {
		if truncate {
			// Promise more than is sent so the client sees an unexpected EOF.
			w.Header().Set("Content-Length", "100")
		}
		fmt.Fprintf(w, "%s@%s", name, version)
	}
}

func (f *fakeRemote) setTruncated(name string, truncated bool) {
	f.mu.Lock()
	f.truncate[name] = truncated
	f.mu.Unlock()
}

func (f *fakeRemote) set(name, version string) {
	f.mu.Lock()
	f.versions[name] = version
	f.mu.Unlock()
}

func (f *fakeRemote) getCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[name]
}

func (f *fakeRemote) headCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heads[name]
}

func (f *fakeRemote) totalGets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.gets {
		n += c
	}
	return n
}

func writeConfig(t *testing.T, baseURL string, games []string) string {
	t.Helper()

	src := config.RuntimeSource{PrimaryURL: baseURL + "/" + runtimePath, Filename: "flashplayer_sa.exe"}
	bundle := config.Bundle{
		FlashPlayer: map[string]config.RuntimeSource{
			config.RuntimeWindows: src,
			config.RuntimeMacOS:   src,
			config.RuntimeLinux:   src,
		},
		FallbackVersion: fallbackVersion,
		GameURLs:        make(map[string]string),
	}
	for _, game := range games {
		bundle.GameURLs[game] = baseURL + "/" + game
	}

	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func newTestUpdater(t *testing.T, remote *fakeRemote, games []string, sink events.Sink) (*Updater, *launcher.Context) {
	t.Helper()

	lc, err := launcher.NewContext(launcher.Options{
		GOOS:       platform.OSWindows,
		Home:       t.TempDir(),
		ConfigPath: writeConfig(t, remote.server.URL, games),
	})
	require.NoError(t, err)

	res := resolver.New(resolver.WithRetries(0), resolver.WithBaseDelay(time.Millisecond))
	dl := download.NewService(download.WithRetries(0), download.WithBaseDelay(time.Millisecond))
	return New(lc, res, dl, sink), lc
}

func setVersion(t *testing.T, lc *launcher.Context, item, version string) {
	t.Helper()
	require.NoError(t, lc.Ledger.Update(func(l *ledger.Ledger) { l.SetVersion(item, version) }))
}

func TestRun_StaleItemIsUpdated(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.2")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1}, nil)
	setVersion(t, lc, model.GamePTD1, "1.0")

	report, err := u.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.AnyInstalled())
	assert.Equal(t, "1.2", lc.Ledger.Get().Games[model.GamePTD1])
	assert.FileExists(t, lc.Paths.GamePath(model.GamePTD1))

	persisted, err := ledger.NewStore(lc.Paths.Root).Load()
	require.NoError(t, err)
	assert.Equal(t, "1.2", persisted.Games[model.GamePTD1])

	res, ok := report.Result(model.GamePTD1)
	require.True(t, ok)
	assert.Equal(t, model.TaskStatusInstalled, res.Status)
	assert.Equal(t, "1.0", res.From)
	assert.Equal(t, "1.2", res.To)
}

func TestRun_ExactlyOneDownloadPerStaleItem(t *testing.T) {
	remote := newFakeRemote(t)
	games := []string{model.GamePTD1, model.GamePTD2, model.GamePTD3}
	for _, g := range games {
		remote.set(g, "2.0")
	}
	u, _ := newTestUpdater(t, remote, games, nil)

	report, err := u.Run(context.Background())
	require.NoError(t, err)

	for _, g := range games {
		assert.Equal(t, 1, remote.getCount(g), g)
	}
	assert.Equal(t, 1, remote.getCount(runtimePath))
	assert.Equal(t, len(games)+1, report.Installed)
}

func TestRun_UpToDateItemsAreNotDownloaded(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD2, "3.1")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD2}, nil)

	setVersion(t, lc, model.GamePTD2, "3.1")
	setVersion(t, lc, model.FlashPlayerID, fallbackVersion)
	require.NoError(t, os.WriteFile(lc.Paths.GamePath(model.GamePTD2), []byte("swf"), 0644))
	require.NoError(t, os.WriteFile(lc.DefaultRuntimePath(), []byte("exe"), 0755))

	report, err := u.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, remote.totalGets())
	assert.False(t, report.AnyInstalled())
	assert.Equal(t, "All games are up to date", report.Summary())
}

func TestRun_MissingFileIsDownloadedEvenIfVersionMatches(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD3, "1.0")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD3}, nil)
	setVersion(t, lc, model.GamePTD3, "1.0")

	_, err := u.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, remote.getCount(model.GamePTD3))
	assert.FileExists(t, lc.Paths.GamePath(model.GamePTD3))
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.2")
	remote.set(model.GamePTD2, "2.0")
	u, _ := newTestUpdater(t, remote, []string{model.GamePTD1, model.GamePTD2}, nil)

	first, err := u.Run(context.Background())
	require.NoError(t, err)
	require.True(t, first.AnyInstalled())
	gets := remote.totalGets()

	second, err := u.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, second.AnyInstalled())
	assert.Equal(t, gets, remote.totalGets(), "second run must not download anything")
}

func TestRun_NetworkErrorDoesNotStopBatch(t *testing.T) {
	remote := newFakeRemote(t)
	remote.failHead[model.GamePTD1] = true
	remote.set(model.GamePTD2, "2.0")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1, model.GamePTD2}, nil)

	report, err := u.Run(context.Background())
	require.NoError(t, err)

	a, _ := report.Result(model.GamePTD1)
	assert.Equal(t, model.TaskStatusFailed, a.Status)
	var netErr *model.NetworkError
	assert.True(t, errors.As(a.Err, &netErr), "expected NetworkError, got %v", a.Err)

	b, _ := report.Result(model.GamePTD2)
	assert.Equal(t, model.TaskStatusInstalled, b.Status)
	assert.Equal(t, 1, remote.getCount(model.GamePTD2))
	assert.Equal(t, "2.0", lc.Ledger.Get().Games[model.GamePTD2])
	assert.Equal(t, "", lc.Ledger.Get().Games[model.GamePTD1])

	assert.Error(t, report.Err())
	assert.Equal(t, 1, report.Failed)
}

func TestRun_BusyRejection(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.0")
	remote.block = make(chan struct{})
	u, _ := newTestUpdater(t, remote, []string{model.GamePTD1}, nil)

	require.NoError(t, u.Start(context.Background()))
	assert.Equal(t, StateBusy, u.State())

	_, err := u.Run(context.Background())
	assert.True(t, errors.Is(err, model.ErrBusy))
	assert.True(t, errors.Is(u.Start(context.Background()), model.ErrBusy))
	_, err = u.DownloadItem(context.Background(), model.GamePTD1)
	assert.True(t, errors.Is(err, model.ErrBusy))
	assert.True(t, errors.Is(u.StartDownload(context.Background(), model.GamePTD1), model.ErrBusy))

	close(remote.block)
	u.Wait()

	assert.Equal(t, StateIdle, u.State())
	assert.Equal(t, 1, remote.headCount(model.GamePTD1), "no second worker may have started")
	assert.Equal(t, 1, remote.getCount(model.GamePTD1))
}

func TestRun_CustomRuntimeIsNeverResolved(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.0")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1}, nil)
	setVersion(t, lc, model.FlashPlayerID, model.CustomVersion)

	report, err := u.Run(context.Background())
	require.NoError(t, err)

	res, _ := report.Result(model.FlashPlayerID)
	assert.Equal(t, model.TaskStatusUpToDate, res.Status)
	assert.Equal(t, 0, remote.headCount(runtimePath))
	assert.Equal(t, 0, remote.getCount(runtimePath))
	assert.Equal(t, model.CustomVersion, lc.Ledger.Get().FlashPlayer)
}

func TestRun_RuntimeUsesFallbackVersion(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.0")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1}, nil)

	_, err := u.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallbackVersion, lc.Ledger.Get().FlashPlayer)
	assert.FileExists(t, lc.DefaultRuntimePath())

	report, err := u.Run(context.Background())
	require.NoError(t, err)
	res, _ := report.Result(model.FlashPlayerID)
	assert.Equal(t, model.TaskStatusUpToDate, res.Status)
	assert.Equal(t, 1, remote.getCount(runtimePath))
}

func TestRun_PersistenceFailureStillInstalls(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.2")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1}, nil)

	// A non-empty directory in place of the ledger file makes every save fail.
	require.NoError(t, os.Remove(lc.Ledger.Path()))
	require.NoError(t, os.MkdirAll(filepath.Join(lc.Ledger.Path(), "occupied"), 0755))

	report, err := u.Run(context.Background())
	require.NoError(t, err)

	res, _ := report.Result(model.GamePTD1)
	assert.Equal(t, model.TaskStatusInstalled, res.Status)
	assert.Equal(t, "1.2", lc.Ledger.Get().Games[model.GamePTD1])
}

func TestRun_EventsReachQueue(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.2")
	queue := events.NewQueue()
	u, _ := newTestUpdater(t, remote, []string{model.GamePTD1}, queue)

	_, err := u.Run(context.Background())
	require.NoError(t, err)

	drained := queue.Drain()
	require.NotEmpty(t, drained)

	first, ok := drained[0].(events.BatchEvent)
	require.True(t, ok, "first event should be a batch event, got %v", drained[0])
	assert.Equal(t, model.BatchChecking, first.State)

	last, ok := drained[len(drained)-1].(events.BatchEvent)
	require.True(t, ok, "last event should be a batch event, got %v", drained[len(drained)-1])
	assert.Equal(t, model.BatchDone, last.State)
	assert.Equal(t, 2, last.Installed)

	board := events.NewBoard()
	sawProgress := false
	for _, ev := range drained {
		if _, ok := ev.(events.ProgressEvent); ok {
			sawProgress = true
		}
		board.Apply(ev)
	}
	assert.True(t, sawProgress)
	assert.Empty(t, board.Active(), "finished items must leave no progress behind")
	st, _ := board.Status(model.GamePTD1)
	assert.Equal(t, model.TaskStatusInstalled, st)
	assert.Equal(t, "Updated 2 items", board.Message())
}

func TestRun_ClosedQueueDoesNotAbortTransfers(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.2")
	queue := events.NewQueue()
	queue.Close()
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1}, queue)

	report, err := u.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.AnyInstalled())
	assert.FileExists(t, lc.Paths.GamePath(model.GamePTD1))
	assert.Nil(t, queue.Drain())
}

func TestDownloadItem_ForcesDownload(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD2, "2.0")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD2}, nil)
	setVersion(t, lc, model.GamePTD2, "2.0")
	require.NoError(t, os.WriteFile(lc.Paths.GamePath(model.GamePTD2), []byte("old"), 0644))

	res, err := u.DownloadItem(context.Background(), model.GamePTD2)
	require.NoError(t, err)

	assert.Equal(t, model.TaskStatusInstalled, res.Status)
	assert.Equal(t, 1, remote.getCount(model.GamePTD2))
	data, err := os.ReadFile(lc.Paths.GamePath(model.GamePTD2))
	require.NoError(t, err)
	assert.Equal(t, "PTD2@2.0", string(data))
}

func TestRun_FailedTransferIsRetriedOnNextRun(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.2")
	remote.setTruncated(model.GamePTD1, true)
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1}, nil)
	setVersion(t, lc, model.GamePTD1, "1.2")
	dest := lc.Paths.GamePath(model.GamePTD1)

	first, err := u.Run(context.Background())
	require.NoError(t, err)
	res, _ := first.Result(model.GamePTD1)
	require.Equal(t, model.TaskStatusFailed, res.Status)
	assert.NoFileExists(t, dest, "a cut-off body must not land at the destination")
	assert.NoFileExists(t, download.PartPath(dest))

	remote.setTruncated(model.GamePTD1, false)
	second, err := u.Run(context.Background())
	require.NoError(t, err)

	res, _ = second.Result(model.GamePTD1)
	assert.Equal(t, model.TaskStatusInstalled, res.Status)
	assert.Equal(t, 2, remote.getCount(model.GamePTD1))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "PTD1@1.2", string(data))
}

func TestDownloadItem_FailedRedownloadKeepsInstalledFile(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD2, "2.0")
	remote.setTruncated(model.GamePTD2, true)
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD2}, nil)
	setVersion(t, lc, model.GamePTD2, "2.0")
	dest := lc.Paths.GamePath(model.GamePTD2)
	require.NoError(t, os.WriteFile(dest, []byte("PTD2@2.0"), 0644))

	res, err := u.DownloadItem(context.Background(), model.GamePTD2)
	require.Error(t, err)
	assert.Equal(t, model.TaskStatusFailed, res.Status)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "PTD2@2.0", string(data))
	assert.NoFileExists(t, download.PartPath(dest))
}

func TestDownloadItem_CustomRuntimeIsSkipped(t *testing.T) {
	remote := newFakeRemote(t)
	queue := events.NewQueue()
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1}, queue)
	setVersion(t, lc, model.FlashPlayerID, model.CustomVersion)

	res, err := u.DownloadItem(context.Background(), model.FlashPlayerID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusUpToDate, res.Status)
	assert.Equal(t, 0, remote.getCount(runtimePath))

	board := events.NewBoard()
	for _, ev := range queue.Drain() {
		board.Apply(ev)
	}
	assert.NotContains(t, board.Message(), "Failed")
	assert.Contains(t, board.Message(), "custom path")
}

func TestDownloadItem_UnknownItem(t *testing.T) {
	remote := newFakeRemote(t)
	u, _ := newTestUpdater(t, remote, []string{model.GamePTD1}, nil)

	_, err := u.DownloadItem(context.Background(), "PTD9")
	assert.Error(t, err)
	_, err = u.DownloadItem(context.Background(), model.GamePTD3)
	assert.Error(t, err, "game without a configured URL cannot be downloaded")
	assert.Equal(t, StateIdle, u.State())
}

func TestStartDownload(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.0")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1}, nil)

	require.NoError(t, u.StartDownload(context.Background(), model.GamePTD1))
	u.Wait()

	assert.Equal(t, "1.0", lc.Ledger.Get().Games[model.GamePTD1])
	assert.Equal(t, StateIdle, u.State())
}

func TestStartDownload_ReportsBusyPeriod(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.0")
	queue := events.NewQueue()
	u, _ := newTestUpdater(t, remote, []string{model.GamePTD1}, queue)

	require.NoError(t, u.StartDownload(context.Background(), model.GamePTD1))
	u.Wait()

	drained := queue.Drain()
	require.NotEmpty(t, drained)

	first, ok := drained[0].(events.BatchEvent)
	require.True(t, ok, "first event should be a batch event, got %v", drained[0])
	assert.Equal(t, model.BatchChecking, first.State)

	last, ok := drained[len(drained)-1].(events.BatchEvent)
	require.True(t, ok, "last event should be a batch event, got %v", drained[len(drained)-1])
	assert.Equal(t, model.BatchDone, last.State)
	assert.Equal(t, 1, last.Installed)
	assert.Equal(t, 0, last.Failed)
}

func TestDownloadMissing(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.0")
	remote.set(model.GamePTD2, "2.0")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1, model.GamePTD2}, nil)
	require.NoError(t, os.WriteFile(lc.Paths.GamePath(model.GamePTD1), []byte("swf"), 0644))

	report, err := u.DownloadMissing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, remote.getCount(model.GamePTD1))
	assert.Equal(t, 1, remote.getCount(model.GamePTD2))
	assert.Equal(t, 0, remote.getCount(runtimePath), "runtime is not part of missing games")
	assert.Equal(t, 1, report.Installed)
}

func TestCheck_ReportsStaleWithoutDownloading(t *testing.T) {
	remote := newFakeRemote(t)
	remote.set(model.GamePTD1, "1.2")
	remote.set(model.GamePTD2, "2.0")
	u, lc := newTestUpdater(t, remote, []string{model.GamePTD1, model.GamePTD2}, nil)
	setVersion(t, lc, model.GamePTD2, "2.0")
	require.NoError(t, os.WriteFile(lc.Paths.GamePath(model.GamePTD2), []byte("swf"), 0644))

	report, err := u.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, remote.totalGets())
	assert.ElementsMatch(t, []string{model.GamePTD1, model.FlashPlayerID}, report.StaleItems())
}
