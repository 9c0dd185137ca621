package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/ytget/ptd-launcher/internal/events"
	"github.com/ytget/ptd-launcher/internal/model"
	"github.com/ytget/ptd-launcher/internal/updater"
)

// progressStep is the percent granularity of terminal progress lines
const progressStep = 25

// printer is an events.Sink that writes a terse log of a batch to a
// terminal
type printer struct {
	mu   sync.Mutex
	out  io.Writer
	last map[string]int
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out, last: make(map[string]int)}
}

// Push implements events.Sink
func (p *printer) Push(e events.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev := e.(type) {
	case events.StatusEvent:
		fmt.Fprintln(p.out, ev.Message)
	case events.ProgressEvent:
		if ev.BytesTotal <= 0 || ev.Done() {
			return true
		}
		step := ev.Percent / progressStep
		if step > p.last[ev.ItemID] {
			p.last[ev.ItemID] = step
			fmt.Fprintf(p.out, "  %s %d%% (%s / %s)\n", ev.ItemID, ev.Percent,
				model.FormatBytes(ev.BytesDownloaded), model.FormatBytes(ev.BytesTotal))
		}
	case events.ItemEvent:
		if ev.Status == model.TaskStatusFailed && ev.Err != nil {
			fmt.Fprintf(p.out, "  %s failed: %v\n", ev.ItemID, ev.Err)
		}
		if ev.Status.IsFinished() {
			delete(p.last, ev.ItemID)
		}
	}
	return true
}

// printReport writes one line per item
func printReport(out io.Writer, report *updater.Report) {
	for _, res := range report.Items {
		switch {
		case res.Stale:
			fmt.Fprintf(out, "%-12s %-10s %s -> %s\n", res.ItemID, "stale", versionOrNone(res.From), res.To)
		case res.Status == model.TaskStatusInstalled:
			fmt.Fprintf(out, "%-12s %-10s %s -> %s\n", res.ItemID, res.Status, versionOrNone(res.From), res.To)
		case res.Status == model.TaskStatusFailed:
			fmt.Fprintf(out, "%-12s %-10s %v\n", res.ItemID, res.Status, res.Err)
		default:
			fmt.Fprintf(out, "%-12s %-10s %s\n", res.ItemID, res.Status, versionOrNone(res.From))
		}
	}
}

func versionOrNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
