package updater

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ytget/ptd-launcher/internal/model"
)

// ItemResult is the terminal outcome of one item
type ItemResult struct {
	ItemID string
	Status model.TaskStatus
	From   string
	To     string

	// Stale is set by Check for items that would be downloaded
	Stale bool
	Err   error
}

// Report summarises a batch
type Report struct {
	Items     []ItemResult
	Installed int
	Failed    int
	errs      *multierror.Error
}

func (r *Report) add(res ItemResult) {
	r.Items = append(r.Items, res)
	switch res.Status {
	case model.TaskStatusInstalled:
		r.Installed++
	case model.TaskStatusFailed:
		r.Failed++
	}
	if res.Err != nil {
		r.errs = multierror.Append(r.errs, fmt.Errorf("%s: %w", res.ItemID, res.Err))
	}
}

// AnyInstalled reports whether at least one item changed to Installed
func (r *Report) AnyInstalled() bool {
	return r.Installed > 0
}

// Err returns every per-item failure combined, or nil
func (r *Report) Err() error {
	return r.errs.ErrorOrNil()
}

// Result returns the outcome for item
func (r *Report) Result(item string) (ItemResult, bool) {
	for _, res := range r.Items {
		if res.ItemID == item {
			return res, true
		}
	}
	return ItemResult{}, false
}

// StaleItems returns the ids Check found outdated or missing
func (r *Report) StaleItems() []string {
	var out []string
	for _, res := range r.Items {
		if res.Stale {
			out = append(out, res.ItemID)
		}
	}
	return out
}

// Summary returns the status line shown when a batch finishes
func (r *Report) Summary() string {
	switch {
	case r.Installed > 0 && r.Failed > 0:
		return fmt.Sprintf("Updated %d items, %d failed", r.Installed, r.Failed)
	case r.Installed > 0:
		return fmt.Sprintf("Updated %d items", r.Installed)
	case r.Failed > 0:
		return fmt.Sprintf("Update check finished with %d errors", r.Failed)
	default:
		return "All games are up to date"
	}
}
