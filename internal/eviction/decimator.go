package eviction

import (
	"context"
	"fmt"

	"github.com/lucasew/decimate/internal/errutil"
	"github.com/lucasew/decimate/internal/logging"
)

// DefaultEvictPercent is the share of discovered files removed by one pass.
const DefaultEvictPercent = 10

// Decimator removes the coldest share of the files in a Store.
type Decimator struct {
	store    Store
	strategy Strategy
	percent  int

	// NewProgress, when set, is called with the victim count before the
	// deletion loop starts.
	NewProgress func(total int) Progress
}

// NewDecimator creates a Decimator evicting percent% of the files per pass.
func NewDecimator(store Store, strategy Strategy, percent int) (*Decimator, error) {
	if store == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	if strategy == nil {
		return nil, fmt.Errorf("strategy not initialized")
	}
	if percent < 1 || percent > 100 {
		return nil, fmt.Errorf("evict percent must be between 1 and 100, got %d", percent)
	}
	return &Decimator{store: store, strategy: strategy, percent: percent}, nil
}

// VictimCount returns floor(total * percent / 100).
func VictimCount(total, percent int) int {
	return total * percent / 100
}

// Plan scans the store once and selects the victims. It never mutates the store.
func (d *Decimator) Plan(ctx context.Context) (*Plan, error) {
	var records []FileRecord
	err := d.store.Walk(ctx, func(r FileRecord) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan cache: %w", err)
	}

	d.strategy.Rank(records)

	plan := &Plan{
		Ranked:      records,
		VictimCount: VictimCount(len(records), d.percent),
	}

	logging.FromContext(ctx).Info("Files found", "count", len(records), "victims", plan.VictimCount)
	return plan, nil
}

// Execute walks the victims of plan in order. Nothing is removed unless commit
// is set; the log output is the same either way.
func (d *Decimator) Execute(ctx context.Context, plan *Plan, commit bool) Result {
	log := logging.FromContext(ctx)
	res := Result{
		Committed: commit,
		Scanned:   len(plan.Ranked),
		Selected:  plan.VictimCount,
	}

	var progress Progress
	if d.NewProgress != nil && plan.VictimCount > 0 {
		progress = d.NewProgress(plan.VictimCount)
	}

	for _, v := range plan.Victims() {
		log.Info("Removing file", "path", v.Path, "last_accessed", v.AccessTime)

		if commit {
			if err := d.store.Delete(ctx, v.Path); err != nil {
				res.Failed++
				errutil.LogMsg(ctx, &errutil.DeletionError{Path: v.Path, Err: err}, "Failed to remove file", "path", v.Path)
			} else {
				res.Removed++
			}
		}

		if progress != nil {
			errutil.LogMsg(ctx, progress.Add(1), "Failed to update progress")
		}
	}

	return res
}

// Decimate plans and executes a pass.
func (d *Decimator) Decimate(ctx context.Context, commit bool) (Result, error) {
	plan, err := d.Plan(ctx)
	if err != nil {
		return Result{}, err
	}
	return d.Execute(ctx, plan, commit), nil
}
