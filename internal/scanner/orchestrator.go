// Package scanner runs the configured category scans and owns the
// canonical item collection between scans. The shell reads snapshots and
// flips selection flags through the exposed mutators; it never touches the
// collection directly.
package scanner

import (
	"context"
	"sync"

	"github.com/pistolinkr/Mactaphine/internal/logger"
	"github.com/pistolinkr/Mactaphine/internal/target"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

// Progress is one scan progress update. Fraction is monotonically
// non-decreasing within a run.
type Progress struct {
	Category  types.Category
	Completed int
	Total     int
	Fraction  float64
}

// Callbacks holds the notification hooks for one scan run. All callbacks
// are invoked from the scan goroutine; nil callbacks are skipped.
type Callbacks struct {
	OnProgress     func(Progress)
	OnCategoryDone func(types.ScanResult)
	OnDone         func(cancelled bool)
}

// CategoryStat aggregates one category's share of the collection.
type CategoryStat struct {
	Count int
	Size  int64
}

// Orchestrator runs at most one scan at a time. StartScan while a scan is
// in flight cancels the previous run and replaces it (cancel-and-replace);
// the superseded run's remaining results are discarded.
type Orchestrator struct {
	registry *target.Registry

	mu        sync.Mutex
	items     []types.CleanupItem
	byID      map[string]int
	scanning  bool
	progress  float64
	totalSize int64
	cancel    context.CancelFunc
	gen       uint64
}

func New(registry *target.Registry) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		byID:     make(map[string]int),
	}
}

// SetRegistry swaps the target registry, e.g. after a settings change.
// The next scan picks it up; an in-flight scan keeps its own target list.
func (o *Orchestrator) SetRegistry(r *target.Registry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.registry = r
}

// StartScan clears the collection and scans the given categories one at a
// time. Any in-flight scan is cancelled first.
func (o *Orchestrator) StartScan(categories []types.Category, cb Callbacks) {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	o.gen++
	gen := o.gen

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.items = nil
	o.byID = make(map[string]int)
	o.totalSize = 0
	o.progress = 0
	o.scanning = true

	targets := make([]target.Target, 0, len(categories))
	for _, cat := range categories {
		if t, ok := o.registry.Get(cat); ok {
			targets = append(targets, t)
		}
	}
	o.mu.Unlock()

	logger.Info("scan started", "categories", len(targets))
	go o.run(ctx, gen, targets, cb)
}

func (o *Orchestrator) run(ctx context.Context, gen uint64, targets []target.Target, cb Callbacks) {
	total := len(targets)
	cancelled := false

	for i, t := range targets {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		var result *types.ScanResult
		if t.IsAvailable() {
			result, _ = t.Scan(ctx)
		}
		if result == nil {
			result = &types.ScanResult{Category: t.Definition().Category}
		}

		o.mu.Lock()
		// A cancelled or superseded run must not publish, even when its
		// category scan raced to completion.
		if o.gen != gen || ctx.Err() != nil {
			o.mu.Unlock()
			cancelled = true
			break
		}
		for _, item := range result.Items {
			o.byID[item.ID] = len(o.items)
			o.items = append(o.items, item)
			o.totalSize += item.Size
		}
		o.progress = float64(i+1) / float64(total)
		progress := Progress{
			Category:  t.Definition().Category,
			Completed: i + 1,
			Total:     total,
			Fraction:  o.progress,
		}
		o.mu.Unlock()

		if cb.OnCategoryDone != nil {
			cb.OnCategoryDone(*result)
		}
		if cb.OnProgress != nil {
			cb.OnProgress(progress)
		}
	}

	o.mu.Lock()
	if o.gen != gen {
		// Superseded by a newer scan; the replacement owns the state now.
		o.mu.Unlock()
		return
	}
	o.scanning = false
	if !cancelled {
		o.progress = 1.0
	}
	count := len(o.items)
	o.mu.Unlock()

	logger.Info("scan finished", "cancelled", cancelled, "items", count)
	if cb.OnDone != nil {
		cb.OnDone(cancelled)
	}
}

// CancelScan stops the in-flight scan. The collection keeps whatever was
// gathered so far.
func (o *Orchestrator) CancelScan() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
	o.scanning = false
}

func (o *Orchestrator) IsScanning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scanning
}

func (o *Orchestrator) Progress() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

func (o *Orchestrator) TotalSize() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totalSize
}

// Items returns a snapshot copy of the collection.
func (o *Orchestrator) Items() []types.CleanupItem {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.CleanupItem, len(o.items))
	copy(out, o.items)
	return out
}

// SelectedItems returns a snapshot of the currently selected items.
func (o *Orchestrator) SelectedItems() []types.CleanupItem {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []types.CleanupItem
	for _, item := range o.items {
		if item.Selected {
			out = append(out, item)
		}
	}
	return out
}

func (o *Orchestrator) SelectedSize() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	var size int64
	for _, item := range o.items {
		if item.Selected {
			size += item.Size
		}
	}
	return size
}

// CategoryStats returns per-category count and size totals.
func (o *Orchestrator) CategoryStats() map[types.Category]CategoryStat {
	o.mu.Lock()
	defer o.mu.Unlock()
	stats := make(map[types.Category]CategoryStat)
	for _, item := range o.items {
		s := stats[item.Category]
		s.Count++
		s.Size += item.Size
		stats[item.Category] = s
	}
	return stats
}

// ToggleSelection flips the selection flag of the item with the given ID.
func (o *Orchestrator) ToggleSelection(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	idx, ok := o.byID[id]
	if !ok {
		return false
	}
	o.items[idx].Selected = !o.items[idx].Selected
	return true
}

// SelectAllInCategory sets the selection flag of every item in a category.
func (o *Orchestrator) SelectAllInCategory(cat types.Category, selected bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.items {
		if o.items[i].Category == cat {
			o.items[i].Selected = selected
		}
	}
}

// SelectAllSafe selects every safe-risk item.
func (o *Orchestrator) SelectAllSafe() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.items {
		if o.items[i].Risk == types.RiskSafe {
			o.items[i].Selected = true
		}
	}
}

// Prune removes the given item IDs from the collection, typically after a
// successful cleanup pass over them.
func (o *Orchestrator) Prune(ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.items[:0]
	o.totalSize = 0
	o.byID = make(map[string]int)
	for _, item := range o.items {
		if _, gone := drop[item.ID]; gone {
			continue
		}
		o.byID[item.ID] = len(kept)
		kept = append(kept, item)
		o.totalSize += item.Size
	}
	o.items = kept
}
