// Package engine ties the scan orchestrator, cleanup executor and history
// log into the single surface the shell talks to.
//
// Concurrency policy at this boundary: StartScan cancels and replaces any
// scan already in flight; Cleanup rejects while a cleanup is running and
// returns ErrCleanupInProgress. At most one of each runs at a time.
package engine

import (
	"sync"
	"time"

	"github.com/pistolinkr/Mactaphine/internal/cleaner"
	"github.com/pistolinkr/Mactaphine/internal/fsops"
	"github.com/pistolinkr/Mactaphine/internal/history"
	"github.com/pistolinkr/Mactaphine/internal/logger"
	"github.com/pistolinkr/Mactaphine/internal/scanner"
	"github.com/pistolinkr/Mactaphine/internal/settings"
	"github.com/pistolinkr/Mactaphine/internal/target"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

// Callbacks bundles the scan and cleanup notification hooks a shell can
// subscribe with. All hooks fire on background goroutines.
type Callbacks struct {
	Scan    scanner.Callbacks
	Cleanup cleaner.Callbacks
}

type Engine struct {
	fs   fsops.FS
	orch *scanner.Orchestrator
	exec *cleaner.Executor
	hist *history.Log

	mu         sync.Mutex
	settings   types.ScanSettings
	lastReport *types.CleanupRunReport
}

// New builds an engine over the given filesystem, settings document and
// history log.
func New(fsys fsops.FS, st types.ScanSettings, hist *history.Log) *Engine {
	return &Engine{
		fs:       fsys,
		orch:     scanner.New(target.DefaultRegistry(fsys, st)),
		exec:     cleaner.NewExecutor(fsys),
		hist:     hist,
		settings: st,
	}
}

// StartScan scans the active categories. An in-flight scan is cancelled
// and replaced.
func (e *Engine) StartScan(cb scanner.Callbacks) {
	e.mu.Lock()
	cats := append([]types.Category(nil), e.settings.ActiveCategories...)
	e.mu.Unlock()
	e.orch.StartScan(cats, cb)
}

func (e *Engine) CancelScan() { e.orch.CancelScan() }

func (e *Engine) IsScanning() bool      { return e.orch.IsScanning() }
func (e *Engine) ScanProgress() float64 { return e.orch.Progress() }
func (e *Engine) TotalSize() int64      { return e.orch.TotalSize() }

func (e *Engine) Items() []types.CleanupItem { return e.orch.Items() }

func (e *Engine) Filtered(query string, safeOnly bool, order types.SortOrder) []types.CleanupItem {
	return e.orch.Filtered(query, safeOnly, order)
}

func (e *Engine) CategoryStats() map[types.Category]scanner.CategoryStat {
	return e.orch.CategoryStats()
}

func (e *Engine) ToggleSelection(id string) bool { return e.orch.ToggleSelection(id) }

func (e *Engine) SelectAllInCategory(cat types.Category, selected bool) {
	e.orch.SelectAllInCategory(cat, selected)
}

func (e *Engine) SelectAllSafe() { e.orch.SelectAllSafe() }

func (e *Engine) SelectedItems() []types.CleanupItem { return e.orch.SelectedItems() }
func (e *Engine) SelectedSize() int64                { return e.orch.SelectedSize() }

// Cleanup deletes the currently selected items on a background goroutine,
// operating on an immutable snapshot of the selection taken now; toggling
// selections during the run does not affect it. Returns
// cleaner.ErrCleanupInProgress while a run is active.
func (e *Engine) Cleanup(createBackup bool, cb cleaner.Callbacks) error {
	if e.exec.IsRunning() {
		return cleaner.ErrCleanupInProgress
	}
	snapshot := e.orch.SelectedItems()

	// Track per-item outcomes so successfully cleaned entries can be
	// pruned from the live collection afterwards; failed ones stay visible.
	var (
		cleanedMu sync.Mutex
		cleaned   []string
	)
	inner := cb.OnItemDone
	cb.OnItemDone = func(item types.CleanupItem, err error) {
		if err == nil {
			cleanedMu.Lock()
			cleaned = append(cleaned, item.ID)
			cleanedMu.Unlock()
		}
		if inner != nil {
			inner(item, err)
		}
	}

	// The engine delivers OnDone itself, after its own bookkeeping, so the
	// shell sees a consistent LastReport and pruned collection.
	innerDone := cb.OnDone
	cb.OnDone = nil

	go func() {
		report, err := e.exec.Run(snapshot, createBackup, cb)
		if err != nil {
			logger.Warn("cleanup rejected", "error", err)
			return
		}

		e.mu.Lock()
		e.lastReport = report
		e.mu.Unlock()

		cleanedMu.Lock()
		ids := append([]string(nil), cleaned...)
		cleanedMu.Unlock()
		e.orch.Prune(ids)

		e.hist.Append(report)

		if innerDone != nil {
			innerDone(report)
		}
	}()
	return nil
}

func (e *Engine) CancelCleanup() { e.exec.Cancel() }

func (e *Engine) CleanupStatus() cleaner.Status { return e.exec.Status() }

func (e *Engine) LastReport() *types.CleanupRunReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastReport
}

// EstimatedDuration predicts the duration of cleaning the current selection.
func (e *Engine) EstimatedDuration() time.Duration {
	return cleaner.EstimatedDuration(e.orch.SelectedItems())
}

func (e *Engine) History() *history.Log { return e.hist }

func (e *Engine) Settings() types.ScanSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// UpdateSettings applies fn to the settings document, persists it, and
// rebuilds the scan registry so the next scan uses the new policy.
func (e *Engine) UpdateSettings(fn func(*types.ScanSettings)) {
	e.mu.Lock()
	fn(&e.settings)
	st := e.settings
	e.mu.Unlock()

	e.orch.SetRegistry(target.DefaultRegistry(e.fs, st))
	if err := settings.Save(st); err != nil {
		logger.Warn("settings save failed", "error", err)
	}
}
