// Package cleaner deletes a user-selected, risk-sorted subset of scanned
// items. Individual failures are recorded and never abort the batch. At
// most one cleanup runs at a time; starting another while busy is rejected.
package cleaner

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pistolinkr/Mactaphine/internal/fsops"
	"github.com/pistolinkr/Mactaphine/internal/logger"
	"github.com/pistolinkr/Mactaphine/internal/policy"
	"github.com/pistolinkr/Mactaphine/internal/types"
	"github.com/pistolinkr/Mactaphine/internal/utils"
)

// defaultPace is the short pause between items for perceived
// responsiveness. It never blocks cancellation.
const defaultPace = 100 * time.Millisecond

// Status is the published cleanup progress, safe to poll from the shell.
type Status struct {
	Running     bool
	CurrentItem string
	Completed   int
	Total       int
	Fraction    float64
}

// Callbacks holds the notification hooks for one cleanup run, invoked from
// the cleanup goroutine. Nil callbacks are skipped.
type Callbacks struct {
	OnProgress func(Status)
	OnItemDone func(item types.CleanupItem, err error)
	OnDone     func(*types.CleanupRunReport)
}

type Executor struct {
	fs fsops.FS

	// BackupDir is where pre-deletion snapshots are created.
	BackupDir string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	status  Status

	pace time.Duration
	now  func() time.Time
}

func NewExecutor(fsys fsops.FS) *Executor {
	return &Executor{
		fs:        fsys,
		BackupDir: utils.ExpandPath("~/Desktop"),
		pace:      defaultPace,
		now:       time.Now,
	}
}

// Run deletes the selected items among the given snapshot, lowest risk
// first, and returns the run report. It is synchronous; callers wanting
// asynchrony run it in a goroutine and watch the callbacks. Returns
// ErrCleanupInProgress if a run is already active.
func (e *Executor) Run(items []types.CleanupItem, createBackup bool, cb Callbacks) (*types.CleanupRunReport, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrCleanupInProgress
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.running = true
	e.cancel = cancel
	e.mu.Unlock()

	defer func() {
		cancel()
		e.mu.Lock()
		e.running = false
		e.cancel = nil
		e.status.Running = false
		e.mu.Unlock()
	}()

	report := e.run(ctx, items, createBackup, cb)
	if cb.OnDone != nil {
		cb.OnDone(report)
	}
	return report, nil
}

func (e *Executor) run(ctx context.Context, items []types.CleanupItem, createBackup bool, cb Callbacks) *types.CleanupRunReport {
	started := e.now()
	report := &types.CleanupRunReport{
		StartedAt: started,
		Status:    types.RunCompleted,
		Errors:    make([]types.ItemError, 0),
	}

	selected := make([]types.CleanupItem, 0, len(items))
	for _, item := range items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	if len(selected) == 0 {
		return report
	}

	// Safest space first, so a failure midway has already reclaimed it.
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Risk < selected[j].Risk
	})

	if createBackup {
		e.publish(Status{Running: true, CurrentItem: "backup", Total: len(selected)}, cb)
		report.BackupPath, report.BackupCreated = createBackupSnapshot(e.fs, selected, e.BackupDir, started)
	}

	total := len(selected)
	seen := make(map[types.Category]struct{})
	seenRisk := make(map[types.RiskLevel]struct{})

	for i, item := range selected {
		// Cooperative cancellation, checked before each item, never mid-item.
		if ctx.Err() != nil {
			report.Status = types.RunCancelled
			break
		}

		e.publish(Status{
			Running:     true,
			CurrentItem: item.Name,
			Completed:   i,
			Total:       total,
			Fraction:    float64(i) / float64(total),
		}, cb)

		freed, err := e.deleteItem(item)
		report.ItemsProcessed++
		if _, ok := seen[item.Category]; !ok {
			seen[item.Category] = struct{}{}
			report.Categories = append(report.Categories, item.Category)
		}
		if _, ok := seenRisk[item.Risk]; !ok {
			seenRisk[item.Risk] = struct{}{}
			report.Risks = append(report.Risks, item.Risk)
		}

		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, types.ItemError{
				Item: item,
				Err:  err,
				Kind: classifyError(err),
				Time: e.now(),
			})
			logger.Warn("cleanup item failed", "path", item.Path, "error", err)
		} else {
			report.Succeeded++
			report.Reclaimed += freed
		}

		if cb.OnItemDone != nil {
			cb.OnItemDone(item, err)
		}

		if e.pace > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(e.pace):
			}
		}
	}

	report.Elapsed = e.now().Sub(started)
	if report.Status == types.RunCompleted {
		e.publish(Status{Running: true, Completed: total, Total: total, Fraction: 1.0}, cb)
	}

	logger.Info("cleanup finished",
		"status", report.Status,
		"processed", report.ItemsProcessed,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"reclaimed", report.Reclaimed)
	return report
}

func (e *Executor) publish(s Status, cb Callbacks) {
	e.mu.Lock()
	e.status = s
	e.mu.Unlock()
	if cb.OnProgress != nil {
		cb.OnProgress(s)
	}
}

// Cancel stops the run before its next item. Items already processed keep
// their outcome.
func (e *Executor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Executor) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Executor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// EstimatedDuration predicts how long cleaning the given items will take:
// a fixed cost per item plus a per-megabyte cost.
func EstimatedDuration(items []types.CleanupItem) time.Duration {
	var count int
	var size int64
	for _, item := range items {
		if !item.Selected {
			continue
		}
		count++
		size += item.Size
	}
	perItem := time.Duration(count) * 100 * time.Millisecond
	perMB := time.Duration(size/(1024*1024)) * 10 * time.Millisecond
	return perItem + perMB
}

// deleteItem dispatches the category-specific deletion strategy. It
// returns the bytes actually reclaimed. A vanished item is an idempotent
// success.
func (e *Executor) deleteItem(item types.CleanupItem) (int64, error) {
	// The safety gate fires before any filesystem primitive is invoked.
	if item.Risk == types.RiskHigh && (item.SystemRoot || policy.IsProtectedPath(item.Path)) {
		return 0, ErrProtectedSystemFile
	}

	switch policy.MethodFor(item.Category) {
	case policy.MethodTrash:
		if err := e.fs.MoveToTrash(item.Path); err != nil {
			if fsops.IsNotExist(err) {
				return 0, nil
			}
			return 0, err
		}
		return item.Size, nil

	case policy.MethodPrune:
		return e.pruneContents(item.Path, item.Size)

	case policy.MethodLogRetention:
		if e.now().Sub(item.ModifiedAt) <= policy.LogRetention {
			logger.Debug("log within retention window, kept", "path", item.Path)
			return 0, nil
		}
		return e.removePath(item)

	case policy.MethodBrowserCache:
		return e.cleanBrowserCache(item)

	default:
		return e.removePath(item)
	}
}

func (e *Executor) removePath(item types.CleanupItem) (int64, error) {
	var err error
	if item.IsDirectory {
		err = e.fs.RemoveAll(item.Path)
	} else {
		err = e.fs.Remove(item.Path)
	}
	if err != nil {
		if fsops.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return item.Size, nil
}

// pruneContents deletes everything inside dir while preserving the
// directory node itself, so cache roots remain present but empty.
func (e *Executor) pruneContents(dir string, size int64) (int64, error) {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		if fsops.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var firstErr error
	for _, entry := range entries {
		if err := e.fs.RemoveAll(filepath.Join(dir, entry.Name())); err != nil && !fsops.IsNotExist(err) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return 0, firstErr
	}
	return size, nil
}

// cleanBrowserCache deletes only the well-known cache subpaths beneath the
// selected root. Sibling data (bookmarks, credentials, profile config) is
// never touched.
func (e *Executor) cleanBrowserCache(item types.CleanupItem) (int64, error) {
	var firstErr error
	cleaned := false
	for _, sub := range policy.BrowserCacheSubpaths {
		p := filepath.Join(item.Path, sub)
		if _, err := e.fs.Stat(p); err != nil {
			continue
		}
		if _, err := e.pruneContents(p, 0); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		cleaned = true
	}
	if firstErr != nil {
		return 0, firstErr
	}
	if !cleaned {
		return 0, nil
	}
	return item.Size, nil
}
