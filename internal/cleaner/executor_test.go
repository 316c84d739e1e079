package cleaner

import (
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pistolinkr/Mactaphine/internal/fsops"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

func newTestExecutor(m *fsops.MemFS) *Executor {
	e := NewExecutor(m)
	e.BackupDir = "/backups"
	e.pace = 0
	return e
}

func selectedItem(id, path string, size int64, cat types.Category, risk types.RiskLevel, dir bool) types.CleanupItem {
	return types.CleanupItem{
		ID:          id,
		Name:        filepath.Base(path),
		Path:        path,
		Size:        size,
		Category:    cat,
		Risk:        risk,
		IsDirectory: dir,
		Selected:    true,
	}
}

// --- Run Tests ---

func TestRun_EmptySelectionIsNoOp(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/a", 10, time.Now())
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		{ID: "1", Path: "/tmp/a", Category: types.CategoryTemp, Selected: false},
	}
	report, err := e.Run(items, false, Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, types.RunCompleted, report.Status)
	assert.Zero(t, report.ItemsProcessed)
	assert.Empty(t, m.Removed)
	assert.True(t, m.Exists("/tmp/a"))
}

func TestRun_ProcessesLowestRiskFirst(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/safe", 10, time.Now())
	m.AddFile("/tmp/medium", 20, time.Now())
	m.AddFile("/tmp/high", 30, time.Now())
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		selectedItem("h", "/tmp/high", 30, types.CategoryTemp, types.RiskHigh, false),
		selectedItem("s", "/tmp/safe", 10, types.CategoryTemp, types.RiskSafe, false),
		selectedItem("m", "/tmp/medium", 20, types.CategoryTemp, types.RiskMedium, false),
	}

	var order []string
	report, err := e.Run(items, false, Callbacks{
		OnItemDone: func(item types.CleanupItem, err error) { order = append(order, item.ID) },
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"s", "m", "h"}, order)
	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, int64(60), report.Reclaimed)
}

func TestRun_FailuresAreRecordedNotFatal(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/ok", 10, time.Now())
	m.AddFile("/tmp/locked", 20, time.Now())
	m.FailWith["/tmp/locked"] = fs.ErrPermission
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		selectedItem("1", "/tmp/ok", 10, types.CategoryTemp, types.RiskSafe, false),
		selectedItem("2", "/tmp/locked", 20, types.CategoryTemp, types.RiskSafe, false),
	}
	report, err := e.Run(items, false, Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, 2, report.ItemsProcessed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, report.ItemsProcessed, report.Succeeded+report.Failed)
	assert.Equal(t, int64(10), report.Reclaimed, "failed items reclaim nothing")

	require.Len(t, report.Errors, 1)
	assert.Equal(t, "/tmp/locked", report.Errors[0].Item.Path)
	assert.Equal(t, types.ErrKindPermissionDenied, report.Errors[0].Kind)
	assert.False(t, report.Errors[0].Time.IsZero())
}

func TestRun_VanishedItemIsIdempotentSuccess(t *testing.T) {
	e := newTestExecutor(fsops.NewMemFS())

	items := []types.CleanupItem{
		selectedItem("1", "/Users/a/Downloads/gone.zip", 500, types.CategoryDownloads, types.RiskMedium, false),
	}
	report, err := e.Run(items, false, Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Reclaimed, "nothing was actually freed")
}

func TestRun_ProtectedHighRiskRejectedBeforeAnyDeletion(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddDir("/System/Library/Caches/kext")
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		selectedItem("1", "/System/Library/Caches/kext", 100, types.CategorySystemCache, types.RiskHigh, true),
	}
	report, err := e.Run(items, false, Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Errors[0].Err, ErrProtectedSystemFile)
	assert.Equal(t, types.ErrKindProtected, report.Errors[0].Kind)

	// The gate fires before any filesystem primitive.
	assert.Empty(t, m.Removed)
	assert.Empty(t, m.Trashed)
	assert.True(t, m.Exists("/System/Library/Caches/kext"))
}

func TestRun_TrashCategoryUsesTrash(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/Users/a/Downloads/big.zip", 500, time.Now())
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		selectedItem("1", "/Users/a/Downloads/big.zip", 500, types.CategoryDownloads, types.RiskMedium, false),
	}
	report, err := e.Run(items, false, Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, int64(500), report.Reclaimed)
	assert.Contains(t, m.Trashed, "/Users/a/Downloads/big.zip")
	assert.Empty(t, m.Removed, "trash categories never hard-delete")
}

func TestRun_PruneKeepsDirectoryNode(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/Users/a/Library/Caches/app/data.db", 100, time.Now())
	m.AddFile("/Users/a/Library/Caches/app/tmp.bin", 50, time.Now())
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		selectedItem("1", "/Users/a/Library/Caches/app", 150, types.CategoryUserCache, types.RiskSafe, true),
	}
	report, err := e.Run(items, false, Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, int64(150), report.Reclaimed)
	assert.True(t, m.Exists("/Users/a/Library/Caches/app"), "cache root survives")
	assert.False(t, m.Exists("/Users/a/Library/Caches/app/data.db"))
	assert.False(t, m.Exists("/Users/a/Library/Caches/app/tmp.bin"))
}

func TestRun_LogRetentionKeepsYoungLogs(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m := fsops.NewMemFS()
	m.AddFile("/var/log/young.log", 10, now.Add(-3*24*time.Hour))
	m.AddFile("/var/log/stale.log", 20, now.Add(-10*24*time.Hour))
	e := newTestExecutor(m)
	e.now = func() time.Time { return now }

	items := []types.CleanupItem{
		{ID: "1", Name: "young.log", Path: "/var/log/young.log", Size: 10, Category: types.CategoryLogs, Risk: types.RiskMedium, ModifiedAt: now.Add(-3 * 24 * time.Hour), Selected: true},
		{ID: "2", Name: "stale.log", Path: "/var/log/stale.log", Size: 20, Category: types.CategoryLogs, Risk: types.RiskMedium, ModifiedAt: now.Add(-10 * 24 * time.Hour), Selected: true},
	}
	report, err := e.Run(items, false, Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded, "a kept log still counts as processed successfully")
	assert.Equal(t, int64(20), report.Reclaimed, "only the stale log frees bytes")
	assert.True(t, m.Exists("/var/log/young.log"))
	assert.False(t, m.Exists("/var/log/stale.log"))
}

func TestRun_BrowserCacheTouchesOnlyCacheSubpaths(t *testing.T) {
	root := "/Users/a/Library/Application Support/Google/Chrome"
	m := fsops.NewMemFS()
	m.AddFile(root+"/Default/Cache/f_0001", 100, time.Now())
	m.AddFile(root+"/Default/Bookmarks", 5, time.Now())
	m.AddFile(root+"/Default/Login Data", 5, time.Now())
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		selectedItem("1", root, 110, types.CategoryBrowserData, types.RiskMedium, true),
	}
	report, err := e.Run(items, false, Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.False(t, m.Exists(root+"/Default/Cache/f_0001"))
	assert.True(t, m.Exists(root+"/Default/Cache"), "cache dir node survives")
	assert.True(t, m.Exists(root+"/Default/Bookmarks"))
	assert.True(t, m.Exists(root+"/Default/Login Data"))
}

func TestRun_CancelStopsBeforeNextItem(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/a", 10, time.Now())
	m.AddFile("/tmp/b", 10, time.Now())
	m.AddFile("/tmp/c", 10, time.Now())
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		selectedItem("a", "/tmp/a", 10, types.CategoryTemp, types.RiskSafe, false),
		selectedItem("b", "/tmp/b", 10, types.CategoryTemp, types.RiskSafe, false),
		selectedItem("c", "/tmp/c", 10, types.CategoryTemp, types.RiskSafe, false),
	}

	report, err := e.Run(items, false, Callbacks{
		OnItemDone: func(item types.CleanupItem, err error) {
			if item.ID == "a" {
				e.Cancel()
			}
		},
	})

	require.NoError(t, err)
	assert.Equal(t, types.RunCancelled, report.Status)
	assert.Equal(t, 1, report.ItemsProcessed, "the in-flight item finishes, the rest never start")
	assert.True(t, m.Exists("/tmp/b"))
	assert.True(t, m.Exists("/tmp/c"))
}

func TestRun_RejectsWhileBusy(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/a", 10, time.Now())
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		selectedItem("a", "/tmp/a", 10, types.CategoryTemp, types.RiskSafe, false),
	}

	var second error
	_, err := e.Run(items, false, Callbacks{
		OnItemDone: func(types.CleanupItem, error) {
			_, second = e.Run(items, false, Callbacks{})
		},
	})

	require.NoError(t, err)
	assert.ErrorIs(t, second, ErrCleanupInProgress)
	assert.False(t, e.IsRunning(), "the flag clears once the run ends")
}

func TestRun_ReportAggregatesDistinctCategoriesAndRisks(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/a", 10, time.Now())
	m.AddFile("/tmp/b", 10, time.Now())
	m.AddFile("/Users/a/Downloads/c", 10, time.Now())
	e := newTestExecutor(m)

	items := []types.CleanupItem{
		selectedItem("a", "/tmp/a", 10, types.CategoryTemp, types.RiskSafe, false),
		selectedItem("b", "/tmp/b", 10, types.CategoryTemp, types.RiskSafe, false),
		selectedItem("c", "/Users/a/Downloads/c", 10, types.CategoryDownloads, types.RiskMedium, false),
	}
	report, err := e.Run(items, false, Callbacks{})

	require.NoError(t, err)
	assert.ElementsMatch(t, []types.Category{types.CategoryTemp, types.CategoryDownloads}, report.Categories)
	assert.ElementsMatch(t, []types.RiskLevel{types.RiskSafe, types.RiskMedium}, report.Risks)
	assert.Equal(t, types.RunCompleted, report.Status)
	assert.False(t, report.StartedAt.IsZero())
}

func TestRun_ProgressReachesCompletion(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/a", 10, time.Now())
	e := newTestExecutor(m)

	var fractions []float64
	_, err := e.Run([]types.CleanupItem{
		selectedItem("a", "/tmp/a", 10, types.CategoryTemp, types.RiskSafe, false),
	}, false, Callbacks{
		OnProgress: func(s Status) { fractions = append(fractions, s.Fraction) },
	})

	require.NoError(t, err)
	require.NotEmpty(t, fractions)
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
}

// --- Estimation Tests ---

func TestEstimatedDuration(t *testing.T) {
	items := []types.CleanupItem{
		{Size: 50 * 1024 * 1024, Selected: true},
		{Size: 50 * 1024 * 1024, Selected: true},
		{Size: 1 << 30, Selected: false}, // unselected, ignored
	}

	// 2 items * 100ms + 100 MB * 10ms.
	assert.Equal(t, 1200*time.Millisecond, EstimatedDuration(items))
	assert.Zero(t, EstimatedDuration(nil))
}
