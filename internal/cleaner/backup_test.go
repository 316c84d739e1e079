package cleaner

import (
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pistolinkr/Mactaphine/internal/fsops"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

var backupNow = time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC)

const backupDirForNow = "/backups/Mactaphine_Backup_20260412_093000"

// --- Backup Snapshot Tests ---

func TestCreateBackupSnapshot_CopiesAtRiskItems(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/var/log/app.log", 100, backupNow)
	m.AddDir("/backups")

	items := []types.CleanupItem{
		{Name: "app.log", Path: "/var/log/app.log", Size: 100, Risk: types.RiskMedium},
	}
	dir, created := createBackupSnapshot(m, items, "/backups", backupNow)

	assert.True(t, created)
	assert.Equal(t, backupDirForNow, dir)
	assert.True(t, m.Exists(backupDirForNow+"/app.log"))
}

func TestCreateBackupSnapshot_SkipsSafeAndOversizedItems(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/safe.dat", 100, backupNow)
	m.AddFile("/tmp/huge.dat", backupMaxItemSize, backupNow)
	m.AddFile("/tmp/risky.dat", 100, backupNow)

	items := []types.CleanupItem{
		{Name: "safe.dat", Path: "/tmp/safe.dat", Size: 100, Risk: types.RiskSafe},
		{Name: "huge.dat", Path: "/tmp/huge.dat", Size: backupMaxItemSize, Risk: types.RiskHigh},
		{Name: "risky.dat", Path: "/tmp/risky.dat", Size: 100, Risk: types.RiskHigh},
	}
	_, created := createBackupSnapshot(m, items, "/backups", backupNow)

	assert.True(t, created)
	assert.False(t, m.Exists(backupDirForNow+"/safe.dat"))
	assert.False(t, m.Exists(backupDirForNow+"/huge.dat"))
	assert.True(t, m.Exists(backupDirForNow+"/risky.dat"))
}

func TestCreateBackupSnapshot_CapsItemCount(t *testing.T) {
	m := fsops.NewMemFS()
	items := make([]types.CleanupItem, 0, backupMaxItems+5)
	for i := 0; i < backupMaxItems+5; i++ {
		path := fmt.Sprintf("/tmp/file%02d", i)
		m.AddFile(path, 10, backupNow)
		items = append(items, types.CleanupItem{
			Name: fmt.Sprintf("file%02d", i),
			Path: path,
			Size: 10,
			Risk: types.RiskHigh,
		})
	}

	_, created := createBackupSnapshot(m, items, "/backups", backupNow)

	assert.True(t, created)
	assert.Len(t, m.Copied, backupMaxItems)
}

func TestCreateBackupSnapshot_DirectoryFailureMeansNoBackup(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/risky.dat", 100, backupNow)
	m.FailWith[backupDirForNow] = fs.ErrPermission

	items := []types.CleanupItem{
		{Name: "risky.dat", Path: "/tmp/risky.dat", Size: 100, Risk: types.RiskHigh},
	}
	dir, created := createBackupSnapshot(m, items, "/backups", backupNow)

	assert.False(t, created)
	assert.Empty(t, dir)
	assert.Empty(t, m.Copied)
}

func TestCreateBackupSnapshot_CopyFailuresAreSwallowed(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/tmp/good.dat", 100, backupNow)
	items := []types.CleanupItem{
		{Name: "gone.dat", Path: "/tmp/gone.dat", Size: 100, Risk: types.RiskHigh},
		{Name: "good.dat", Path: "/tmp/good.dat", Size: 100, Risk: types.RiskHigh},
	}

	_, created := createBackupSnapshot(m, items, "/backups", backupNow)

	assert.True(t, created, "one bad copy never aborts the snapshot")
	assert.True(t, m.Exists(backupDirForNow+"/good.dat"))
}

func TestRun_BackupRunsBeforeDeletion(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddFile("/var/log/old.log", 100, backupNow.Add(-30*24*time.Hour))
	e := newTestExecutor(m)
	e.now = func() time.Time { return backupNow }

	items := []types.CleanupItem{
		{ID: "1", Name: "old.log", Path: "/var/log/old.log", Size: 100, Category: types.CategoryLogs, Risk: types.RiskMedium, ModifiedAt: backupNow.Add(-30 * 24 * time.Hour), Selected: true},
	}
	report, err := e.Run(items, true, Callbacks{})

	require.NoError(t, err)
	assert.True(t, report.BackupCreated)
	assert.Equal(t, backupDirForNow, report.BackupPath)
	assert.True(t, m.Exists(backupDirForNow+"/old.log"), "the copy predates the deletion")
	assert.False(t, m.Exists("/var/log/old.log"))
}
