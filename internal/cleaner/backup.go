package cleaner

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pistolinkr/Mactaphine/internal/fsops"
	"github.com/pistolinkr/Mactaphine/internal/logger"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

const (
	// backupMaxItems caps how many items one run snapshots.
	backupMaxItems = 10
	// backupMaxItemSize excludes very large items from the snapshot.
	backupMaxItemSize int64 = 100_000_000
)

// createBackupSnapshot copies at-risk items into a timestamped directory under
// baseDir before deletion. Best effort throughout: per-item copy failures
// are swallowed, and if the directory cannot be created the run proceeds
// with no backup at all.
func createBackupSnapshot(fsys fsops.FS, items []types.CleanupItem, baseDir string, now time.Time) (string, bool) {
	dir := filepath.Join(baseDir, fmt.Sprintf("Mactaphine_Backup_%s", now.Format("20060102_150405")))
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("backup directory creation failed", "dir", dir, "error", err)
		return "", false
	}

	copied := 0
	for _, item := range items {
		if copied >= backupMaxItems {
			break
		}
		if item.Risk == types.RiskSafe || item.Size >= backupMaxItemSize {
			continue
		}
		if err := fsys.Copy(item.Path, filepath.Join(dir, item.Name)); err != nil {
			logger.Debug("backup copy failed", "path", item.Path, "error", err)
			continue
		}
		copied++
	}

	logger.Info("backup created", "dir", dir, "items", copied)
	return dir, true
}
