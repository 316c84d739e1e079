// Package walker enumerates filesystem entries for the category scans.
// All walks are cooperative: the context is checked before every entry and
// a cancelled walk returns whatever was already produced. Unreadable
// subtrees and unstattable entries are skipped, never fatal.
package walker

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pistolinkr/Mactaphine/internal/fsops"
	"github.com/pistolinkr/Mactaphine/internal/policy"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

// maxChildrenPerDir caps how many immediate children a shallow scan
// inspects in one directory. Bounds worst-case latency on huge cache
// folders at the cost of completeness.
const maxChildrenPerDir = 50

type Walker struct {
	fs       fsops.FS
	settings types.ScanSettings
	now      func() time.Time
}

func New(fsys fsops.FS, settings types.ScanSettings) *Walker {
	return &Walker{fs: fsys, settings: settings, now: time.Now}
}

// skip applies the fixed skip-rule order: hidden files (when hidden
// scanning is off), protected system paths (when system exclusion is on),
// custom exclusions, then the unconditional OS-noise deny list.
func (w *Walker) skip(name, fullPath string) bool {
	if !w.settings.ScanHiddenFiles && strings.HasPrefix(name, ".") {
		return true
	}
	if w.settings.ExcludeSystemFiles && policy.IsProtectedPath(fullPath) {
		return true
	}
	for _, excluded := range w.settings.CustomExcludedPaths {
		if fullPath == excluded || strings.HasPrefix(fullPath, excluded+"/") {
			return true
		}
	}
	return policy.IsNoiseFile(name)
}

func (w *Walker) newItem(def policy.Definition, path string, info fs.FileInfo, size, fileCount int64) types.CleanupItem {
	risk, desc := policy.Classify(def, size, info.ModTime(), w.now())
	return types.CleanupItem{
		ID:          uuid.NewString(),
		Name:        filepath.Base(path),
		Path:        path,
		Size:        size,
		FileCount:   fileCount,
		Category:    def.Category,
		Risk:        risk,
		ModifiedAt:  info.ModTime(),
		IsDirectory: info.IsDir(),
		SystemRoot:  policy.IsProtectedPath(path),
		Description: desc,
	}
}

// Shallow scans the immediate children of root, up to maxChildrenPerDir.
// Directories are sized recursively; entries below the configured minimum
// size are omitted.
func (w *Walker) Shallow(ctx context.Context, root string, def policy.Definition) []types.CleanupItem {
	entries, err := w.fs.ReadDir(root)
	if err != nil {
		return nil
	}
	if len(entries) > maxChildrenPerDir {
		entries = entries[:maxChildrenPerDir]
	}

	var items []types.CleanupItem
	for _, entry := range entries {
		if ctx.Err() != nil {
			return items
		}
		full := filepath.Join(root, entry.Name())
		if w.skip(entry.Name(), full) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		size := info.Size()
		fileCount := int64(1)
		if info.IsDir() {
			size, fileCount = w.dirSize(ctx, full)
		}
		if size < w.settings.MinFileSize {
			continue
		}
		items = append(items, w.newItem(def, full, info, size, fileCount))
	}
	return items
}

// LargeFiles walks root recursively. Files at or above the large-file
// threshold are emitted. A directory whose recursive size reaches the
// threshold is emitted as a single item and not descended into, so its
// contents are never double counted.
func (w *Walker) LargeFiles(ctx context.Context, root string, def policy.Definition) []types.CleanupItem {
	var items []types.CleanupItem
	w.walkLarge(ctx, root, def, &items)
	return items
}

func (w *Walker) walkLarge(ctx context.Context, dir string, def policy.Definition, items *[]types.CleanupItem) {
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		full := filepath.Join(dir, entry.Name())
		if w.skip(entry.Name(), full) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.IsDir() {
			size, fileCount := w.dirSize(ctx, full)
			if size >= policy.LargeFileMinSize {
				*items = append(*items, w.newItem(def, full, info, size, fileCount))
			} else {
				w.walkLarge(ctx, full, def, items)
			}
			continue
		}
		if info.Size() >= policy.LargeFileMinSize {
			*items = append(*items, w.newItem(def, full, info, info.Size(), 1))
		}
	}
}

// Duplicates groups all leaf filenames below root and emits every
// occurrence after the first for names seen more than once. Detection is
// by name equality only; the full subtree is collected before anything is
// emitted.
func (w *Walker) Duplicates(ctx context.Context, root string, def policy.Definition) []types.CleanupItem {
	type occurrence struct {
		path string
		info fs.FileInfo
	}
	byName := make(map[string][]occurrence)
	var order []string // first-seen order, for deterministic output

	w.walkFiles(ctx, root, func(path string, info fs.FileInfo) {
		name := filepath.Base(path)
		if len(byName[name]) == 0 {
			order = append(order, name)
		}
		byName[name] = append(byName[name], occurrence{path: path, info: info})
	})

	var items []types.CleanupItem
	for _, name := range order {
		occ := byName[name]
		if len(occ) < 2 {
			continue
		}
		for _, o := range occ[1:] {
			if ctx.Err() != nil {
				return items
			}
			items = append(items, w.newItem(def, o.path, o.info, o.info.Size(), 1))
		}
	}
	return items
}

// OldFiles emits files modified strictly before now minus the configured
// maximum age. The minimum-size filter applies.
func (w *Walker) OldFiles(ctx context.Context, root string, def policy.Definition) []types.CleanupItem {
	cutoff := policy.OldFileCutoff(w.now(), w.settings.MaxFileAgeDays)
	var items []types.CleanupItem
	w.walkFiles(ctx, root, func(path string, info fs.FileInfo) {
		if !info.ModTime().Before(cutoff) {
			return
		}
		if info.Size() < w.settings.MinFileSize {
			return
		}
		items = append(items, w.newItem(def, path, info, info.Size(), 1))
	})
	return items
}

// walkFiles visits every regular file below dir depth first, applying the
// skip rules to files and directories alike.
func (w *Walker) walkFiles(ctx context.Context, dir string, fn func(path string, info fs.FileInfo)) {
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		full := filepath.Join(dir, entry.Name())
		if w.skip(entry.Name(), full) {
			continue
		}
		if entry.IsDir() {
			w.walkFiles(ctx, full, fn)
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		fn(full, info)
	}
}

// dirSize sums the sizes of all files below path. Stat failures contribute
// zero and never abort the walk.
func (w *Walker) dirSize(ctx context.Context, path string) (int64, int64) {
	var size, count int64
	entries, err := w.fs.ReadDir(path)
	if err != nil {
		return 0, 0
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return size, count
		}
		full := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			s, c := w.dirSize(ctx, full)
			size += s
			count += c
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		size += info.Size()
		count++
	}
	return size, count
}
