package target

import (
	"context"

	"github.com/pistolinkr/Mactaphine/internal/fsops"
	"github.com/pistolinkr/Mactaphine/internal/policy"
	"github.com/pistolinkr/Mactaphine/internal/types"
	"github.com/pistolinkr/Mactaphine/internal/utils"
	"github.com/pistolinkr/Mactaphine/internal/walker"
)

// CategoryTarget scans the configured roots of one category with the
// walker strategy the policy table names for it.
type CategoryTarget struct {
	def    policy.Definition
	fs     fsops.FS
	walker *walker.Walker
	roots  []string // expanded
}

func NewCategoryTarget(def policy.Definition, fsys fsops.FS, w *walker.Walker) *CategoryTarget {
	roots := make([]string, 0, len(def.Roots))
	for _, r := range def.Roots {
		roots = append(roots, utils.ExpandPath(r))
	}
	return &CategoryTarget{def: def, fs: fsys, walker: w, roots: roots}
}

func (t *CategoryTarget) Definition() policy.Definition {
	return t.def
}

// IsAvailable reports whether at least one configured root exists.
func (t *CategoryTarget) IsAvailable() bool {
	for _, root := range t.roots {
		if _, err := t.fs.Stat(root); err == nil {
			return true
		}
	}
	return false
}

func (t *CategoryTarget) Scan(ctx context.Context) (*types.ScanResult, error) {
	result := &types.ScanResult{
		Category: t.def.Category,
		Items:    make([]types.CleanupItem, 0),
	}

	for _, root := range t.roots {
		if ctx.Err() != nil {
			return result, nil
		}

		var items []types.CleanupItem
		switch t.def.Kind {
		case policy.ScanLargeFiles:
			items = t.walker.LargeFiles(ctx, root, t.def)
		case policy.ScanDuplicates:
			items = t.walker.Duplicates(ctx, root, t.def)
		case policy.ScanOldFiles:
			items = t.walker.OldFiles(ctx, root, t.def)
		default:
			items = t.walker.Shallow(ctx, root, t.def)
		}

		for _, item := range items {
			result.Items = append(result.Items, item)
			result.TotalSize += item.Size
			result.TotalFileCount += item.FileCount
		}
	}

	return result, nil
}

// DefaultRegistry builds a registry covering every category in the policy
// table, sharing one walker configured from the given settings.
func DefaultRegistry(fsys fsops.FS, settings types.ScanSettings) *Registry {
	w := walker.New(fsys, settings)
	r := NewRegistry()
	for _, def := range policy.Definitions() {
		r.Register(NewCategoryTarget(def, fsys, w))
	}
	return r
}
