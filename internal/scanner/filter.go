package scanner

import (
	"sort"
	"strings"

	"github.com/pistolinkr/Mactaphine/internal/types"
)

var categoryOrder = func() map[types.Category]int {
	m := make(map[types.Category]int, len(types.AllCategories))
	for i, cat := range types.AllCategories {
		m[cat] = i
	}
	return m
}()

// FilterSort derives the shell-facing view: a live search string matched
// against name and path, an optional safe-only toggle, and a sort key.
func FilterSort(items []types.CleanupItem, query string, safeOnly bool, order types.SortOrder) []types.CleanupItem {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]types.CleanupItem, 0, len(items))
	for _, item := range items {
		if safeOnly && item.Risk != types.RiskSafe {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Path), query) {
			continue
		}
		out = append(out, item)
	}

	switch order {
	case types.SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case types.SortByModified:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ModifiedAt.After(out[j].ModifiedAt)
		})
	case types.SortByCategory:
		sort.SliceStable(out, func(i, j int) bool {
			oi, oj := categoryOrder[out[i].Category], categoryOrder[out[j].Category]
			if oi != oj {
				return oi < oj
			}
			return out[i].Size > out[j].Size
		})
	default: // SortBySize
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Size > out[j].Size
		})
	}
	return out
}

// Filtered returns the filtered, sorted view of the current collection.
func (o *Orchestrator) Filtered(query string, safeOnly bool, order types.SortOrder) []types.CleanupItem {
	return FilterSort(o.Items(), query, safeOnly, order)
}
