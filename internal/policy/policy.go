// Package policy holds the fixed classification tables: which category a
// scan root belongs to, its default risk, how its items are deleted and
// where on disk the scan starts. Pure data and pure functions, no I/O.
package policy

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pistolinkr/Mactaphine/internal/types"
)

// DeleteMethod selects the deletion strategy the executor applies to a
// category's items.
type DeleteMethod string

const (
	// MethodTrash moves the item to the system trash.
	MethodTrash DeleteMethod = "trash"
	// MethodPrune deletes directory contents but keeps the directory node.
	MethodPrune DeleteMethod = "prune"
	// MethodLogRetention deletes only entries older than the retention window.
	MethodLogRetention DeleteMethod = "log-retention"
	// MethodBrowserCache deletes only well-known cache subpaths.
	MethodBrowserCache DeleteMethod = "browser-cache"
	// MethodDirect removes the item path outright.
	MethodDirect DeleteMethod = "direct"
)

// ScanKind selects the walker strategy for a category.
type ScanKind string

const (
	ScanShallow    ScanKind = "shallow"
	ScanLargeFiles ScanKind = "large-files"
	ScanDuplicates ScanKind = "duplicates"
	ScanOldFiles   ScanKind = "old-files"
)

// Definition is the full fixed policy for one category.
type Definition struct {
	Category    types.Category
	Name        string
	Description string
	DefaultRisk types.RiskLevel
	Method      DeleteMethod
	Kind        ScanKind
	Roots       []string // unexpanded, ~ allowed
}

// definitions is the fixed category table. Order matches types.AllCategories.
var definitions = []Definition{
	{
		Category:    types.CategorySystemCache,
		Name:        "System Cache",
		Description: "System temporary files and caches",
		DefaultRisk: types.RiskHigh,
		Method:      MethodPrune,
		Kind:        ScanShallow,
		Roots:       []string{"/Library/Caches", "/System/Library/Caches"},
	},
	{
		Category:    types.CategoryUserCache,
		Name:        "User Cache",
		Description: "App caches, rebuilt automatically after deletion",
		DefaultRisk: types.RiskSafe,
		Method:      MethodPrune,
		Kind:        ScanShallow,
		Roots:       []string{"~/Library/Caches"},
	},
	{
		Category:    types.CategoryLogs,
		Name:        "Log Files",
		Description: "System and application log files",
		DefaultRisk: types.RiskMedium,
		Method:      MethodLogRetention,
		Kind:        ScanShallow,
		Roots:       []string{"/var/log", "~/Library/Logs", "/Library/Logs"},
	},
	{
		Category:    types.CategoryDownloads,
		Name:        "Downloads",
		Description: "Files in the Downloads folder, review before deleting",
		DefaultRisk: types.RiskMedium,
		Method:      MethodTrash,
		Kind:        ScanShallow,
		Roots:       []string{"~/Downloads"},
	},
	{
		Category:    types.CategoryTrash,
		Name:        "Trash",
		Description: "Trash contents, safe to remove permanently",
		DefaultRisk: types.RiskSafe,
		Method:      MethodTrash,
		Kind:        ScanShallow,
		Roots:       []string{"~/.Trash"},
	},
	{
		Category:    types.CategoryAppSupport,
		Name:        "App Support Cache",
		Description: "Per-application data, settings may reset",
		DefaultRisk: types.RiskHigh,
		Method:      MethodPrune,
		Kind:        ScanShallow,
		Roots:       []string{"~/Library/Application Support"},
	},
	{
		Category:    types.CategoryBrowserData,
		Name:        "Browser Data",
		Description: "Browser caches, bookmarks and logins are kept",
		DefaultRisk: types.RiskMedium,
		Method:      MethodBrowserCache,
		Kind:        ScanShallow,
		Roots: []string{
			"~/Library/Caches/com.apple.Safari",
			"~/Library/Application Support/Google/Chrome",
			"~/Library/Application Support/Firefox",
		},
	},
	{
		Category:    types.CategoryTemp,
		Name:        "Temporary Files",
		Description: "Temporary files and folders, safe to delete",
		DefaultRisk: types.RiskSafe,
		Method:      MethodDirect,
		Kind:        ScanShallow,
		Roots:       []string{"/tmp", "/var/tmp"},
	},
	{
		Category:    types.CategoryLargeFiles,
		Name:        "Large Files",
		Description: "Files above the large-file threshold, review manually",
		DefaultRisk: types.RiskHigh,
		Method:      MethodDirect,
		Kind:        ScanLargeFiles,
		Roots:       []string{"~"},
	},
	{
		Category:    types.CategoryDuplicates,
		Name:        "Duplicate Files",
		Description: "Same-named files, the first occurrence is kept",
		DefaultRisk: types.RiskHigh,
		Method:      MethodDirect,
		Kind:        ScanDuplicates,
		Roots:       []string{"~"},
	},
	{
		Category:    types.CategoryOldFiles,
		Name:        "Old Files",
		Description: "Files untouched beyond the age threshold",
		DefaultRisk: types.RiskMedium,
		Method:      MethodDirect,
		Kind:        ScanOldFiles,
		Roots:       []string{"~"},
	},
}

// Definitions returns the fixed category table in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for a category.
func Lookup(cat types.Category) (Definition, bool) {
	for _, d := range definitions {
		if d.Category == cat {
			return d, true
		}
	}
	return Definition{}, false
}

// DefaultRisk returns the fixed default risk for a category.
func DefaultRisk(cat types.Category) types.RiskLevel {
	if d, ok := Lookup(cat); ok {
		return d.DefaultRisk
	}
	return types.RiskHigh
}

// MethodFor returns the deletion strategy for a category.
func MethodFor(cat types.Category) DeleteMethod {
	if d, ok := Lookup(cat); ok {
		return d.Method
	}
	return MethodDirect
}

// Protected system path prefixes (owned by the OS, stricter deletion rules).
var protectedPrefixes = []string{
	"/System",
	"/usr",
	"/bin",
	"/sbin",
}

// Writable exceptions below otherwise protected prefixes.
var protectedExceptions = []string{
	"/usr/local",
}

// IsProtectedPath reports whether path lies under a protected system root.
func IsProtectedPath(path string) bool {
	p := filepath.Clean(path)
	for _, exc := range protectedExceptions {
		if p == exc || strings.HasPrefix(p, exc+"/") {
			return false
		}
	}
	for _, pre := range protectedPrefixes {
		if p == pre || strings.HasPrefix(p, pre+"/") {
			return true
		}
	}
	return false
}

// noiseFiles are OS metadata sentinels skipped regardless of settings.
var noiseFiles = map[string]struct{}{
	".DS_Store":       {},
	".localized":      {},
	".Spotlight-V100": {},
	".fseventsd":      {},
	".Trashes":        {},
	"Thumbs.db":       {},
	"desktop.ini":     {},
}

// IsNoiseFile reports whether name is on the fixed OS-noise deny list.
func IsNoiseFile(name string) bool {
	_, ok := noiseFiles[name]
	return ok
}

// LargeFileMinSize is the threshold for the large-files scan. It is
// deliberately independent of ScanSettings.MinFileSize.
const LargeFileMinSize int64 = 1 << 30 // 1 GB

// LogRetention is the minimum age before a selected log file is deleted.
const LogRetention = 7 * 24 * time.Hour

// BrowserCacheSubpaths are the only paths the executor touches beneath a
// browser-data root. Siblings (bookmarks, credentials, profiles) are never
// deleted.
var BrowserCacheSubpaths = []string{
	"Cache",
	"Caches",
	"Default/Cache",
	"Default/Caches",
}

// Classify maps a scanned entry to its risk and description. Deterministic,
// no I/O. The scan kind overrides the category default risk: large files
// are always medium, duplicates always safe, old files always medium.
func Classify(def Definition, size int64, modifiedAt time.Time, now time.Time) (types.RiskLevel, string) {
	switch def.Kind {
	case ScanLargeFiles:
		return types.RiskMedium, "Large file, review before deleting"
	case ScanDuplicates:
		return types.RiskSafe, "Duplicate file, the original is kept"
	case ScanOldFiles:
		return types.RiskMedium, "Not modified since " + modifiedAt.Format("2006-01-02")
	default:
		return def.DefaultRisk, def.Description
	}
}

// OldFileCutoff computes the modification-time cutoff for the old-files scan.
func OldFileCutoff(now time.Time, maxAgeDays int) time.Time {
	return now.AddDate(0, 0, -maxAgeDays)
}
