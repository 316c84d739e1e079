package types

import "time"

// RiskLevel orders cleanup candidates from safest to most dangerous.
// The numeric order matters: cleanup processes lower risk first.
type RiskLevel int

const (
	RiskSafe RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskSafe:
		return "safe"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Category identifies the origin of a cleanup candidate.
type Category string

const (
	CategorySystemCache Category = "system-cache"
	CategoryUserCache   Category = "user-cache"
	CategoryLogs        Category = "logs"
	CategoryDownloads   Category = "downloads"
	CategoryTrash       Category = "trash"
	CategoryAppSupport  Category = "app-support"
	CategoryBrowserData Category = "browser-data"
	CategoryTemp        Category = "temp"
	CategoryLargeFiles  Category = "large-files"
	CategoryDuplicates  Category = "duplicates"
	CategoryOldFiles    Category = "old-files"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategorySystemCache,
	CategoryUserCache,
	CategoryLogs,
	CategoryDownloads,
	CategoryTrash,
	CategoryAppSupport,
	CategoryBrowserData,
	CategoryTemp,
	CategoryLargeFiles,
	CategoryDuplicates,
	CategoryOldFiles,
}

// CleanupItem is one discovered filesystem object considered for cleanup.
// All fields except Selected are fixed for the lifetime of a scan result set.
type CleanupItem struct {
	ID          string
	Name        string
	Path        string
	Size        int64
	FileCount   int64
	Category    Category
	Risk        RiskLevel
	ModifiedAt  time.Time
	IsDirectory bool
	SystemRoot  bool // lives under a protected system root
	Description string
	Selected    bool
}

// ScanResult holds everything one category scan produced.
type ScanResult struct {
	Category       Category
	Items          []CleanupItem
	TotalSize      int64
	TotalFileCount int64
}

// SortOrder represents the sorting criterion for the item list.
type SortOrder string

const (
	SortBySize     SortOrder = "size"     // Size descending (default)
	SortByName     SortOrder = "name"     // Name ascending (A→Z)
	SortByModified SortOrder = "modified" // Most recently modified first
	SortByCategory SortOrder = "category" // Category display order
)

// Next returns the next sort order in the rotation cycle.
func (s SortOrder) Next() SortOrder {
	switch s {
	case SortBySize:
		return SortByName
	case SortByName:
		return SortByModified
	case SortByModified:
		return SortByCategory
	default:
		return SortBySize
	}
}

// Label returns the display label for the sort order.
func (s SortOrder) Label() string {
	switch s {
	case SortBySize:
		return "Size ↓"
	case SortByName:
		return "Name"
	case SortByModified:
		return "Modified ↓"
	case SortByCategory:
		return "Category"
	default:
		return "Size ↓"
	}
}

// ErrorKind distinguishes cleanup failure causes for display.
type ErrorKind string

const (
	ErrKindPermissionDenied ErrorKind = "permission-denied"
	ErrKindProtected        ErrorKind = "protected-system-file"
	ErrKindOther            ErrorKind = "other"
)

// ItemError pairs a failed item with the error that stopped it.
type ItemError struct {
	Item CleanupItem
	Err  error
	Kind ErrorKind
	Time time.Time
}

// RunStatus is the terminal state of one cleanup invocation.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
)

// CleanupRunReport summarizes one completed cleanup invocation.
type CleanupRunReport struct {
	StartedAt      time.Time
	ItemsProcessed int
	Succeeded      int
	Failed         int
	Reclaimed      int64
	Errors         []ItemError
	Categories     []Category
	Risks          []RiskLevel
	Elapsed        time.Duration
	BackupCreated  bool
	BackupPath     string
	Status         RunStatus
}

// ScanSettings is the user-configurable scan policy. It is loaded once at
// startup and re-saved on every change by the settings package.
type ScanSettings struct {
	ActiveCategories    []Category `yaml:"active_categories"`
	MinFileSize         int64      `yaml:"min_file_size"`
	MaxFileAgeDays      int        `yaml:"max_file_age_days"`
	AutoScanOnLaunch    bool       `yaml:"auto_scan_on_launch"`
	ConfirmBeforeDelete bool       `yaml:"confirm_before_delete"`
	CreateBackup        bool       `yaml:"create_backup"`
	ScanHiddenFiles     bool       `yaml:"scan_hidden_files"`
	ExcludeSystemFiles  bool       `yaml:"exclude_system_files"`
	CustomExcludedPaths []string   `yaml:"custom_excluded_paths,omitempty"`
}
