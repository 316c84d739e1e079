// Package history keeps a bounded, newest-first log of past cleanup runs
// and derives simple trend statistics from it. Persistence is best effort:
// losing a history entry is never user-data-destructive.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pistolinkr/Mactaphine/internal/logger"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

// maxEntries bounds the log; older entries fall off the end.
const maxEntries = 50

// Entry is the compacted, persisted projection of one cleanup run.
type Entry struct {
	Date       time.Time `json:"date"`
	ItemCount  int       `json:"item_count"`
	TotalSize  int64     `json:"total_size"`
	Categories []string  `json:"categories"`
	RiskLevels []string  `json:"risk_levels"`
}

// Log is the bounded newest-first run log.
type Log struct {
	mu      sync.Mutex
	path    string
	entries []Entry
}

// Open loads the log from path. A missing or unreadable file yields an
// empty log, not an error.
func Open(path string) *Log {
	l := &Log{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("history load failed", "path", path, "error", err)
		}
		return l
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		logger.Warn("history parse failed", "path", path, "error", err)
		l.entries = nil
	}
	if len(l.entries) > maxEntries {
		l.entries = l.entries[:maxEntries]
	}
	return l
}

// DefaultPath returns the standard on-disk location of the history log.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cleanup_history.json"
	}
	return filepath.Join(home, ".config", "mactaphine", "cleanup_history.json")
}

// Append derives an entry from the report, prepends it and persists the
// log. Persistence failures are logged and otherwise ignored.
func (l *Log) Append(report *types.CleanupRunReport) {
	cats := make([]string, 0, len(report.Categories))
	for _, c := range report.Categories {
		cats = append(cats, string(c))
	}
	risks := make([]string, 0, len(report.Risks))
	for _, r := range report.Risks {
		risks = append(risks, r.String())
	}
	sort.Strings(risks)

	entry := Entry{
		Date:       report.StartedAt,
		ItemCount:  report.ItemsProcessed,
		TotalSize:  report.Reclaimed,
		Categories: cats,
		RiskLevels: risks,
	}

	l.mu.Lock()
	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > maxEntries {
		l.entries = l.entries[:maxEntries]
	}
	snapshot := make([]Entry, len(l.entries))
	copy(snapshot, l.entries)
	path := l.path
	l.mu.Unlock()

	if err := save(path, snapshot); err != nil {
		logger.Warn("history save failed", "path", path, "error", err)
	}
}

func save(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Entries returns a newest-first snapshot of the log.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// TotalSaved sums the reclaimed bytes across all recorded runs.
func (l *Log) TotalSaved() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total int64
	for _, e := range l.entries {
		total += e.TotalSize
	}
	return total
}

// AverageSize is the mean reclaimed bytes per run.
func (l *Log) AverageSize() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return 0
	}
	var total int64
	for _, e := range l.entries {
		total += e.TotalSize
	}
	return total / int64(len(l.entries))
}

// SafetyRatio is the fraction of runs that touched only safe-risk items.
func (l *Log) SafetyRatio() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return 0
	}
	safe := 0
	for _, e := range l.entries {
		onlySafe := true
		for _, r := range e.RiskLevels {
			if r != types.RiskSafe.String() {
				onlySafe = false
				break
			}
		}
		if onlySafe {
			safe++
		}
	}
	return float64(safe) / float64(len(l.entries))
}

// Frequency describes how often cleanups run, derived from the span
// between the newest and oldest entries.
func (l *Log) Frequency() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) < 2 {
		return "not enough data"
	}

	newest := l.entries[0].Date
	oldest := l.entries[len(l.entries)-1].Date
	interval := newest.Sub(oldest) / time.Duration(len(l.entries)-1)
	days := interval.Hours() / 24

	switch {
	case days < 1:
		return "daily"
	case days < 7:
		return fmt.Sprintf("every %d days", int(days))
	case days < 30:
		return fmt.Sprintf("every %d weeks", int(days/7))
	default:
		return fmt.Sprintf("every %d months", int(days/30))
	}
}
