package scanner

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pistolinkr/Mactaphine/internal/mocks"
	"github.com/pistolinkr/Mactaphine/internal/policy"
	"github.com/pistolinkr/Mactaphine/internal/target"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

// newTestItems builds items with predictable IDs for one category.
func newTestItems(cat types.Category, risk types.RiskLevel, sizes ...int64) []types.CleanupItem {
	items := make([]types.CleanupItem, len(sizes))
	for i, size := range sizes {
		items[i] = types.CleanupItem{
			ID:       fmt.Sprintf("%s-%d", cat, i),
			Name:     fmt.Sprintf("%s-item-%d", cat, i),
			Path:     fmt.Sprintf("/%s/item-%d", cat, i),
			Size:     size,
			Category: cat,
			Risk:     risk,
		}
	}
	return items
}

func newMockTarget(cat types.Category, items []types.CleanupItem) *mocks.MockTarget {
	def, _ := policy.Lookup(cat)
	m := new(mocks.MockTarget)
	m.On("Definition").Return(def)
	m.On("IsAvailable").Return(true)
	m.On("Scan", mock.Anything).Return(&types.ScanResult{Category: cat, Items: items}, nil)
	return m
}

func newRegistry(targets ...target.Target) *target.Registry {
	r := target.NewRegistry()
	for _, t := range targets {
		r.Register(t)
	}
	return r
}

// scanAndWait runs one scan to completion and returns whether it was cancelled.
func scanAndWait(t *testing.T, o *Orchestrator, categories []types.Category, cb Callbacks) bool {
	t.Helper()
	done := make(chan bool, 1)
	inner := cb.OnDone
	cb.OnDone = func(cancelled bool) {
		if inner != nil {
			inner(cancelled)
		}
		done <- cancelled
	}
	o.StartScan(categories, cb)
	select {
	case cancelled := <-done:
		return cancelled
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not finish")
		return false
	}
}

// --- Scan Tests ---

func TestStartScan_CollectsAllCategories(t *testing.T) {
	registry := newRegistry(
		newMockTarget(types.CategoryUserCache, newTestItems(types.CategoryUserCache, types.RiskSafe, 100, 200)),
		newMockTarget(types.CategoryLogs, newTestItems(types.CategoryLogs, types.RiskMedium, 300)),
	)
	o := New(registry)

	cancelled := scanAndWait(t, o, []types.Category{types.CategoryUserCache, types.CategoryLogs}, Callbacks{})

	assert.False(t, cancelled)
	assert.Len(t, o.Items(), 3)
	assert.Equal(t, int64(600), o.TotalSize())
	assert.Equal(t, 1.0, o.Progress())
	assert.False(t, o.IsScanning())
}

func TestStartScan_ProgressIsMonotonic(t *testing.T) {
	registry := newRegistry(
		newMockTarget(types.CategoryUserCache, nil),
		newMockTarget(types.CategoryLogs, nil),
		newMockTarget(types.CategoryTemp, nil),
	)
	o := New(registry)

	var fractions []float64
	scanAndWait(t, o, []types.Category{types.CategoryUserCache, types.CategoryLogs, types.CategoryTemp}, Callbacks{
		OnProgress: func(p Progress) { fractions = append(fractions, p.Fraction) },
	})

	require.Len(t, fractions, 3)
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestStartScan_SkipsUnavailableTargets(t *testing.T) {
	def, _ := policy.Lookup(types.CategoryTrash)
	unavailable := new(mocks.MockTarget)
	unavailable.On("Definition").Return(def)
	unavailable.On("IsAvailable").Return(false)

	registry := newRegistry(
		unavailable,
		newMockTarget(types.CategoryUserCache, newTestItems(types.CategoryUserCache, types.RiskSafe, 100)),
	)
	o := New(registry)

	scanAndWait(t, o, []types.Category{types.CategoryTrash, types.CategoryUserCache}, Callbacks{})

	assert.Len(t, o.Items(), 1)
	unavailable.AssertNotCalled(t, "Scan", mock.Anything)
}

func TestCancelScan_DiscardsUnfinishedCategories(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	def, _ := policy.Lookup(types.CategoryTemp)
	blocking := new(mocks.MockTarget)
	blocking.On("Definition").Return(def)
	blocking.On("IsAvailable").Return(true)
	blocking.On("Scan", mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&types.ScanResult{Category: types.CategoryTemp, Items: newTestItems(types.CategoryTemp, types.RiskSafe, 999)}, nil)

	registry := newRegistry(
		newMockTarget(types.CategoryUserCache, newTestItems(types.CategoryUserCache, types.RiskSafe, 100)),
		newMockTarget(types.CategoryLogs, newTestItems(types.CategoryLogs, types.RiskMedium, 200)),
		blocking,
	)
	o := New(registry)

	done := make(chan bool, 1)
	o.StartScan([]types.Category{types.CategoryUserCache, types.CategoryLogs, types.CategoryTemp}, Callbacks{
		OnDone: func(cancelled bool) { done <- cancelled },
	})

	<-started
	o.CancelScan()
	close(release)

	select {
	case cancelled := <-done:
		assert.True(t, cancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not finish")
	}

	// The blocking category raced cancellation to completion, but its
	// results must still be discarded.
	for _, item := range o.Items() {
		assert.NotEqual(t, types.CategoryTemp, item.Category)
	}
	assert.Len(t, o.Items(), 2)
	assert.False(t, o.IsScanning())
}

func TestStartScan_ReplacesInFlightScan(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	def, _ := policy.Lookup(types.CategoryTemp)
	blocking := new(mocks.MockTarget)
	blocking.On("Definition").Return(def)
	blocking.On("IsAvailable").Return(true)
	blocking.On("Scan", mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&types.ScanResult{Category: types.CategoryTemp, Items: newTestItems(types.CategoryTemp, types.RiskSafe, 999)}, nil)

	registry := newRegistry(
		blocking,
		newMockTarget(types.CategoryUserCache, newTestItems(types.CategoryUserCache, types.RiskSafe, 100)),
	)
	o := New(registry)

	firstDone := make(chan bool, 1)
	o.StartScan([]types.Category{types.CategoryTemp}, Callbacks{
		OnDone: func(cancelled bool) { firstDone <- cancelled },
	})
	<-started

	// The replacement scan owns the collection from here on.
	cancelled := scanAndWait(t, o, []types.Category{types.CategoryUserCache}, Callbacks{})
	close(release)

	assert.False(t, cancelled)
	items := o.Items()
	require.Len(t, items, 1)
	assert.Equal(t, types.CategoryUserCache, items[0].Category)

	select {
	case <-firstDone:
		t.Fatal("superseded scan must not report completion")
	case <-time.After(100 * time.Millisecond):
	}
}

// --- Selection Tests ---

func seedOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	registry := newRegistry(
		newMockTarget(types.CategoryUserCache, newTestItems(types.CategoryUserCache, types.RiskSafe, 100, 200)),
		newMockTarget(types.CategoryAppSupport, newTestItems(types.CategoryAppSupport, types.RiskHigh, 400)),
	)
	o := New(registry)
	scanAndWait(t, o, []types.Category{types.CategoryUserCache, types.CategoryAppSupport}, Callbacks{})
	return o
}

func TestToggleSelection_FlipsAndReports(t *testing.T) {
	o := seedOrchestrator(t)
	id := o.Items()[0].ID

	assert.True(t, o.ToggleSelection(id))
	assert.True(t, o.Items()[0].Selected)

	assert.True(t, o.ToggleSelection(id))
	assert.False(t, o.Items()[0].Selected)

	assert.False(t, o.ToggleSelection("no-such-id"))
}

func TestSelectAllSafe_SelectsOnlySafeItems(t *testing.T) {
	o := seedOrchestrator(t)
	o.SelectAllSafe()

	selected := o.SelectedItems()
	require.Len(t, selected, 2)
	for _, item := range selected {
		assert.Equal(t, types.RiskSafe, item.Risk)
	}
	assert.Equal(t, int64(300), o.SelectedSize())
}

func TestSelectAllInCategory(t *testing.T) {
	o := seedOrchestrator(t)

	o.SelectAllInCategory(types.CategoryAppSupport, true)
	require.Len(t, o.SelectedItems(), 1)

	o.SelectAllInCategory(types.CategoryAppSupport, false)
	assert.Empty(t, o.SelectedItems())
}

func TestCategoryStats(t *testing.T) {
	o := seedOrchestrator(t)
	stats := o.CategoryStats()

	assert.Equal(t, CategoryStat{Count: 2, Size: 300}, stats[types.CategoryUserCache])
	assert.Equal(t, CategoryStat{Count: 1, Size: 400}, stats[types.CategoryAppSupport])
}

func TestPrune_RemovesByIDAndReindexes(t *testing.T) {
	o := seedOrchestrator(t)
	items := o.Items()
	require.Len(t, items, 3)

	o.Prune([]string{items[0].ID})

	remaining := o.Items()
	require.Len(t, remaining, 2)
	assert.Equal(t, int64(600), o.TotalSize())

	// Selection by ID still works against the reindexed collection.
	assert.True(t, o.ToggleSelection(remaining[1].ID))
	assert.False(t, o.ToggleSelection(items[0].ID), "pruned IDs are gone")
}

func TestItems_ReturnsSnapshotCopy(t *testing.T) {
	o := seedOrchestrator(t)
	snapshot := o.Items()
	snapshot[0].Selected = true

	assert.False(t, o.Items()[0].Selected, "mutating the snapshot must not affect the collection")
}
