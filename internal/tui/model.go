// Package tui is the terminal shell over the cleanup engine. It only
// reads published engine state and flips selections through the exposed
// mutators; all filesystem work stays on the engine's goroutines.
package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pistolinkr/Mactaphine/internal/cleaner"
	"github.com/pistolinkr/Mactaphine/internal/diskinfo"
	"github.com/pistolinkr/Mactaphine/internal/engine"
	"github.com/pistolinkr/Mactaphine/internal/scanner"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

type View int

const (
	ViewScanning View = iota
	ViewList
	ViewConfirm
	ViewCleaning
	ViewReport
	ViewHistory
)

// Engine events forwarded onto the bubbletea loop.
type (
	scanProgressMsg scanner.Progress
	scanDoneMsg     struct{ cancelled bool }
	cleanStatusMsg  cleaner.Status
	cleanDoneMsg    struct{ report *types.CleanupRunReport }
)

type Model struct {
	engine *engine.Engine

	view   View
	width  int
	height int
	cursor int
	scroll int

	spinner spinner.Model
	bar     progress.Model
	search  textinput.Model

	searching bool
	safeOnly  bool
	sortOrder types.SortOrder

	scanProgress scanner.Progress
	cleanStatus  cleaner.Status
	report       *types.CleanupRunReport
	disk         diskinfo.Summary
	hasDisk      bool

	// events carries engine callbacks onto the update loop.
	events chan tea.Msg
}

func NewModel(eng *engine.Engine) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	bar := progress.New(progress.WithDefaultGradient())

	search := textinput.New()
	search.Placeholder = "filter by name or path"
	search.CharLimit = 64

	m := &Model{
		engine:    eng,
		view:      ViewScanning,
		spinner:   s,
		bar:       bar,
		search:    search,
		sortOrder: types.SortBySize,
		events:    make(chan tea.Msg, 64),
	}
	if usage, err := diskinfo.Usage("/"); err == nil {
		m.disk = usage
		m.hasDisk = true
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startScan(), m.waitEvent())
}

// waitEvent blocks on the next engine event.
func (m *Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *Model) startScan() tea.Cmd {
	return func() tea.Msg {
		m.engine.StartScan(scanner.Callbacks{
			OnProgress: func(p scanner.Progress) {
				m.events <- scanProgressMsg(p)
			},
			OnDone: func(cancelled bool) {
				m.events <- scanDoneMsg{cancelled: cancelled}
			},
		})
		return nil
	}
}

func (m *Model) startCleanup() tea.Cmd {
	return func() tea.Msg {
		err := m.engine.Cleanup(m.engine.Settings().CreateBackup, cleaner.Callbacks{
			OnProgress: func(s cleaner.Status) {
				m.events <- cleanStatusMsg(s)
			},
			OnDone: func(r *types.CleanupRunReport) {
				m.events <- cleanDoneMsg{report: r}
			},
		})
		if err != nil {
			return cleanDoneMsg{report: nil}
		}
		return nil
	}
}

// visibleItems is the filtered, sorted view the list renders.
func (m *Model) visibleItems() []types.CleanupItem {
	return m.engine.Filtered(m.search.Value(), m.safeOnly, m.sortOrder)
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
