package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pistolinkr/Mactaphine/internal/cleaner"
	"github.com/pistolinkr/Mactaphine/internal/scanner"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 8
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case scanProgressMsg:
		m.scanProgress = scanner.Progress(msg)
		return m, tea.Batch(m.bar.SetPercent(msg.Fraction), m.waitEvent())

	case scanDoneMsg:
		m.view = ViewList
		m.cursor = 0
		return m, m.waitEvent()

	case cleanStatusMsg:
		m.cleanStatus = cleaner.Status(msg)
		return m, tea.Batch(m.bar.SetPercent(msg.Fraction), m.waitEvent())

	case cleanDoneMsg:
		m.report = msg.report
		if m.report == nil {
			// Cleanup was rejected while busy; stay on the list.
			m.view = ViewList
		} else {
			m.view = ViewReport
		}
		return m, m.waitEvent()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The search field swallows everything except escape and enter.
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			return m, nil
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.clampCursor(len(m.visibleItems()))
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.view == ViewCleaning {
			m.engine.CancelCleanup()
			return m, nil
		}
		m.engine.CancelScan()
		return m, tea.Quit
	}

	switch m.view {
	case ViewScanning:
		return m.handleScanningKey(msg)
	case ViewList:
		return m.handleListKey(msg)
	case ViewConfirm:
		return m.handleConfirmKey(msg)
	case ViewCleaning:
		if msg.String() == "esc" {
			m.engine.CancelCleanup()
		}
		return m, nil
	case ViewReport, ViewHistory:
		return m.handleDoneKey(msg)
	}
	return m, nil
}

func (m *Model) handleScanningKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.engine.CancelScan()
		m.view = ViewList
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visibleItems()

	switch msg.String() {
	case "up", "k":
		m.cursor--
		m.clampCursor(len(items))
	case "down", "j":
		m.cursor++
		m.clampCursor(len(items))
	case " ":
		if m.cursor < len(items) {
			m.engine.ToggleSelection(items[m.cursor].ID)
		}
	case "a":
		m.engine.SelectAllSafe()
	case "A":
		if m.cursor < len(items) {
			m.engine.SelectAllInCategory(items[m.cursor].Category, true)
		}
	case "n":
		if m.cursor < len(items) {
			m.engine.SelectAllInCategory(items[m.cursor].Category, false)
		}
	case "s":
		m.sortOrder = m.sortOrder.Next()
	case "f":
		m.safeOnly = !m.safeOnly
		m.clampCursor(len(m.visibleItems()))
	case "/":
		m.searching = true
		m.search.Focus()
		return m, nil
	case "r":
		m.view = ViewScanning
		m.scanProgress.Fraction = 0
		return m, tea.Batch(m.startScan(), m.bar.SetPercent(0))
	case "h":
		m.view = ViewHistory
	case "c", "enter":
		if len(m.engine.SelectedItems()) == 0 {
			return m, nil
		}
		if m.engine.Settings().ConfirmBeforeDelete {
			m.view = ViewConfirm
			return m, nil
		}
		m.view = ViewCleaning
		return m, m.startCleanup()
	}
	return m, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.view = ViewCleaning
		return m, m.startCleanup()
	case "n", "esc":
		m.view = ViewList
	}
	return m, nil
}

func (m *Model) handleDoneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.view = ViewList
		m.clampCursor(len(m.visibleItems()))
	case "r":
		m.view = ViewScanning
		return m, tea.Batch(m.startScan(), m.bar.SetPercent(0))
	}
	return m, nil
}
