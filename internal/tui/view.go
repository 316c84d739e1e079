package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/pistolinkr/Mactaphine/internal/policy"
	"github.com/pistolinkr/Mactaphine/internal/types"
	"github.com/pistolinkr/Mactaphine/internal/utils"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.view {
	case ViewScanning:
		b.WriteString(m.renderScanning())
	case ViewList:
		b.WriteString(m.renderList())
	case ViewConfirm:
		b.WriteString(m.renderConfirm())
	case ViewCleaning:
		b.WriteString(m.renderCleaning())
	case ViewReport:
		b.WriteString(m.renderReport())
	case ViewHistory:
		b.WriteString(m.renderHistory())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := HeaderStyle.Render("Mactaphine")
	if !m.hasDisk {
		return title
	}
	usage := MutedStyle.Render(fmt.Sprintf("  %s free of %s (%.0f%% used)",
		utils.FormatSize(int64(m.disk.Free)),
		utils.FormatSize(int64(m.disk.Total)),
		m.disk.UsedPercent))
	return title + usage
}

func (m *Model) renderScanning() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Scanning", m.spinner.View()))
	if m.scanProgress.Category != "" {
		if def, ok := policy.Lookup(m.scanProgress.Category); ok {
			b.WriteString(MutedStyle.Render(" · " + def.Name))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.bar.View())
	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render(fmt.Sprintf("%d items, %s so far",
		len(m.engine.Items()), utils.FormatSize(m.engine.TotalSize()))))
	return b.String()
}

const maxVisibleRows = 18

func (m *Model) renderList() string {
	items := m.visibleItems()

	var b strings.Builder
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	selected := m.engine.SelectedItems()
	b.WriteString(fmt.Sprintf("%s found · %s selected (%d items)\n",
		SizeStyle.Render(utils.FormatSize(m.engine.TotalSize())),
		SizeStyle.Render(utils.FormatSize(m.engine.SelectedSize())),
		len(selected)))
	if m.safeOnly {
		b.WriteString(SuccessStyle.Render("showing safe items only"))
		b.WriteString("\n")
	}
	b.WriteString(MutedStyle.Render("sort: " + m.sortOrder.Label()))
	b.WriteString("\n")
	if m.width > 0 {
		b.WriteString(Divider(min(m.width, 80)))
		b.WriteString("\n")
	}

	if len(items) == 0 {
		b.WriteString(MutedStyle.Render("nothing to clean"))
		return b.String()
	}

	start := 0
	if m.cursor >= maxVisibleRows {
		start = m.cursor - maxVisibleRows + 1
	}
	end := min(start+maxVisibleRows, len(items))

	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(items[i], i == m.cursor))
		b.WriteString("\n")
	}
	if end < len(items) {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("… %d more", len(items)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderRow(item types.CleanupItem, cursor bool) string {
	check := "[ ]"
	if item.Selected {
		check = SelectedStyle.Render("[x]")
	}
	pointer := "  "
	if cursor {
		pointer = CursorStyle.Render("> ")
	}

	risk := riskStyle(item.Risk.String()).Render(fmt.Sprintf("%-6s", item.Risk))
	size := SizeStyle.Render(fmt.Sprintf("%9s", utils.FormatSize(item.Size)))
	age := MutedStyle.Render(fmt.Sprintf("%4s", utils.FormatAge(item.ModifiedAt)))
	cat := MutedStyle.Render(fmt.Sprintf("%-12s", item.Category))

	name := item.Name
	if cursor {
		name = CursorStyle.Render(name)
	}
	return fmt.Sprintf("%s%s %s %s %s %s %s", pointer, check, risk, size, age, cat, name)
}

func (m *Model) renderConfirm() string {
	selected := m.engine.SelectedItems()
	est := m.engine.EstimatedDuration()

	var b strings.Builder
	b.WriteString(WarningStyle.Render("Delete the selected items?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %d items, %s, about %s\n",
		len(selected),
		utils.FormatSize(m.engine.SelectedSize()),
		est.Round(100*time.Millisecond).String()))
	if m.engine.Settings().CreateBackup {
		b.WriteString(MutedStyle.Render("  at-risk items are snapshotted first"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(SuccessStyle.Render("  y") + " confirm   " + DangerStyle.Render("n") + " cancel")
	return b.String()
}

func (m *Model) renderCleaning() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Cleaning", m.spinner.View()))
	if m.cleanStatus.CurrentItem != "" {
		b.WriteString(MutedStyle.Render(" · " + m.cleanStatus.CurrentItem))
	}
	b.WriteString("\n\n")
	b.WriteString(m.bar.View())
	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render(fmt.Sprintf("%d / %d", m.cleanStatus.Completed, m.cleanStatus.Total)))
	return b.String()
}

func (m *Model) renderReport() string {
	r := m.report
	if r == nil {
		return MutedStyle.Render("no report")
	}

	var b strings.Builder
	if r.Status == types.RunCancelled {
		b.WriteString(WarningStyle.Render("Cleanup cancelled"))
	} else {
		b.WriteString(SuccessStyle.Render("Cleanup complete"))
	}
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  reclaimed  %s\n", SizeStyle.Render(utils.FormatSize(r.Reclaimed))))
	b.WriteString(fmt.Sprintf("  processed  %d\n", r.ItemsProcessed))
	b.WriteString(fmt.Sprintf("  succeeded  %s\n", SuccessStyle.Render(fmt.Sprintf("%d", r.Succeeded))))
	b.WriteString(fmt.Sprintf("  failed     %s\n", DangerStyle.Render(fmt.Sprintf("%d", r.Failed))))
	b.WriteString(fmt.Sprintf("  elapsed    %s\n", r.Elapsed.Round(100*time.Millisecond)))
	if r.BackupCreated {
		b.WriteString(fmt.Sprintf("  backup     %s\n", MutedStyle.Render(r.BackupPath)))
	}

	if len(r.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(DangerStyle.Render("errors:"))
		b.WriteString("\n")
		for i, ie := range r.Errors {
			if i >= 8 {
				b.WriteString(MutedStyle.Render(fmt.Sprintf("  … %d more", len(r.Errors)-i)))
				b.WriteString("\n")
				break
			}
			b.WriteString(fmt.Sprintf("  %s %s: %v\n",
				DangerStyle.Render(string(ie.Kind)), ie.Item.Name, ie.Err))
		}
	}
	return b.String()
}

func (m *Model) renderHistory() string {
	log := m.engine.History()
	entries := log.Entries()

	var b strings.Builder
	b.WriteString(TextStyle.Render("Cleanup history"))
	b.WriteString("\n\n")
	if len(entries) == 0 {
		b.WriteString(MutedStyle.Render("no runs recorded yet"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  total saved   %s\n", SizeStyle.Render(utils.FormatSize(log.TotalSaved()))))
	b.WriteString(fmt.Sprintf("  average run   %s\n", utils.FormatSize(log.AverageSize())))
	b.WriteString(fmt.Sprintf("  frequency     %s\n", log.Frequency()))
	b.WriteString(fmt.Sprintf("  safe-only     %.0f%%\n", log.SafetyRatio()*100))
	b.WriteString("\n")

	for i, e := range entries {
		if i >= 10 {
			b.WriteString(MutedStyle.Render(fmt.Sprintf("  … %d more", len(entries)-i)))
			break
		}
		b.WriteString(fmt.Sprintf("  %s  %3d items  %9s  %s\n",
			e.Date.Format("2006-01-02 15:04"),
			e.ItemCount,
			utils.FormatSize(e.TotalSize),
			MutedStyle.Render(strings.Join(e.Categories, ", "))))
	}
	return b.String()
}

func (m *Model) renderHelp() string {
	switch m.view {
	case ViewScanning:
		return HelpStyle.Render("esc cancel · q quit")
	case ViewList:
		return HelpStyle.Render("space select · a safe · A/n category · c clean · s sort · f safe-only · / filter · r rescan · h history · q quit")
	case ViewCleaning:
		return HelpStyle.Render("esc cancel")
	case ViewReport, ViewHistory:
		return HelpStyle.Render("enter back · r rescan · q quit")
	default:
		return ""
	}
}
