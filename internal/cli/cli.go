// Package cli implements the headless clean mode: scan, auto-select safe
// items, confirm, clean, print a report. Used when stdout is not a
// terminal or when the clean subcommand is invoked directly.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pistolinkr/Mactaphine/internal/cleaner"
	"github.com/pistolinkr/Mactaphine/internal/diskinfo"
	"github.com/pistolinkr/Mactaphine/internal/engine"
	"github.com/pistolinkr/Mactaphine/internal/policy"
	"github.com/pistolinkr/Mactaphine/internal/scanner"
	"github.com/pistolinkr/Mactaphine/internal/types"
	"github.com/pistolinkr/Mactaphine/internal/utils"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sizeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// Options controls one headless run.
type Options struct {
	Yes      bool // skip the confirmation prompt
	SafeOnly bool // select only safe-risk items
	NoBackup bool
}

// Run executes the headless clean flow end to end.
func Run(eng *engine.Engine, opts Options) error {
	fmt.Printf("%s\n\n", titleStyle.Render("mactaphine clean"))

	if usage, err := diskinfo.Usage("/"); err == nil {
		fmt.Printf("%s\n\n", mutedStyle.Render(fmt.Sprintf("%s free of %s",
			utils.FormatSize(int64(usage.Free)), utils.FormatSize(int64(usage.Total)))))
	}

	if err := scanAndWait(eng); err != nil {
		return err
	}

	eng.SelectAllSafe()
	if !opts.SafeOnly {
		for _, cat := range eng.Settings().ActiveCategories {
			if policy.DefaultRisk(cat) == types.RiskMedium {
				eng.SelectAllInCategory(cat, true)
			}
		}
	}

	selected := eng.SelectedItems()
	if len(selected) == 0 {
		fmt.Println(mutedStyle.Render("nothing to clean"))
		return nil
	}

	printSelection(selected)
	fmt.Printf("\n%s selected, estimated %s\n",
		sizeStyle.Render(utils.FormatSize(eng.SelectedSize())),
		eng.EstimatedDuration().Round(time.Second))

	if !opts.Yes && !confirm() {
		fmt.Println("aborted")
		return nil
	}

	report, err := cleanAndWait(eng, !opts.NoBackup && eng.Settings().CreateBackup)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

func scanAndWait(eng *engine.Engine) error {
	var wg sync.WaitGroup
	wg.Add(1)
	eng.StartScan(scanner.Callbacks{
		OnProgress: func(p scanner.Progress) {
			if def, ok := policy.Lookup(p.Category); ok {
				fmt.Printf("  %s %s\n", mutedStyle.Render(fmt.Sprintf("[%d/%d]", p.Completed, p.Total)), def.Name)
			}
		},
		OnDone: func(bool) { wg.Done() },
	})
	wg.Wait()
	fmt.Printf("\nfound %d items, %s\n\n", len(eng.Items()), sizeStyle.Render(utils.FormatSize(eng.TotalSize())))
	return nil
}

func cleanAndWait(eng *engine.Engine, backup bool) (*types.CleanupRunReport, error) {
	done := make(chan *types.CleanupRunReport, 1)
	err := eng.Cleanup(backup, cleaner.Callbacks{
		OnItemDone: func(item types.CleanupItem, err error) {
			if err != nil {
				fmt.Printf("  %s %s: %v\n", dangerStyle.Render("✗"), item.Name, err)
			} else {
				fmt.Printf("  %s %s (%s)\n", successStyle.Render("✓"), item.Name, utils.FormatSize(item.Size))
			}
		},
		OnDone: func(r *types.CleanupRunReport) { done <- r },
	})
	if err != nil {
		return nil, err
	}
	return <-done, nil
}

func printSelection(items []types.CleanupItem) {
	width := reportWidth()
	for _, item := range items {
		risk := item.Risk.String()
		style := successStyle
		switch item.Risk {
		case types.RiskMedium:
			style = warningStyle
		case types.RiskHigh:
			style = dangerStyle
		}
		line := fmt.Sprintf("  %s %9s  %s", style.Render(fmt.Sprintf("%-6s", risk)),
			utils.FormatSize(item.Size), item.Path)
		fmt.Println(truncateText(line, width))
	}
}

func printReport(r *types.CleanupRunReport) {
	fmt.Println()
	if r.Status == types.RunCancelled {
		fmt.Println(warningStyle.Render("cleanup cancelled"))
	} else {
		fmt.Println(successStyle.Render("cleanup complete"))
	}
	fmt.Printf("  reclaimed %s in %s (%d ok, %d failed)\n",
		sizeStyle.Render(utils.FormatSize(r.Reclaimed)),
		r.Elapsed.Round(100*time.Millisecond), r.Succeeded, r.Failed)
	if r.BackupCreated {
		fmt.Printf("  backup: %s\n", mutedStyle.Render(r.BackupPath))
	}
	for _, ie := range r.Errors {
		fmt.Printf("  %s %s: %v\n", dangerStyle.Render(string(ie.Kind)), ie.Item.Path, ie.Err)
	}
}

func confirm() bool {
	fmt.Print("proceed? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
