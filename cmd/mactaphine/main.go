package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pistolinkr/Mactaphine/internal/cli"
	"github.com/pistolinkr/Mactaphine/internal/engine"
	"github.com/pistolinkr/Mactaphine/internal/fsops"
	"github.com/pistolinkr/Mactaphine/internal/history"
	"github.com/pistolinkr/Mactaphine/internal/logger"
	"github.com/pistolinkr/Mactaphine/internal/settings"
	"github.com/pistolinkr/Mactaphine/internal/tui"
	"github.com/pistolinkr/Mactaphine/internal/utils"
	"github.com/pistolinkr/Mactaphine/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:     "mactaphine",
		Short:   "Scan and clean reclaimable disk space on macOS",
		Version: fmt.Sprintf("%s (%s)", version.Version, version.Commit),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := logger.Init(debug); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return cli.Run(eng, cli.Options{Yes: true, SafeOnly: true})
			}
			p := tea.NewProgram(tui.NewModel(eng), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.AddCommand(newCleanCmd(), newHistoryCmd())
	return root
}

func newCleanCmd() *cobra.Command {
	var opts cli.Options

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Run a scan and cleanup without the TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			return cli.Run(eng, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.SafeOnly, "safe-only", false, "Clean only safe-risk items")
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "Skip the pre-cleanup backup")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show past cleanup runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			hist := history.Open(history.DefaultPath())
			entries := hist.Entries()
			if len(entries) == 0 {
				fmt.Println("no cleanup history yet")
				return nil
			}
			fmt.Printf("total saved: %s  average: %s  frequency: %s\n\n",
				utils.FormatSize(hist.TotalSaved()),
				utils.FormatSize(hist.AverageSize()),
				hist.Frequency())
			for _, e := range entries {
				fmt.Printf("  %s  %4d items  %9s\n",
					e.Date.Format("2006-01-02 15:04"), e.ItemCount, utils.FormatSize(e.TotalSize))
			}
			return nil
		},
	}
}

func buildEngine() (*engine.Engine, error) {
	st, err := settings.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load settings: %v\n", err)
		st = settings.Default()
	}
	hist := history.Open(history.DefaultPath())
	return engine.New(fsops.NewOS(), st, hist), nil
}
