package cli

import (
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"
)

const defaultReportWidth = 100

// reportWidth returns the usable terminal width, preferring COLUMNS so
// output stays stable when piped through pagers.
func reportWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 20 {
			return min(n, defaultReportWidth)
		}
	}
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err == nil && ws.Col > 20 {
		return min(int(ws.Col), defaultReportWidth)
	}
	return defaultReportWidth
}

func truncateText(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	for lipgloss.Width(s) > width-1 && len(s) > 0 {
		s = s[:len(s)-1]
	}
	return s + "…"
}
