package fsops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const trashTimeout = 30 * time.Second

// MoveToTrash moves a file or directory to the macOS Trash via Finder.
// On other platforms, or when Finder is unavailable, it falls back to
// permanent deletion.
func (o *OS) MoveToTrash(path string) error {
	if runtime.GOOS != "darwin" {
		return o.RemoveAll(path)
	}

	escaped, err := escapeForAppleScript(path)
	if err != nil {
		return fmt.Errorf("move to trash: invalid path: %w", err)
	}

	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file "%s"`, escaped)
	ctx, cancel := context.WithTimeout(context.Background(), trashTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("move to trash timeout: %s", path)
		}
		// osascript missing or Finder refused; fall back to hard delete.
		if errors.Is(err, exec.ErrNotFound) {
			return o.RemoveAll(path)
		}
		return fmt.Errorf("move to trash: %s: %w", path, err)
	}
	return nil
}

// escapeForAppleScript escapes a path for embedding in an AppleScript
// string literal. Control characters are rejected outright.
func escapeForAppleScript(path string) (string, error) {
	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("control character in path: %q", path)
		}
	}
	escaped := strings.ReplaceAll(path, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return escaped, nil
}

// IsNotExist reports whether err means the target was already gone.
func IsNotExist(err error) bool {
	return err != nil && errors.Is(err, os.ErrNotExist)
}

// IsPermission reports whether err is an OS permission refusal.
func IsPermission(err error) bool {
	return err != nil && errors.Is(err, os.ErrPermission)
}
