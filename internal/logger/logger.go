// Package logger provides file-based structured logging so log output
// never corrupts the terminal shell.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configDir = filepath.Join(os.Getenv("HOME"), ".config", "mactaphine")
	writer    io.Closer
	Log       = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// Init initializes the logger.
// - debug=true: logs all levels (DEBUG+) to file
// - debug=false: logs WARN/ERROR only to file
func Init(debug bool) error {
	if writer != nil {
		writer.Close()
		writer = nil
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(configDir, "mactaphine.log"),
		MaxSize:    5, // MB
		MaxBackups: 3,
	}
	writer = w

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	Log = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

func Debug(msg string, args ...any) { Log.Debug(msg, args...) }
func Info(msg string, args ...any)  { Log.Info(msg, args...) }
func Warn(msg string, args ...any)  { Log.Warn(msg, args...) }
func Error(msg string, args ...any) { Log.Error(msg, args...) }

func Close() {
	if writer != nil {
		writer.Close()
		writer = nil
	}
}
