// Package logging sets up the process-wide file logger. The TUI owns the
// terminal, so diagnostics never go to stdout/stderr; they go to a JSON log
// file under the config directory.
package logging

import (
	"log/slog"
	"os"
	"path/filepath"

	"smartdoc-admin/internal/store"
)

// EnvLogPath overrides the log file location. Setting it to the empty string
// disables file logging entirely.
const EnvLogPath = "SMARTDOC_ADMIN_LOG"

const logFileName = "smartdoc-admin.log"

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Open resolves the log destination and returns a JSON logger plus a close
// func for the underlying file. The returned logger is always usable: when
// logging is disabled, or the file cannot be opened, it discards (the open
// error is still returned so callers can surface it once).
func Open() (*slog.Logger, func() error, error) {
	path, enabled, err := resolvePath()
	if err != nil || !enabled {
		return Discard(), func() error { return nil }, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Discard(), func() error { return nil }, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return Discard(), func() error { return nil }, err
	}

	log := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return log, f.Close, nil
}

func resolvePath() (string, bool, error) {
	if v, set := os.LookupEnv(EnvLogPath); set {
		if v == "" {
			return "", false, nil
		}
		return v, true, nil
	}
	dir, err := store.ConfigDir()
	if err != nil {
		return "", false, err
	}
	return filepath.Join(dir, "logs", logFileName), true, nil
}
