package application

import (
	"io"
	"log/slog"
)

// ResolveLogger returns the provided logger or a no-op fallback so use cases
// can log without nil checks.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
