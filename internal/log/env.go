package log

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// DebugEnvVar enables debug logging when set to 1, true, or yes.
const DebugEnvVar = "DEBUG"

func InitLoggerFromEnv() {
	if !DebugEnabled(os.Getenv(DebugEnvVar)) {
		return
	}
	slog.SetDefault(slog.New(NewHandler(os.Stderr, slog.LevelDebug)))
	slog.Debug("Logger initialized.")
}

// DebugEnabled returns true if the value of the debug environment variable enables debug logging.
func DebugEnabled(value string) bool {
	debugValues := []string{"1", "true", "yes"}
	return slices.Contains(debugValues, strings.ToLower(strings.TrimSpace(value)))
}

// NewHandler returns a colored tint handler if w is a terminal, otherwise a plain TextHandler.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}
	return NewTextHandler(w, &slog.HandlerOptions{Level: level})
}
