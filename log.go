package greenmoon

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

var logLevel = new(slog.LevelVar)

var logger = newLogger()

func newLogger() *slog.Logger {
	logLevel.Set(slog.LevelInfo)
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.TimeOnly,
	})).With("pkg", "greenmoon")
}

// SetLogger replaces the package logger. Passing nil restores the default
// tint handler on stderr.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newLogger()
	}
	logger = l
}

// Logger returns the package logger.
func Logger() *slog.Logger { return logger }

// SetLogLevel sets the level of the default logger from a name
// ("debug", "info", "warn", "error"). Unknown names select info.
func SetLogLevel(name string) {
	switch strings.ToLower(name) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
	}
}
