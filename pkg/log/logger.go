package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// SetupLogger installs a JSON slog default logger at the given level and aligns
// the zerolog provider with it. Command-line tools call it once at start-up.
func SetupLogger(loglevel string) error {
	return SetupLoggerTo(os.Stderr, loglevel)
}

// SetupLoggerTo is SetupLogger with an explicit destination.
func SetupLoggerTo(w io.Writer, loglevel string) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}
	ops := slog.HandlerOptions{
		AddSource: level <= LevelDebug,
		Level:     slog.Level(level),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr.Key = "severity"
			case slog.MessageKey:
				attr.Key = "message"
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))

	SetProvider(NewZerologProvider(w, level))
	return nil
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a Level.
// Booleans used by the estimator's verbose flag map to info (true) and warn (false).
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "true":
		return LevelInfo, nil
	case "warn", "warning", "false":
		return LevelWarn, nil
	case "error", "critical":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValidationError("verbose", "must be one of debug, info, warn, error", level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
