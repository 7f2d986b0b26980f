package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	glmerrors "github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger returns a JSON logger writing to w at the given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &ZerologLogger{logger: zl}
}

// Debug implements Logger.Debug.
func (z *ZerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.logger.Debug(), msg, fields)
}

// Info implements Logger.Info.
func (z *ZerologLogger) Info(msg string, fields ...any) {
	z.emit(z.logger.Info(), msg, fields)
}

// Warn implements Logger.Warn.
func (z *ZerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.logger.Warn(), msg, fields)
}

// Error implements Logger.Error. A leading error field is attached with Err and,
// when it carries structured detail, as an "error_detail" object.
func (z *ZerologLogger) Error(msg string, fields ...any) {
	e := z.logger.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			e = withError(e, err)
			fields = fields[1:]
		}
	}
	z.emit(e, msg, fields)
}

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{logger: z.logger.With().Fields(normalizeFields(fields)).Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return z.logger.GetLevel() <= toZerologLevel(level)
}

func (z *ZerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	e.Fields(normalizeFields(fields)).Msg(msg)
}

func withError(e *zerolog.Event, err error) *zerolog.Event {
	e = e.Err(err)
	var detail zerolog.LogObjectMarshaler
	if glmerrors.As(err, &detail) {
		e = e.Object("error_detail", detail)
	}
	return e
}

// normalizeFields turns alternating key/value pairs into a map, stringifying
// keys and flattening error values to their message.
func normalizeFields(fields []any) map[string]interface{} {
	m := make(map[string]interface{}, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		if err, ok := fields[i+1].(error); ok {
			m[key] = err.Error()
			continue
		}
		m[key] = fields[i+1]
	}
	return m
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ZerologProvider is the default LoggerProvider.
type ZerologProvider struct {
	mu     sync.RWMutex
	out    io.Writer
	level  Level
	logger *ZerologLogger
}

// NewZerologProvider creates a provider writing to out.
func NewZerologProvider(out io.Writer, level Level) *ZerologProvider {
	return &ZerologProvider{
		out:    out,
		level:  level,
		logger: NewZerologLogger(out, level),
	}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.logger
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.logger = NewZerologLogger(p.out, level)
}

// SetOutput redirects all loggers subsequently obtained from the provider.
func (p *ZerologProvider) SetOutput(out io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = out
	p.logger = NewZerologLogger(out, p.level)
}

var (
	providerMu sync.RWMutex
	provider   LoggerProvider = NewZerologProvider(os.Stderr, LevelInfo)
)

func init() {
	// Route pkg/errors.Warn through the structured logger.
	glmerrors.SetZerologWarnFunc(func(w error) {
		GetLoggerWithName("warnings").Warn(w.Error(), ErrorTypeKey, fmt.Sprintf("%T", w))
	})
}

// SetProvider installs the provider used by GetLogger and GetLoggerWithName.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

// GetLogger returns the default logger of the installed provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLogger()
}

// GetLoggerWithName returns a component logger from the installed provider.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLoggerWithName(name)
}

// SetLevel sets the minimum level of the installed provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	provider.SetLevel(level)
}
