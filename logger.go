package kdalloc

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with kdalloc-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithAddress adds an address field to the logger.
func (l *Logger) WithAddress(addr uintptr) *Logger {
	return &Logger{
		Logger: l.Logger.With("addr", hexAddr(addr)),
	}
}

// WithSize adds raw and human-readable size fields to the logger.
func (l *Logger) WithSize(size uintptr) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.Group("size", sizeAttrs(size)...)),
	}
}

// LogMap logs a construction attempt. requested is 0 when the OS chose.
func (l *Logger) LogMap(requested, addr, size uintptr, err error) {
	if err != nil {
		l.Warn("map failed",
			"requested", hexAddr(requested),
			slog.Group("size", sizeAttrs(size)...),
			"error", err,
		)
		return
	}
	l.Debug("mapped",
		"requested", hexAddr(requested),
		"addr", hexAddr(addr),
		slog.Group("size", sizeAttrs(size)...),
	)
}

// LogUnmap logs a release.
func (l *Logger) LogUnmap(addr, size uintptr) {
	l.Debug("unmapped",
		"addr", hexAddr(addr),
		slog.Group("size", sizeAttrs(size)...),
	)
}

// LogClear logs a content reset.
func (l *Logger) LogClear(addr, size uintptr, inPlace bool) {
	l.Debug("cleared",
		"addr", hexAddr(addr),
		slog.Group("size", sizeAttrs(size)...),
		"in_place", inPlace,
	)
}

// LogIntegrity logs a fatal integrity violation right before the panic.
func (l *Logger) LogIntegrity(e *IntegrityError) {
	l.Error("integrity violation",
		"op", e.Op,
		"addr", hexAddr(e.Addr),
		slog.Group("size", sizeAttrs(e.Size)...),
		"error", e.Err,
	)
}

func sizeAttrs(size uintptr) []any {
	return []any{
		"bytes", uint64(size),
		"human", humanize.IBytes(uint64(size)),
	}
}

type hexAddr uintptr

func (a hexAddr) LogValue() slog.Value {
	if a == 0 {
		return slog.StringValue("any")
	}
	return slog.StringValue("0x" + strconv.FormatUint(uint64(a), 16))
}
