package storepath

import (
	"context"
	"log/slog"
	"time"
)

// Operation names reported in AccessLogEvent.Op.
const (
	OpGet      = "get"
	OpSet      = "set"
	OpRemove   = "remove"
	OpMerge    = "merge"
	OpEvaluate = "evaluate"
)

// AccessLogEvent describes one accessor call.
type AccessLogEvent struct {
	Op       string
	Path     string
	Root     string
	Nested   bool
	Duration time.Duration
	Err      error
	// HookErr carries activity hook failures. They never fail the operation.
	HookErr error
	// Engine and Expr are populated for OpEvaluate.
	Engine string
	Expr   string
}

// AccessLogger records accessor events.
type AccessLogger interface {
	LogAccess(AccessLogEvent)
}

// AccessLoggerFunc adapts a function to AccessLogger.
type AccessLoggerFunc func(AccessLogEvent)

// LogAccess implements AccessLogger.
func (f AccessLoggerFunc) LogAccess(event AccessLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopAccessLogger struct{}

func (noopAccessLogger) LogAccess(AccessLogEvent) {}

// WithAccessLogger attaches an access logger to the Accessor.
func WithAccessLogger(logger AccessLogger) Option {
	return func(cfg *accessorConfig) {
		if logger == nil {
			cfg.logger = noopAccessLogger{}
			return
		}
		cfg.logger = logger
	}
}

// SlogAccessLogger writes access events as structured slog records. Failed
// calls log at warn level, everything else at debug.
func SlogAccessLogger(logger *slog.Logger) AccessLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return AccessLoggerFunc(func(event AccessLogEvent) {
		attrs := []slog.Attr{
			slog.String("op", event.Op),
			slog.String("path", event.Path),
			slog.String("root", event.Root),
			slog.Bool("nested", event.Nested),
			slog.Duration("duration", event.Duration),
		}
		if event.Engine != "" {
			attrs = append(attrs, slog.String("engine", event.Engine), slog.String("expr", event.Expr))
		}
		if event.HookErr != nil {
			attrs = append(attrs, slog.String("hook_error", event.HookErr.Error()))
		}
		level := slog.LevelDebug
		if event.Err != nil {
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("error", event.Err.Error()))
		} else if event.HookErr != nil {
			level = slog.LevelWarn
		}
		logger.LogAttrs(context.Background(), level, "storepath access", attrs...)
	})
}
