// Package logger is a thin zap wrapper that picks request and trace ids out of
// the context.
package logger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "inventory/internal/core/context"
)

// Logger is a zap SugaredLogger; all of its methods are available.
type Logger struct {
	*zap.SugaredLogger
}

// Config selects level, encoder and sinks.
type Config struct {
	// Level is parsed by zapcore; unknown values mean info.
	Level string
	// Development switches to the colored console encoder.
	Development bool
	OutputPaths []string
}

// New builds a logger from cfg.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}

	z, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{z.Sugar()}, nil
}

// NewNop discards everything.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

var fallback atomic.Pointer[Logger]

func init() {
	fallback.Store(NewNop())
}

// SetDefault installs l for contexts that carry no logger.
func SetDefault(l *Logger) {
	if l != nil {
		fallback.Store(l)
	}
}

// WithContext returns l annotated with the trace and request ids in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	tc := appctx.GetTrace(ctx)
	if tc == nil {
		return l
	}
	kv := []any{"trace_id", tc.TraceID}
	if tc.RequestID != "" {
		kv = append(kv, "request_id", tc.RequestID)
	}
	return &Logger{l.SugaredLogger.With(kv...)}
}

type ctxKey struct{}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger in ctx (or the default) with ids attached.
func FromContext(ctx context.Context) *Logger {
	l, ok := ctx.Value(ctxKey{}).(*Logger)
	if !ok {
		l = fallback.Load()
	}
	return l.WithContext(ctx)
}

func Debug(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Debugw(msg, kv...) }
func Info(ctx context.Context, msg string, kv ...any)  { FromContext(ctx).Infow(msg, kv...) }
func Warn(ctx context.Context, msg string, kv ...any)  { FromContext(ctx).Warnw(msg, kv...) }
func Error(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Errorw(msg, kv...) }
