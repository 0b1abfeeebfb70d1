// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the logger the request middleware stored in the context, so
// every line written while serving a request carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "product_id", id)
//	// → time=... level=INFO msg="product created" request_id=a1b2c3d4 product_id=7
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/beautydb/backoffice/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var L *slog.Logger

func init() {
	L = New(output(config.LogFile()), config.AppEnv())
	slog.SetDefault(L)
}

// New builds a logger writing to w. Production environments get JSON,
// everything else gets the human-readable text handler.
func New(w io.Writer, env string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	return slog.New(handler)
}

// output returns stdout, or a size-rotated file when LOG_FILE is set.
func output(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    64, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// SetOutput swaps the base logger. Tests use it to capture output.
func SetOutput(w io.Writer) {
	L = New(w, config.AppEnv())
	slog.SetDefault(L)
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
