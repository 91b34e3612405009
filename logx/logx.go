// Package logx builds the process logger from configuration and carries it
// through contexts.
package logx

import (
	"context"
	"io"
	"strings"

	"pkt.systems/pslog"

	"github.com/lixenwraith/cellframe/config"
)

// New returns a logger writing to w with the configured format and level
func New(cfg config.LoggingConfig, w io.Writer) pslog.Logger {
	opts := pslog.Options{
		Mode:     pslog.ModeConsole,
		MinLevel: pslog.InfoLevel,
	}
	if cfg.Format == "json" {
		opts.Mode = pslog.ModeStructured
		opts.NoColor = true
		opts.VerboseFields = true
	}

	switch strings.ToLower(cfg.Level) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	}
	return pslog.NewWithOptions(w, opts)
}

// Discard returns a logger that drops everything
func Discard() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured, MinLevel: pslog.ErrorLevel})
}

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithContext attaches log to ctx.
func WithContext(ctx context.Context, log pslog.Logger) context.Context {
	return pslog.ContextWithLogger(ctx, log)
}

// WithSession annotates the logger with a session id when available.
func WithSession(log pslog.Logger, sessionID string) pslog.Logger {
	if sessionID != "" {
		log = log.With("session", sessionID)
	}
	return log
}
