// Package logger is a thin key/value wrapper over zap's sugared logger.
// Secrets are redacted and learner identifiers hashed before they reach
// any sink.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured events. The zero value is not usable; build
// one with New or Nop.
type Logger struct {
	SugaredLogger *zap.SugaredLogger

	salt string
}

// Options tune a logger beyond its mode.
type Options struct {
	// Level is a zap level name; empty means debug in dev and info in prod.
	Level string
	// HashSalt is mixed into hashed identifiers.
	HashSalt string
}

// New returns a logger for mode "dev" (console, colored) or "prod" (JSON).
func New(mode string, opts ...Options) (*Logger, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if o.Level != "" {
		lvl, err := zap.ParseAtomicLevel(o.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		cfg.Level = lvl
	}

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{SugaredLogger: z.Sugar(), salt: o.HashSalt}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, kv ...any) { l.SugaredLogger.Debugw(msg, l.sanitize(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.SugaredLogger.Infow(msg, l.sanitize(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.SugaredLogger.Warnw(msg, l.sanitize(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.SugaredLogger.Errorw(msg, l.sanitize(kv)...) }
func (l *Logger) Fatal(msg string, kv ...any) { l.SugaredLogger.Fatalw(msg, l.sanitize(kv)...) }

// With returns a child logger that always carries kv.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(l.sanitize(kv)...), salt: l.salt}
}

// Desugar exposes the underlying zap logger for libraries that want one.
func (l *Logger) Desugar() *zap.Logger {
	return l.SugaredLogger.Desugar()
}
