// Package observability builds the process logger and the child loggers
// that tag entries with the combat session they belong to.
package observability

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/corsair/internal/config"
)

// LoggerName prefixes every logger built here.
const LoggerName = "corsair"

// NewLogger builds the process logger writing to stderr.
//
// Precondition: cfg must pass config validation.
// Postcondition: returns a non-nil logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	return NewLoggerTo(cfg, zapcore.Lock(os.Stderr))
}

// NewLoggerTo builds a logger writing entries at or above cfg.Level to w.
// The json format carries caller and error stack traces; the console format
// is the development layout.
func NewLoggerTo(cfg config.LoggingConfig, w zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("observability.NewLogger: level %q: %w", cfg.Level, err)
	}
	enc, err := encoderFor(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("observability.NewLogger: %w", err)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Format == "console" {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewCore(enc, w, level), opts...).Named(LoggerName), nil
}

func encoderFor(format string) (zapcore.Encoder, error) {
	switch format {
	case "json":
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeDuration = zapcore.StringDurationEncoder
		return zapcore.NewJSONEncoder(ec), nil
	case "console":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(ec), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// ForSession returns a child of logger that tags every entry with the
// combat session id.
//
// Postcondition: a nil logger yields a no-op logger.
func ForSession(logger *zap.Logger, id uuid.UUID) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.With(zap.Stringer("session_id", id))
}
