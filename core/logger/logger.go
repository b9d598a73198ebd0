package logger

import (
	"errors"
	"fmt"

	"clinic-desk/core/database"
	"clinic-desk/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Level "debug" switches to the development
// preset; any other level uses the production preset at that level.
func New(cfg *Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		parsed, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	config := zap.NewProductionConfig()
	if level.Level() == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = level

	switch cfg.Format {
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	case "json", "":
		config.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if rid := rayid.Get(c); rid != "" {
		return l.With(zap.String("ray_id", rid))
	}
	return l
}

// Visit returns the fields identifying one patient visit.
func Visit(pcode int64, visitDate string) []zap.Field {
	return []zap.Field{
		zap.Int64("pcode", pcode),
		zap.String("visit_date", visitDate),
	}
}

// Store returns err plus the op, store, table and key it carries when it
// wraps a database.StoreError.
func Store(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	var se *database.StoreError
	if !errors.As(err, &se) {
		return fields
	}
	fields = append(fields,
		zap.String("op", se.Op),
		zap.String("store", string(se.Store)))
	if se.Table != "" {
		fields = append(fields, zap.String("table", se.Table))
	}
	if se.Key != "" {
		fields = append(fields, zap.String("key", se.Key))
	}
	return fields
}
