package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sandeepkv93/studyd/internal/config"
)

// New builds the application logger. The terminal belongs to the TUI, so
// output goes to cfg.LogFile or nowhere. The returned closer releases the
// file.
func New(cfg config.Config) (zerolog.Logger, io.Closer, error) {
	zerolog.TimestampFieldName = "timestamp"

	level, err := levelFor(cfg)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	path := strings.TrimSpace(cfg.LogFile)
	if path == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}

	var w io.Writer = f
	if cfg.Env == config.EnvLocal {
		cw := zerolog.NewConsoleWriter()
		cw.Out = f
		cw.NoColor = true
		cw.TimeFormat = time.DateTime
		w = cw
	}
	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
	logger.Info().Str("env", cfg.Env).Str("level", level.String()).Msg("initialized application logger")
	return logger, f, nil
}

func levelFor(cfg config.Config) (zerolog.Level, error) {
	if raw := strings.TrimSpace(cfg.LogLevel); raw != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return zerolog.NoLevel, fmt.Errorf("parse log level: %w", err)
		}
		return lvl, nil
	}
	switch cfg.Env {
	case config.EnvLocal:
		return zerolog.TraceLevel, nil
	case config.EnvDev:
		return zerolog.DebugLevel, nil
	default:
		return zerolog.InfoLevel, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Gorm routes gorm's statement log into l at warn level and above.
func Gorm(l zerolog.Logger) gormlogger.Interface {
	return gormlogger.New(
		stdlog.New(l.With().Str("component", "gorm").Logger(), "", 0),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
