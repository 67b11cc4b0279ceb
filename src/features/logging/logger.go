package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lrclib/lrclib-go/src/features/config"
)

// SetupLogger builds the application's slog.Logger from the charmbracelet/log
// handler, honoring cfg.Logger.Format/Level.
func SetupLogger(cfg *config.Manager) *slog.Logger {
	var formatter log.Formatter
	switch cfg.Get().Logger.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		formatter = log.TextFormatter
	}

	level := log.InfoLevel
	switch cfg.Get().Logger.Level {
	case "debug":
		level = log.DebugLevel
	case "warn":
		level = log.WarnLevel
	case "error":
		level = log.ErrorLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "lrclib",
		Formatter:       formatter,
		Level:           level,
	})

	logger := slog.New(handler)
	logger.Info("logger initialized", "time", time.Now().Format(time.RFC3339))
	return logger
}
