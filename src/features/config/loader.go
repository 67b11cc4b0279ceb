package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from path, applies LRCLIB_* environment fallbacks,
// and validates the result. If path doesn't exist, Default() is written out
// and used as a starting point.
func Load(path string) (*Manager, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("config file not found, writing defaults", "path", path)
		if err := writeDefault(path, cfg); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvFallbacks(cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return NewManager(cfg), nil
}

func writeDefault(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// applyEnvFallbacks mirrors spec.md §6's CLI env fallbacks: LRCLIB_DATABASE_FILE,
// LRCLIB_WORKERS_COUNT, LRCLIB_LOG.
func applyEnvFallbacks(cfg *Config) {
	if v := os.Getenv("LRCLIB_DATABASE_FILE"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("LRCLIB_WORKERS_COUNT"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.Workers.Count = uint8(n)
		} else {
			slog.Warn("LRCLIB_WORKERS_COUNT is not a valid uint8, ignoring", "value", v)
		}
	}
	if v := os.Getenv("LRCLIB_LOG"); v != "" {
		cfg.Logger.Level = v
	}
}
