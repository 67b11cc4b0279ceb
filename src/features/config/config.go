// Package config holds the application's configuration shape and loader.
package config

// Config holds the application configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	Database  Database  `yaml:"database"`
	Workers   Workers   `yaml:"workers"`
	Logger    Logger    `yaml:"logger"`
	Challenge Challenge `yaml:"challenge"`
	Cache     Cache     `yaml:"cache"`
}

// Server holds the HTTP listener configuration.
type Server struct {
	Port uint16 `yaml:"port" validate:"required"`
}

// Database holds the SQLite file location.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Workers holds the background worker pool size.
type Workers struct {
	Count uint8 `yaml:"count"`
}

// Logger holds the structured logging configuration.
type Logger struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json logfmt"`
}

// Challenge holds the proof-of-work engine's tunables.
type Challenge struct {
	BaseRate int64 `yaml:"base_rate" validate:"min=1"`
}

// Cache holds the TTL cache set's capacity bounds.
type Cache struct {
	ChallengeSize int `yaml:"challenge_size" validate:"min=1"`
	GetSize       int `yaml:"get_size" validate:"min=1"`
	SearchSize    int `yaml:"search_size" validate:"min=1"`
}

// Default returns the configuration spec.md §6 names as defaults: port
// 3300, zero workers, base publish rate 100.
func Default() *Config {
	return &Config{
		Server:    Server{Port: 3300},
		Database:  Database{Path: "lrclib.db"},
		Workers:   Workers{Count: 0},
		Logger:    Logger{Level: "info", Format: "text"},
		Challenge: Challenge{BaseRate: 100},
		Cache:     Cache{ChallengeSize: 100_000, GetSize: 100_000, SearchSize: 500_000},
	}
}
