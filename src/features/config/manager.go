package config

import (
	"encoding/json"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu  sync.RWMutex
	cfg *Config
}

// NewManager wraps cfg for concurrent access.
func NewManager(cfg *Config) *Manager {
	return &Manager{cfg: cfg}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfgCopy := *m.cfg
	return &cfgCopy
}

// Update replaces the held configuration.
func (m *Manager) Update(cfg *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
}

// GetJSON returns the current configuration as a JSON string, for debug endpoints.
func (m *Manager) GetJSON() string {
	cfg := m.Get()
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		slog.Error("failed to marshal config to JSON", "error", err)
		return err.Error()
	}
	return string(jsonBytes)
}

// GetYAML returns the current configuration as a YAML string, for debug endpoints.
func (m *Manager) GetYAML() string {
	cfg := m.Get()
	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		slog.Error("failed to marshal config to YAML", "error", err)
		return err.Error()
	}
	return string(yamlBytes)
}
