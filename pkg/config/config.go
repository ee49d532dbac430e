// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tickbridge/tickbridge/pkg/types"
)

// SupportedVersion is the only config schema version this build accepts
const SupportedVersion = "1.0"

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadConfig loads configuration from a file, accepting JSON or YAML
func (m *Manager) LoadConfig(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg types.Config

	// Try JSON first
	if err := json.Unmarshal(data, &cfg); err == nil {
		return m.validated(&cfg)
	}

	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return m.validated(&cfg)
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(cfg *types.Config) error {
	if cfg.Version != SupportedVersion {
		return fmt.Errorf("unsupported config version: %s", cfg.Version)
	}
	if err := cfg.Dispatcher.Validate(); err != nil {
		return fmt.Errorf("dispatcher config: %w", err)
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is present
func Default() *types.Config {
	return &types.Config{
		Version:    SupportedVersion,
		Dispatcher: types.DispatcherConfig{}.WithDefaults(),
		Simulation: types.SimulationConfig{}.WithDefaults(),
	}
}

func (m *Manager) validated(cfg *types.Config) (*types.Config, error) {
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	cfg.Dispatcher = cfg.Dispatcher.WithDefaults()
	cfg.Simulation = cfg.Simulation.WithDefaults()
	return cfg, nil
}
