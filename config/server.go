package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/server.yaml
var defaultServerYAML []byte

// ServerConfig configures the coordination server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// TestMode lets a single member start a game alone.
	TestMode    bool          `yaml:"test_mode"`
	TickRate    int           `yaml:"tick_rate"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	SendBuffer  int           `yaml:"send_buffer"`
	Name        string        `yaml:"name"`
	MasterURL   string        `yaml:"master_url"`
	// PublicAddr is what the master advertises; defaults to the listen address.
	PublicAddr string `yaml:"public_addr"`
	LogLevel   string `yaml:"log_level"`
}

func DefaultServerConfig() ServerConfig {
	var cfg ServerConfig
	if err := yaml.Unmarshal(defaultServerYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded server.yaml is invalid: %v", err))
	}
	return cfg
}

// LoadServerConfig overlays the YAML file at path on the defaults.
// An empty path returns the defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read server config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse server config %s: %w", path, err)
	}
	if cfg.TickRate <= 0 {
		return cfg, fmt.Errorf("tick_rate must be positive, got %d", cfg.TickRate)
	}
	return cfg, nil
}
