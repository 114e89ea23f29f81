package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultPath = "config.yaml"

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Network  NetworkConfig  `yaml:"network"`
	API      APIConfig      `yaml:"api"`
	Check    CheckConfig    `yaml:"check"`
}

type DatabaseConfig struct {
	// sqlite or memory
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type NetworkConfig struct {
	// NO_PROXY style list of hosts that always go direct.
	Bypass  string        `yaml:"bypass"`
	Timeout time.Duration `yaml:"timeout"`
}

type APIConfig struct {
	Listen string `yaml:"listen"`
}

type CheckConfig struct {
	EchoURL string        `yaml:"echo_url"`
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Database.Backend = "sqlite"
	cfg.Database.Path = "proxyswitch.db"
	cfg.Network.Timeout = 30 * time.Second
	cfg.API.Listen = "127.0.0.1:7878"
	cfg.Check.EchoURL = "http://api.ipify.org"
	cfg.Check.Timeout = 8 * time.Second
	cfg.Check.Retries = 1
	return &cfg
}

// Load reads the YAML config at path over the defaults. An empty path means
// ./config.yaml, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if cfg.Database.Backend == "sqlite" && cfg.Database.Path == "" {
		return nil, fmt.Errorf("database.path must not be empty")
	}
	if cfg.Network.Timeout <= 0 {
		cfg.Network.Timeout = 30 * time.Second
	}
	if cfg.API.Listen == "" {
		cfg.API.Listen = "127.0.0.1:7878"
	}
	if cfg.Check.Timeout <= 0 {
		cfg.Check.Timeout = 8 * time.Second
	}
	if cfg.Check.Retries < 0 {
		cfg.Check.Retries = 0
	}

	return cfg, nil
}
