package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service connection settings. Values come from the YAML file,
// then environment variables, then flags, later sources winning.
type Config struct {
	URL         string        `yaml:"url"`
	Version     string        `yaml:"version"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	BearerToken string        `yaml:"bearer_token"`
	Timeout     time.Duration `yaml:"timeout"`
}

const defaultTimeout = 30 * time.Second

// LoadConfig reads the YAML file at path, then overlays environment
// variables. An empty path skips the file entirely.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Timeout: defaultTimeout}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("CONVERSATION_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("CONVERSATION_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("CONVERSATION_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("CONVERSATION_BEARER_TOKEN"); v != "" {
		cfg.BearerToken = v
	}
	if v := os.Getenv("CONVERSATION_VERSION"); v != "" {
		cfg.Version = v
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg, nil
}
