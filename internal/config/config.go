// Package config loads the daemon configuration from an optional YAML file,
// falling back to defaults that match the WeirdBox deployment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStoragePath = "/home/weird/ideas"
	DefaultPort        = "9010"
	DefaultBackend     = "local"
	DefaultLLMUrl      = "http://127.0.0.1:8080"
	DefaultModel       = "claude-opus-4-5-20251101"
	DefaultGenerateAt  = "06:00"
	DefaultIdeasPerDay = 10
	DefaultCallTimeout = "90s"
)

type Config struct {
	StoragePath  string `yaml:"storage_path"`
	Port         string `yaml:"port"`
	Backend      string `yaml:"backend"`
	LLMServerUrl string `yaml:"llm_server_url"`
	Model        string `yaml:"model"`
	GenerateAt   string `yaml:"generate_at"`
	IdeasPerDay  int    `yaml:"ideas_per_day"`
	CallTimeout  string `yaml:"call_timeout"`
}

func defaults() Config {
	return Config{
		StoragePath:  DefaultStoragePath,
		Port:         DefaultPort,
		Backend:      DefaultBackend,
		LLMServerUrl: DefaultLLMUrl,
		Model:        DefaultModel,
		GenerateAt:   DefaultGenerateAt,
		IdeasPerDay:  DefaultIdeasPerDay,
		CallTimeout:  DefaultCallTimeout,
	}
}

// Load reads the config file at path. A missing file (or empty path) yields
// the defaults; a malformed file is a startup error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err = yaml.Unmarshal(content, &cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	d := defaults()
	if c.StoragePath == "" {
		c.StoragePath = d.StoragePath
	}
	if c.Port == "" {
		c.Port = d.Port
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.LLMServerUrl == "" {
		c.LLMServerUrl = d.LLMServerUrl
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.GenerateAt == "" {
		c.GenerateAt = d.GenerateAt
	}
	if c.IdeasPerDay <= 0 {
		c.IdeasPerDay = d.IdeasPerDay
	}
	if c.CallTimeout == "" {
		c.CallTimeout = d.CallTimeout
	}
}

func (c *Config) Validate() error {
	switch c.Backend {
	case "local", "hybrid", "cloud":
	default:
		return fmt.Errorf("config: backend must be local, hybrid or cloud, got %q", c.Backend)
	}

	if _, err := time.Parse("15:04", c.GenerateAt); err != nil {
		return fmt.Errorf("config: generate_at must be HH:MM, got %q", c.GenerateAt)
	}

	if _, err := time.ParseDuration(c.CallTimeout); err != nil {
		return fmt.Errorf("config: call_timeout: %w", err)
	}

	return nil
}

// CallTimeoutDuration returns the parsed backend call timeout. Validate
// must have passed.
func (c *Config) CallTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.CallTimeout)
	if err != nil {
		return 90 * time.Second
	}
	return d
}
