package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for stocksuggester.
type Config struct {
	Backend Backend `yaml:"backend"`
	Logging Logging `yaml:"logging"`
	UI      UI      `yaml:"ui"`
}

// Backend locates the stock backend.
type Backend struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Logging configures the application logger. The terminal UI owns stdout,
// so logs go to File; an empty File discards them.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// UI holds presentation defaults.
type UI struct {
	DarkMode      bool   `yaml:"dark_mode"`
	DefaultPeriod string `yaml:"default_period"`
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: Backend{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
			File:   "stocksuggester.log",
		},
		UI: UI{
			DefaultPeriod: "1mo",
		},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty), a .env file in the working directory (if present) and
// finally environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	// Project-specific name wins over the generic one.
	if v := os.Getenv("STOCKSUGGESTER_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}

	if v := os.Getenv("STOCKSUGGESTER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.Logging.File = v
	}

	if v := os.Getenv("DARK_MODE"); v != "" {
		if dark, err := strconv.ParseBool(v); err == nil {
			cfg.UI.DarkMode = dark
		}
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = def.Backend.BaseURL
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = def.Backend.Timeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.UI.DefaultPeriod == "" {
		c.UI.DefaultPeriod = def.UI.DefaultPeriod
	}
}
