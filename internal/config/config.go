// Package config handles the XDG configuration directory and
// environment-based settings.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "tdl"

	// SessionFile is the persisted session credentials filename.
	SessionFile = "session.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `env:"-"`

	// APIURL is the base URL of the todo server.
	APIURL string `env:"TDL_API_URL" envDefault:"http://localhost:5000"`

	// Timeout bounds a single API round trip.
	Timeout time.Duration `env:"TDL_TIMEOUT" envDefault:"10s"`

	// Debug enables debug logging.
	Debug bool `env:"TDL_DEBUG" envDefault:"false"`

	// Quiet suppresses informational output.
	Quiet bool `env:"-"`
}

// New creates a Config with the default or specified config directory.
// A .env file in the working directory is honored when present, then
// TDL_* environment variables are applied over the defaults.
func New(configDir string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Dir = configDir
	if cfg.Dir == "" {
		cfg.Dir = DefaultConfigDir()
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the persisted session credentials.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if persisted session credentials exist.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}
