package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config holds the procman settings. Zero values in the file fall back to
// DefaultConfig.
type Config struct {
	// LogLevel is any logrus level name ("debug", "info", "warn", ...).
	LogLevel string `toml:"log_level"`

	// ExitCode is used by kill when --exit-code is not given.
	ExitCode uint32 `toml:"exit_code"`

	// Refresh is how often the console UI reloads the details pane, e.g. "1s".
	Refresh string `toml:"refresh"`

	Spawn SpawnConfig `toml:"spawn"`
}

type SpawnConfig struct {
	// Parent is the default parent (PID or executable name) for spawn.
	Parent string `toml:"parent"`

	// NewConsole gives spawned children their own console window.
	NewConsole bool `toml:"new_console"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Refresh:  "1s",
	}
}

// DefaultPath returns <user config dir>/procman/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate config directory")
	}
	return filepath.Join(dir, "procman", "config.toml"), nil
}

// Load reads path, or DefaultPath when path is empty. A missing file is not
// an error and yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.RefreshInterval(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RefreshInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Refresh)
	if err != nil {
		return 0, errors.Wrap(err, "refresh")
	}
	if d <= 0 {
		return 0, errors.Errorf("refresh must be positive, got %s", c.Refresh)
	}
	return d, nil
}
