// Package config loads machlink's runtime settings from a YAML file, with
// .env and environment-variable overrides on top.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written as "300ms"
// or "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config collects the tunables of the linker toolchain.
type Config struct {
	Workspace struct {
		Root       string   `yaml:"root"`
		Extensions []string `yaml:"extensions"`
	} `yaml:"workspace"`
	Remote struct {
		Enabled      bool     `yaml:"enabled"`
		FetchTimeout Duration `yaml:"fetch_timeout"`
	} `yaml:"remote"`
	Watch struct {
		Debounce Duration `yaml:"debounce"`
	} `yaml:"watch"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Workspace.Root = "."
	cfg.Remote.Enabled = true
	cfg.Remote.FetchTimeout = Duration(30 * time.Second)
	cfg.Watch.Debounce = Duration(300 * time.Millisecond)
	cfg.Log.Level = "info"
	return cfg
}

// Load reads the YAML config at path (defaults apply when path is empty),
// then applies .env and MACHLINK_* environment overrides.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	if root := os.Getenv("MACHLINK_WORKSPACE_ROOT"); root != "" {
		cfg.Workspace.Root = root
	}
	if level := os.Getenv("MACHLINK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if remote := os.Getenv("MACHLINK_REMOTE_ENABLED"); remote != "" {
		if v, err := strconv.ParseBool(remote); err == nil {
			cfg.Remote.Enabled = v
		}
	}
	if timeout := os.Getenv("MACHLINK_FETCH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Remote.FetchTimeout = Duration(d)
		}
	}

	return cfg, nil
}

// SlogLevel maps the configured level string onto slog's levels. Unknown
// strings fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
