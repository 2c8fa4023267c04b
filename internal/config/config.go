// Package config provides configuration loading for lexcov.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	envFileName    = ".env"
	dirMode        = 0700
	fileMode       = 0600

	// Environment variables that override the config file.
	EnvDB        = "LEXCOV_DB"
	EnvLogLevel  = "LEXCOV_LOG_LEVEL"
	EnvThreshold = "LEXCOV_THRESHOLD"
)

// Config holds the settings shared by lexcov commands. It is loaded once and
// passed to the components that need it.
type Config struct {
	// DBPath is the SQLite database file; empty means the default location.
	DBPath string `yaml:"db"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Threshold is the default minimal mutual coverage for subset searches.
	Threshold int `yaml:"threshold"`
	// Budget caps subset search nodes; 0 means unlimited.
	Budget int `yaml:"budget"`
	// MaxResults caps the number of tied subsets reported.
	MaxResults int `yaml:"max_results"`
	// Workers is the number of goroutines used to build coverage matrices.
	Workers int `yaml:"workers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		Threshold:  100,
		Budget:     1_000_000,
		MaxResults: 10,
		Workers:    4,
	}
}

// Dir returns the lexcov config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/lexcov if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "lexcov"), nil
}

// Load reads {dir}/config.yaml over the defaults, then applies overrides from
// {dir}/.env and finally from the process environment. Missing files are not
// an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, configFileName)
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	env := make(map[string]string)
	envPath := filepath.Join(dir, envFileName)
	if fileEnv, err := godotenv.Read(envPath); err == nil {
		env = fileEnv
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file %s: %w", envPath, err)
	}

	for _, key := range []string{EnvDB, EnvLogLevel, EnvThreshold} {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			env[key] = v
		}
	}

	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	if v := strings.TrimSpace(env[EnvDB]); v != "" {
		c.DBPath = v
	}
	if v := strings.TrimSpace(env[EnvLogLevel]); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(env[EnvThreshold]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvThreshold, v, err)
		}
		c.Threshold = n
	}
	return nil
}

// Save writes c to {dir}/config.yaml, creating dir if needed.
func Save(dir string, c *Config) error {
	if dir == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}

	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create config dir %s: %w", dir, err)
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
