package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable holding the config file path
// when --config is not given.
const ConfigEnv = "ROSAVE_CONFIG"

// Config is the optional rosave config file. Command-line flags take
// precedence over every field.
type Config struct {
	// Assets is the directory holding the original game files the
	// dictionary is built from.
	Assets string `yaml:"assets"`

	// Archive is the save directory whose .rosave/ holds the archive.
	Archive string `yaml:"archive"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	Bench BenchConfig `yaml:"bench"`
}

// BenchConfig configures rosave bench.
type BenchConfig struct {
	// Algorithms restricts the comparison. Empty means all.
	Algorithms []string `yaml:"algorithms"`
}

// LoadConfig reads the config file at path. An empty path falls back to
// $ROSAVE_CONFIG; if that is also empty the zero Config is returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		return &Config{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.LogLevel != "" {
		if _, err := parseLogLevel(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return &cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
