// Package config loads the optional YAML config file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/taigrr/nmclean/internal/types"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for config values that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// File mirrors the YAML config file. Pointer fields distinguish unset from zero.
	File struct {
		Depth       *int     `yaml:"depth"`
		Interactive *bool    `yaml:"interactive"`
		Silent      *bool    `yaml:"silent"`
		Exclude     []string `yaml:"exclude"`
		Log         Log      `yaml:"log"`
	}

	// Log configures logging output.
	Log struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	}
)

// Dir returns the config directory: $XDG_CONFIG_HOME/nmclean if set, otherwise ~/.config/nmclean.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" && filepath.IsAbs(dir) {
		return filepath.Join(dir, "nmclean"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "nmclean"), nil
}

// DefaultPath returns the location of the config file used when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path. An empty path loads the default file,
// which may be absent. An explicitly named file must exist.
func Load(path string) (File, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return File{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("failed to read config: %s - %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates YAML config content. Unknown keys are rejected.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks value ranges.
func (f File) Validate() error {
	if f.Depth != nil && *f.Depth < 0 {
		return fmt.Errorf("%w: depth must not be negative, got %d", ErrInvalidConfig, *f.Depth)
	}
	if _, err := ParseLevel(f.Log.Level); err != nil {
		return err
	}
	if f.Log.MaxSizeMB < 0 || f.Log.MaxBackups < 0 || f.Log.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation limits must not be negative", ErrInvalidConfig)
	}
	return nil
}

// SearchConfig builds a run configuration for root from the file values,
// falling back to built-in defaults.
func (f File) SearchConfig(root string) types.SearchConfig {
	cfg := types.SearchConfig{
		Root:     root,
		MaxDepth: types.DefaultMaxDepth,
		Exclude:  append([]string(nil), f.Exclude...),
	}
	if f.Depth != nil {
		cfg.MaxDepth = *f.Depth
	}
	if f.Interactive != nil {
		cfg.Interactive = *f.Interactive
	}
	if f.Silent != nil {
		cfg.Silent = *f.Silent
	}
	return cfg
}

// ParseLevel parses a log level name. An empty name means warn.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, name)
	}
	return level, nil
}
