// Package config handles taco.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "taco.toml"

// Config represents a taco.toml file.
type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Wrap   WrapConfig   `toml:"wrap"`

	// Dir is the directory containing the taco.toml file (set at load time).
	Dir string `toml:"-"`
}

// ServerConfig configures the Go server executable.
type ServerConfig struct {
	// Imports lists modules imported before the first request is read.
	Imports    []string `toml:"imports"`
	Transcript string   `toml:"transcript"`
}

// LogConfig configures commonlog.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// WrapConfig configures binding generation.
type WrapConfig struct {
	Packages []string `toml:"packages"`
	Output   string   `toml:"output"`
	// Package names the generated Go packages. Empty means wrap_<name>
	// per wrapped package.
	Package string `toml:"package"`
}

// Default returns the configuration used when no taco.toml exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Wrap.Output == "" {
		c.Wrap.Output = "wrapped"
	}
}

// Load parses a taco.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	c.applyDefaults()
	return &c, nil
}

// LoadFile parses a configuration file at an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

// FindAndLoad walks up from startDir to find a taco.toml file,
// then loads and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Resolve returns path relative to the configuration directory unless it
// is empty or already absolute.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// TranscriptPath returns the absolute transcript path, or "" when
// recording is off.
func (c *Config) TranscriptPath() string {
	return c.Resolve(c.Server.Transcript)
}

// LogPath returns the absolute log file path, or "" for stderr.
func (c *Config) LogPath() string {
	return c.Resolve(c.Log.File)
}

// OutputDir returns the absolute directory for generated bindings.
func (c *Config) OutputDir() string {
	return c.Resolve(c.Wrap.Output)
}
