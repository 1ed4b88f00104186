// Package config loads plsqldoc.toml, found by walking up from the working
// directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName of the project configuration.
const FileName = "plsqldoc.toml"

// DefaultExtensions are the file suffixes a directory scan picks up.
var DefaultExtensions = []string{
	".sql", ".pks", ".pkb", ".pls", ".plb", ".tps", ".tpb", ".fnc", ".prc", ".typ", ".pck",
}

// Config mirrors plsqldoc.toml. Zero values mean "not set".
type Config struct {
	Parse  ParseConfig  `toml:"parse"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`

	// Path is the file the config came from, "" for defaults.
	Path string `toml:"-"`
}

type ParseConfig struct {
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	Extensions     []string `toml:"extensions"`
}

type OutputConfig struct {
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

type CacheConfig struct {
	Enabled *bool  `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	enabled := true
	return &Config{
		Parse: ParseConfig{
			MaxDiagnostics: 100,
			Extensions:     slices.Clone(DefaultExtensions),
		},
		Output: OutputConfig{Color: "auto", PathMode: "relative"},
		Cache:  CacheConfig{Enabled: &enabled},
	}
}

// Find walks up from startDir to locate plsqldoc.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest plsqldoc.toml above startDir, or the defaults.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	if c.Parse.MaxDiagnostics < 0 {
		return fmt.Errorf("[parse].max_diagnostics must be >= 0")
	}
	if c.Parse.Jobs < 0 {
		return fmt.Errorf("[parse].jobs must be >= 0")
	}
	for i, ext := range c.Parse.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Parse.Extensions[i] = "." + ext
		}
	}
	switch c.Output.Color {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto|on|off, got %q", c.Output.Color)
	}
	switch c.Output.PathMode {
	case "", "relative", "absolute", "basename", "auto":
	default:
		return fmt.Errorf("[output].path_mode must be relative|absolute|basename|auto, got %q", c.Output.PathMode)
	}
	return nil
}

// CacheEnabled defaults to true.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// CacheDir resolves [cache].dir against the config file, falling back to
// the user cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		if filepath.IsAbs(c.Cache.Dir) || c.Path == "" {
			return c.Cache.Dir, nil
		}
		return filepath.Join(filepath.Dir(c.Path), c.Cache.Dir), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "plsqldoc"), nil
}

// HasExtension reports whether path ends in one of the configured suffixes.
func (c *Config) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(c.Parse.Extensions, ext)
}
