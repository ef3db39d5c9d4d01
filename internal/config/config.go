// Package config handles axon-debug.toml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"

	"github.com/toyz/axon-debug/internal/classify"
	"github.com/toyz/axon-debug/internal/emitter"
	"github.com/toyz/axon-debug/internal/errors"
)

// FileName is the name of the project configuration file.
const FileName = "axon-debug.toml"

// Profile selects whether analysis runs at all.
type Profile string

const (
	Debug   Profile = "debug"
	Release Profile = "release"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the project configuration.
type Config struct {
	Profile          Profile        `toml:"profile"`
	Format           emitter.Format `toml:"format"`
	FrameworkVersion string         `toml:"framework-version"`
	Color            string         `toml:"color"`
	// Exclude lists glob patterns matched against file base names and
	// paths relative to Dir.
	Exclude  []string             `toml:"exclude"`
	Classify *classify.Definition `toml:"classify"`

	// Dir is the directory containing the configuration file, or the
	// working directory when there is none.
	Dir string `toml:"-"`
	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

var knownKeys = []string{"profile", "format", "framework-version", "color", "exclude", "classify"}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Profile: DefaultProfile,
		Format:  emitter.FormatText,
		Color:   ColorAuto,
	}
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "read", err)
	}
	c, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "resolve", err)
	}
	c.Path = abs
	c.Dir = filepath.Dir(abs)
	return c, nil
}

// Parse decodes configuration text over the defaults. Unknown keys are an
// error.
func Parse(path string, data []byte) (*Config, error) {
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "parse", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.ConfigurationError(path, "unknown keys: "+strings.Join(keys, ", ")).
			WithSuggestion("known keys: " + strings.Join(knownKeys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, errors.WrapConfigurationError(path, "validate", err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find an axon-debug.toml file and
// loads it. The defaults, rooted at startDir, are returned when there is
// none.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	start := dir
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			c := Default()
			c.Dir = start
			return c, nil
		}
		dir = parent
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	switch c.Profile {
	case Debug, Release:
	default:
		return errors.NewValidationError("profile", string(c.Profile), `"debug" or "release"`)
	}
	if !c.Format.Valid() {
		return errors.NewValidationError("format", string(c.Format), `"text" or "json"`)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.NewValidationError("color", c.Color, `"auto", "always" or "never"`)
	}
	if c.FrameworkVersion != "" && !semver.IsValid(classify.Canonical(c.FrameworkVersion)) {
		return errors.NewValidationError("framework-version", c.FrameworkVersion, "a semantic version such as v0.7.0")
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return errors.NewValidationError("exclude", pattern, "a valid glob pattern")
		}
	}
	if c.Classify != nil {
		if err := c.Classify.Validate(); err != nil {
			return fmt.Errorf("classify: %w", err)
		}
	}
	return nil
}

// Table returns the classification table the configuration selects.
func (c *Config) Table() (*classify.Table, error) {
	return classify.Load(c.Classify, c.FrameworkVersion)
}

// UseColor resolves the color mode. detected is the terminal's own answer
// for the auto mode.
func (c *Config) UseColor(detected bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return detected
}

// Excluded reports whether path matches an exclude pattern.
func (c *Config) Excluded(path string) bool {
	rel := path
	if c.Dir != "" {
		if abs, err := filepath.Abs(path); err == nil {
			if r, err := filepath.Rel(c.Dir, abs); err == nil {
				rel = r
			}
		}
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.Exclude {
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if strings.HasPrefix(rel, strings.TrimSuffix(pattern, "/")+"/") {
			return true
		}
	}
	return false
}
