package cli

import (
	"github.com/toyz/axon-debug/internal/config"
	"github.com/toyz/axon-debug/internal/emitter"
)

// Config holds the settings of one CLI run. Fields left empty fall back to
// the project configuration file.
type Config struct {
	// Paths lists files, directories and "dir/..." patterns to check
	Paths []string

	// ConfigPath is an explicit configuration file; when empty the file is
	// searched for upward from the working directory
	ConfigPath string

	Profile          config.Profile
	Format           emitter.Format
	FrameworkVersion string

	// NoColor forces colors off
	NoColor bool
}
