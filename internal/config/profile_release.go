//go:build release

package config

// DefaultProfile is the profile used when neither the configuration nor the
// command line selects one. Release builds analyze nothing by default.
const DefaultProfile = Release
