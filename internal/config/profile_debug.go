//go:build !release

package config

// DefaultProfile is the profile used when neither the configuration nor the
// command line selects one.
const DefaultProfile = Debug
