package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"
)

// CargoManifestFile is the name of a Rust package manifest.
const CargoManifestFile = "Cargo.toml"

type cargoManifest struct {
	Dependencies map[string]any `toml:"dependencies"`
	Workspace    struct {
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"workspace"`
}

// CargoManifestParser reads dependency versions out of Cargo.toml files
type CargoManifestParser struct {
	fileReader *FileReader
}

// NewCargoManifestParser creates a manifest parser reading through fileReader
func NewCargoManifestParser(fileReader *FileReader) *CargoManifestParser {
	return &CargoManifestParser{
		fileReader: fileReader,
	}
}

// DependencyVersion returns the version of crate required by the nearest
// manifest at or above startDir, as a semantic version such as v0.7.0. A
// dependency inherited from the workspace is looked up in the enclosing
// workspace manifest. It reports false when no manifest names the crate.
func (p *CargoManifestParser) DependencyVersion(startDir, crate string) (string, bool, error) {
	inherited := false
	for dir := filepath.Clean(startDir); ; {
		path := filepath.Join(dir, CargoManifestFile)
		if content, err := p.fileReader.ReadFile(path); err == nil {
			m, err := parseCargoManifest(path, content)
			if err != nil {
				return "", false, err
			}
			if !inherited {
				if dep, ok := m.Dependencies[crate]; ok {
					req, fromWorkspace := requirement(dep)
					if !fromWorkspace {
						return semverOf(path, req)
					}
					inherited = true
				}
			}
			if dep, ok := m.Workspace.Dependencies[crate]; ok {
				req, _ := requirement(dep)
				return semverOf(path, req)
			}
			if !inherited {
				// The nearest package manifest does not use the crate.
				return "", false, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func parseCargoManifest(path, content string) (*cargoManifest, error) {
	var m cargoManifest
	if _, err := toml.Decode(content, &m); err != nil {
		return nil, WrapProcessError(path, err)
	}
	return &m, nil
}

// requirement extracts the version requirement of a dependency given either
// as a plain string or as a table.
func requirement(dep any) (req string, fromWorkspace bool) {
	switch d := dep.(type) {
	case string:
		return d, false
	case map[string]any:
		if ws, _ := d["workspace"].(bool); ws {
			return "", true
		}
		v, _ := d["version"].(string)
		return v, false
	}
	return "", false
}

func semverOf(path, req string) (string, bool, error) {
	if req == "" {
		// Path and git dependencies carry no version.
		return "", false, nil
	}
	v := RequirementVersion(req)
	if !semver.IsValid(v) {
		return "", false, fmt.Errorf("%s: unsupported version requirement %q", path, req)
	}
	return v, true, nil
}

// RequirementVersion turns the first comparator of a Cargo version
// requirement into the lowest version it admits: "0.7" and "^0.7" give
// v0.7.0, "=0.6.20" gives v0.6.20, "0.7.*" gives v0.7.0.
func RequirementVersion(req string) string {
	first, _, _ := strings.Cut(req, ",")
	first = strings.TrimLeft(strings.TrimSpace(first), "^~=>< ")

	parts := strings.Split(first, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	nums := make([]string, 0, 3)
	for _, part := range parts {
		if part == "*" || part == "x" || part == "" {
			break
		}
		nums = append(nums, part)
	}
	for len(nums) < 3 {
		nums = append(nums, "0")
	}
	return "v" + strings.Join(nums, ".")
}
