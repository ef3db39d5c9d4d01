// Package classify maps type syntax onto the roles a type can play in a
// handler signature. The mapping is a closed table: anything it does not
// list is unknown.
package classify

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"

	"github.com/toyz/axon-debug/internal/errors"
)

//go:embed default.toml
var defaultTable []byte

// Role is a position a recognized type may occupy.
type Role string

const (
	RoleExtractor Role = "extractor"
	RoleSpecial   Role = "special"
	RoleResponse  Role = "response"
	RoleParts     Role = "parts"
)

func (r Role) valid() bool {
	switch r {
	case RoleExtractor, RoleSpecial, RoleResponse, RoleParts:
		return true
	}
	return false
}

// Wrap modes delegate classification to generic arguments.
const (
	WrapNone  = ""
	WrapFirst = "first"
	WrapAll   = "all"
)

// Entry recognizes a named type.
type Entry struct {
	Name    string `toml:"name"`
	Roles   []Role `toml:"roles"`
	Body    bool   `toml:"body"`
	Args    *int   `toml:"args"`
	Generic string `toml:"generic"`
	Wraps   string `toml:"wraps"`
	Since   string `toml:"since"`
	Until   string `toml:"until"`
}

// Reference recognizes &'lifetime Target.
type Reference struct {
	Target   string `toml:"target"`
	Lifetime string `toml:"lifetime"`
	Roles    []Role `toml:"roles"`
}

// ImplTrait recognizes `impl Trait` when any bound names Trait.
type ImplTrait struct {
	Trait string `toml:"trait"`
	Roles []Role `toml:"roles"`
	Since string `toml:"since"`
	Until string `toml:"until"`
}

// Definition is the file form of a table.
type Definition struct {
	Framework  string      `toml:"framework"`
	Version    string      `toml:"version"`
	Replace    bool        `toml:"replace"`
	Types      []Entry     `toml:"type"`
	References []Reference `toml:"reference"`
	Impls      []ImplTrait `toml:"impl"`
}

// Table answers classification queries for one framework version.
type Table struct {
	framework string
	version   string
	types     map[string][]Entry
	refs      []Reference
	impls     []ImplTrait
}

// ParseDefinition decodes and validates a table file. source names the
// file in errors.
func ParseDefinition(source string, data []byte) (*Definition, error) {
	var def Definition
	md, err := toml.Decode(string(data), &def)
	if err != nil {
		return nil, errors.WrapClassificationError(source, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.WrapClassificationError(source,
			fmt.Errorf("unknown keys: %s", strings.Join(keys, ", ")))
	}
	if err := def.Validate(); err != nil {
		return nil, errors.WrapClassificationError(source, err)
	}
	return &def, nil
}

// DefaultDefinition returns the embedded table.
func DefaultDefinition() *Definition {
	def, err := ParseDefinition("default.toml", defaultTable)
	if err != nil {
		panic(err)
	}
	return def
}

// Default returns the embedded table at its own version.
func Default() *Table {
	t, err := New(DefaultDefinition(), "")
	if err != nil {
		panic(err)
	}
	return t
}

// Load returns the embedded table extended by extra, or replaced by it when
// extra.Replace is set. version overrides the table's framework version
// when not empty.
func Load(extra *Definition, version string) (*Table, error) {
	def := DefaultDefinition()
	if extra != nil {
		if err := extra.Validate(); err != nil {
			return nil, errors.WrapClassificationError("configuration", err)
		}
		def = def.Merge(extra)
	}
	return New(def, version)
}

// Merge returns a definition with other's entries appended, or other
// itself when other.Replace is set.
func (s *Definition) Merge(other *Definition) *Definition {
	if other.Replace {
		return other
	}
	merged := *s
	merged.Types = append(append([]Entry(nil), s.Types...), other.Types...)
	merged.References = append(append([]Reference(nil), s.References...), other.References...)
	merged.Impls = append(append([]ImplTrait(nil), s.Impls...), other.Impls...)
	if other.Version != "" {
		merged.Version = other.Version
	}
	if other.Framework != "" {
		merged.Framework = other.Framework
	}
	return &merged
}

// Validate checks every entry of the definition.
func (s *Definition) Validate() error {
	if s.Version != "" && !semver.IsValid(Canonical(s.Version)) {
		return errors.NewValidationError("version", s.Version, "a semantic version such as v0.7.0")
	}
	for i, e := range s.Types {
		if e.Name == "" {
			return fmt.Errorf("type entry %d: missing name", i+1)
		}
		if err := validRoles(e.Roles); err != nil {
			return fmt.Errorf("type %q: %w", e.Name, err)
		}
		switch e.Wraps {
		case WrapNone, WrapFirst, WrapAll:
		default:
			return errors.NewValidationError("wraps", e.Wraps, `"first" or "all"`)
		}
		if e.Args != nil && *e.Args < 0 {
			return errors.NewValidationError("args", *e.Args, "a non-negative count")
		}
		if err := validRange(e.Since, e.Until); err != nil {
			return fmt.Errorf("type %q: %w", e.Name, err)
		}
	}
	for _, r := range s.References {
		if r.Target == "" {
			return fmt.Errorf("reference entry: missing target")
		}
		if err := validRoles(r.Roles); err != nil {
			return fmt.Errorf("reference %q: %w", r.Target, err)
		}
	}
	for _, im := range s.Impls {
		if im.Trait == "" {
			return fmt.Errorf("impl entry: missing trait")
		}
		if err := validRoles(im.Roles); err != nil {
			return fmt.Errorf("impl %q: %w", im.Trait, err)
		}
		if err := validRange(im.Since, im.Until); err != nil {
			return fmt.Errorf("impl %q: %w", im.Trait, err)
		}
	}
	return nil
}

func validRoles(roles []Role) error {
	if len(roles) == 0 {
		return fmt.Errorf("no roles")
	}
	for _, r := range roles {
		if !r.valid() {
			return errors.NewValidationError("role", string(r), "extractor, special, response or parts")
		}
	}
	return nil
}

func validRange(since, until string) error {
	for _, v := range []string{since, until} {
		if v != "" && !semver.IsValid(Canonical(v)) {
			return errors.NewValidationError("version", v, "a semantic version such as v0.7.0")
		}
	}
	return nil
}

// Canonical adds the "v" prefix semver expects.
func Canonical(version string) string {
	if version == "" || strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// New builds a table from def, keeping the entries active at version.
// An empty version uses the definition's own.
func New(def *Definition, version string) (*Table, error) {
	if version == "" {
		version = def.Version
	}
	version = Canonical(version)
	if version != "" && !semver.IsValid(version) {
		return nil, errors.NewValidationError("framework version", version, "a semantic version such as v0.7.0")
	}
	t := &Table{
		framework: def.Framework,
		version:   version,
		types:     make(map[string][]Entry),
		refs:      def.References,
	}
	for _, e := range def.Types {
		if active(version, e.Since, e.Until) {
			t.types[e.Name] = append(t.types[e.Name], e)
		}
	}
	for _, im := range def.Impls {
		if active(version, im.Since, im.Until) {
			t.impls = append(t.impls, im)
		}
	}
	return t, nil
}

func active(version, since, until string) bool {
	if version == "" {
		return true
	}
	if since != "" && semver.Compare(version, Canonical(since)) < 0 {
		return false
	}
	if until != "" && semver.Compare(version, Canonical(until)) >= 0 {
		return false
	}
	return true
}

// Framework returns the framework name the table describes.
func (t *Table) Framework() string { return t.framework }

// Version returns the framework version the table was gated at.
func (t *Table) Version() string { return t.version }

// Names returns the number of distinct recognized type names.
func (t *Table) Names() int { return len(t.types) }
