package router

import (
	"path/filepath"
	"strings"

	"github.com/toyz/axon-debug/internal/syntax"
)

// Target is a function declaration a handler path resolved to.
type Target struct {
	File string
	Fn   *syntax.FnDecl
}

// Key identifies a handler declaration across analysis passes.
type Key struct {
	File   string
	Offset int
}

// Key returns the identity of the target's declaration.
func (t Target) Key() Key {
	return KeyOf(t.File, t.Fn)
}

// KeyOf returns the identity of a function declared in file.
func KeyOf(file string, fn *syntax.FnDecl) Key {
	return Key{File: file, Offset: fn.Pos.Offset}
}

// Resolver finds the declaration a handler path refers to. from is the file
// the path is written in.
type Resolver interface {
	Resolve(path []string, from string) (Target, bool)
}

// Index resolves handler paths by their final segment against the free
// functions of a set of files. It performs no module resolution; the
// closest match wins.
type Index struct {
	byName map[string][]Target
}

// NewIndex indexes the functions of files. Functions taking self are
// methods and are never handlers.
func NewIndex(files []*syntax.File) *Index {
	ix := &Index{byName: make(map[string][]Target)}
	for _, f := range files {
		for _, fn := range f.Functions() {
			if takesSelf(fn) {
				continue
			}
			ix.byName[fn.Name.Value] = append(ix.byName[fn.Name.Value], Target{File: f.Filename, Fn: fn})
		}
	}
	return ix
}

func takesSelf(fn *syntax.FnDecl) bool {
	return fn.Params != nil && len(fn.Params.Params) > 0 && fn.Params.Params[0].Self != nil
}

// Resolve prefers a declaration in the same file for unqualified paths and
// one in a file named after the parent module for qualified paths.
func (ix *Index) Resolve(path []string, from string) (Target, bool) {
	if len(path) == 0 || path[0] == "Self" {
		return Target{}, false
	}
	candidates := ix.byName[path[len(path)-1]]
	if len(candidates) == 0 {
		return Target{}, false
	}
	best, bestScore := candidates[0], -1
	for _, c := range candidates {
		if s := score(c, path, from); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, true
}

func score(c Target, path []string, from string) int {
	if len(path) == 1 {
		if c.File == from {
			return 2
		}
		return 0
	}
	module := path[len(path)-2]
	base := strings.TrimSuffix(filepath.Base(c.File), filepath.Ext(c.File))
	switch {
	case base == module:
		return 2
	case base == "mod" && filepath.Base(filepath.Dir(c.File)) == module:
		return 2
	case c.File == from:
		return 1
	}
	return 0
}
