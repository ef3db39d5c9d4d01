// Package analyzer runs the handler and router checks over a set of source
// files.
package analyzer

import (
	"github.com/toyz/axon-debug/internal/classify"
	"github.com/toyz/axon-debug/internal/config"
	"github.com/toyz/axon-debug/internal/diagnostic"
	"github.com/toyz/axon-debug/internal/router"
	"github.com/toyz/axon-debug/internal/rules"
	"github.com/toyz/axon-debug/internal/signature"
	"github.com/toyz/axon-debug/internal/syntax"
	"github.com/toyz/axon-debug/internal/utils"
)

// Annotation names recognized by the analyzer. Matching is on the final
// path segment, so axum_debug::debug_handler works as well.
const (
	HandlerAttribute = "debug_handler"
	RouterMacro      = "debug_router"
)

// Source is one file to analyze.
type Source struct {
	Name string
	Text string
}

// Report is the outcome of one analysis run.
type Report struct {
	Diagnostics []diagnostic.Diagnostic
	// Files counts the files analyzed, Handlers the annotated items and
	// Routers the router expressions.
	Files    int
	Handlers int
	Routers  int
	// Skipped is set when the profile disabled analysis.
	Skipped bool
}

// Options configures an Analyzer.
type Options struct {
	Profile config.Profile
	// Table classifies types; the embedded table when nil.
	Table   *classify.Table
	Console *utils.Console
}

// Analyzer checks annotated handlers and routers. An Analyzer holds no state
// between runs and may be reused.
type Analyzer struct {
	profile config.Profile
	rules   *rules.Set
	console *utils.Console
}

// New returns an analyzer configured by opts.
func New(opts Options) *Analyzer {
	table := opts.Table
	if table == nil {
		table = classify.Default()
	}
	console := opts.Console
	if console == nil {
		console = utils.NewSilentConsole()
	}
	profile := opts.Profile
	if profile == "" {
		profile = config.DefaultProfile
	}
	return &Analyzer{profile: profile, rules: rules.Default(table), console: console}
}

// Rules returns the rule set the analyzer checks handlers against.
func (a *Analyzer) Rules() *rules.Set {
	return a.rules
}

// AnalyzeSource analyzes a single file.
func (a *Analyzer) AnalyzeSource(name, text string) (*Report, error) {
	return a.AnalyzeFiles([]Source{{Name: name, Text: text}})
}

// AnalyzeFiles parses every file, checks each annotated handler in source
// order, then checks every router expression. A handler is reported at most
// once, by its annotation if it has one.
func (a *Analyzer) AnalyzeFiles(sources []Source) (*Report, error) {
	report := &Report{Diagnostics: []diagnostic.Diagnostic{}}
	if a.profile == config.Release {
		a.console.Verbose("release profile: analysis skipped")
		report.Skipped = true
		return report, nil
	}

	var files []*syntax.File
	for _, src := range sources {
		report.Files++
		file, err := syntax.Parse(src.Name, src.Text)
		if err != nil {
			d, ok := diagnostic.FromError(err)
			if !ok {
				return nil, err
			}
			a.console.Verbose("%s: %s", src.Name, err)
			report.Diagnostics = append(report.Diagnostics, *d)
			continue
		}
		files = append(files, file)
	}

	reported := make(map[router.Key]bool)
	for _, file := range files {
		if err := a.checkHandlers(file, report, reported); err != nil {
			return nil, err
		}
	}

	agg := router.NewAggregator(router.NewIndex(files), a.rules, reported)
	for _, file := range files {
		if err := a.checkRouters(file, agg, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (a *Analyzer) checkHandlers(file *syntax.File, report *Report, reported map[router.Key]bool) error {
	var walkErr error
	file.Walk(func(decl syntax.Decl) {
		attr := decl.Attribute(HandlerAttribute)
		if attr == nil || walkErr != nil {
			return
		}
		report.Handlers++

		m, err := signature.Build(file.Filename, decl, attr)
		if err != nil {
			d, ok := diagnostic.FromError(err)
			if !ok {
				walkErr = err
				return
			}
			report.Diagnostics = append(report.Diagnostics, *d)
			return
		}
		a.console.Verbose("checking handler %s at %s", m.Name, m.Span)

		d, err := diagnostic.Select(m, a.rules)
		if err != nil {
			walkErr = err
			return
		}
		if d == nil {
			return
		}
		reported[router.KeyOf(file.Filename, decl.Item.Fn)] = true
		report.Diagnostics = append(report.Diagnostics, *d)
	})
	return walkErr
}

func (a *Analyzer) checkRouters(file *syntax.File, agg *router.Aggregator, report *Report) error {
	var walkErr error
	file.Walk(func(decl syntax.Decl) {
		if decl.Item == nil || decl.Item.Macro == nil || walkErr != nil {
			return
		}
		call := decl.Item.Macro
		if call.Path.Last() != RouterMacro {
			return
		}
		report.Routers++

		res, err := agg.Aggregate(file, call)
		if err != nil {
			walkErr = err
			return
		}
		a.console.Verbose("router at %s: %d registrations, %d resolved",
			syntax.PointSpan(call.Pos), len(res.Registrations), res.Checked)
		report.Diagnostics = append(report.Diagnostics, res.Diagnostics...)
	})
	return walkErr
}

// Valid reports whether the report has no diagnostics.
func (r *Report) Valid() bool {
	return len(r.Diagnostics) == 0
}
