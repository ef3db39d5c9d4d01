package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/toyz/axon-debug/internal/analyzer"
	"github.com/toyz/axon-debug/internal/classify"
	"github.com/toyz/axon-debug/internal/config"
	"github.com/toyz/axon-debug/internal/emitter"
	"github.com/toyz/axon-debug/internal/utils"
)

// Summary describes a finished run
type Summary struct {
	Files       int
	Handlers    int
	Routers     int
	Diagnostics int
	// Invalid lists the items reported, in emission order
	Invalid []string
	Skipped bool
}

// Checker coordinates a CLI run: load configuration, find sources, analyze
// and emit
type Checker struct {
	reader   *utils.FileReader
	scanner  *SourceScanner
	manifest *utils.CargoManifestParser
	console  *utils.Console
	out      io.Writer
}

// NewChecker creates a checker writing diagnostics to out and progress to
// console
func NewChecker(out io.Writer, console *utils.Console) *Checker {
	reader := utils.NewFileReader()
	return &Checker{
		reader:   reader,
		scanner:  NewSourceScanner(reader),
		manifest: utils.NewCargoManifestParser(reader),
		console:  console,
		out:      out,
	}
}

// LoadConfig reads the configuration file and applies the command line
// overrides on top of it
func (c *Checker) LoadConfig(cc Config) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cc.ConfigPath != "" {
		cfg, err = config.Load(cc.ConfigPath)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, wdErr
		}
		cfg, err = config.FindAndLoad(wd)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.console.Verbose("using configuration %s", cfg.Path)
	}

	if cc.Profile != "" {
		cfg.Profile = cc.Profile
	}
	if cc.Format != "" {
		cfg.Format = cc.Format
	}
	if cc.FrameworkVersion != "" {
		cfg.FrameworkVersion = cc.FrameworkVersion
	}
	if cc.NoColor {
		cfg.Color = config.ColorNever
	}
	if cfg.FrameworkVersion == "" && cfg.Profile != config.Release {
		if err := c.detectFrameworkVersion(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// detectFrameworkVersion takes the framework version from the Cargo.toml
// governing cfg.Dir when neither the configuration nor the command line
// sets one
func (c *Checker) detectFrameworkVersion(cfg *config.Config) error {
	framework := classify.DefaultDefinition().Framework
	if cfg.Classify != nil && cfg.Classify.Framework != "" {
		framework = cfg.Classify.Framework
	}
	version, ok, err := c.manifest.DependencyVersion(cfg.Dir, framework)
	if err != nil {
		return err
	}
	if ok {
		c.console.Verbose("%s %s required by %s", framework, version, utils.CargoManifestFile)
		cfg.FrameworkVersion = version
	}
	return nil
}

// Run checks the configured paths. Diagnostics are not errors: the returned
// error is set only when the run itself could not complete.
func (c *Checker) Run(cc Config) (*Summary, error) {
	start := time.Now()

	cfg, err := c.LoadConfig(cc)
	if err != nil {
		return nil, err
	}
	if cfg.Profile == config.Release {
		c.console.Verbose("release profile: nothing to check")
		return &Summary{Skipped: true}, nil
	}

	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	c.console.Verbose("classifying types for %s %s (%d names)", table.Framework(), table.Version(), table.Names())

	files, err := c.scanner.ScanPaths(cc.Paths, cfg)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		c.console.Warn("no source files found in %v", cc.Paths)
	}

	sources, err := c.scanner.ReadSources(files)
	if err != nil {
		return nil, err
	}
	c.console.Debug("%d files cached", c.reader.CachedFiles())

	a := analyzer.New(analyzer.Options{Profile: cfg.Profile, Table: table, Console: c.console})
	report, err := a.AnalyzeFiles(sources)
	if err != nil {
		return nil, err
	}

	em, err := emitter.New(cfg.Format, c.out, c.reader, emitter.TextOptions{
		Color: cfg.UseColor(utils.ShouldUseColors()),
	})
	if err != nil {
		return nil, err
	}
	for _, d := range report.Diagnostics {
		if err := em.Emit(d); err != nil {
			return nil, utils.WrapEmitError(fmt.Sprintf("diagnostic %s", d.RuleID), err)
		}
	}
	if err := em.Close(); err != nil {
		return nil, utils.WrapEmitError("diagnostics", err)
	}

	c.console.Verbose("checked %d files in %s", report.Files, time.Since(start).Round(time.Millisecond))
	return &Summary{
		Files:       report.Files,
		Handlers:    report.Handlers,
		Routers:     report.Routers,
		Diagnostics: len(report.Diagnostics),
		Invalid:     em.Invalid(),
	}, nil
}
