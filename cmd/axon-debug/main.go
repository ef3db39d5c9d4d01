package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/toyz/axon-debug/internal/analyzer"
	"github.com/toyz/axon-debug/internal/cli"
	"github.com/toyz/axon-debug/internal/config"
	"github.com/toyz/axon-debug/internal/emitter"
	"github.com/toyz/axon-debug/internal/errors"
	"github.com/toyz/axon-debug/internal/lsp"
	"github.com/toyz/axon-debug/internal/utils"
)

var version = "dev"

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1
	exitError   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("axon-debug", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configFlag  = fs.String("config", "", "Configuration file (default: axon-debug.toml searched upward)")
		formatFlag  = fs.String("format", "", "Output format: text or json")
		profileFlag = fs.String("profile", "", "Profile: debug or release")
		releaseFlag = fs.Bool("release", false, "Shorthand for -profile release")
		versionFlag = fs.String("framework-version", "", "Framework version the type table is gated at, e.g. v0.7.0")
		noColorFlag = fs.Bool("no-color", false, "Disable colored output")
		verboseFlag = fs.Bool("verbose", false, "Enable verbose output")
		quietFlag   = fs.Bool("quiet", false, "Only show errors and diagnostics")
		lspFlag     = fs.Bool("lsp", false, "Run the language server on stdio")
		showVersion = fs.Bool("version", false, "Print the version and exit")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: axon-debug [options] <paths...>\n\n")
		fmt.Fprintf(stderr, "Checks #[debug_handler] functions and debug_router! expressions against the axum\n")
		fmt.Fprintf(stderr, "handler contract and reports the first rule each handler breaks.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nPaths:\n")
		fmt.Fprintf(stderr, "  src/main.rs        Check a single file\n")
		fmt.Fprintf(stderr, "  src                Check the .rs files directly in src\n")
		fmt.Fprintf(stderr, "  ./...              Check every .rs file below the current directory\n")
		fmt.Fprintf(stderr, "\nExit status: 0 when clean, 1 when a handler is invalid, 2 on errors.\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitError
	}

	if *showVersion {
		fmt.Fprintf(stdout, "axon-debug %s\n", version)
		return exitOK
	}

	var console *utils.Console
	switch {
	case *quietFlag:
		console = utils.NewQuietConsole()
	case *verboseFlag:
		console = utils.NewVerboseConsole()
	default:
		console = utils.NewConsole(utils.ConsoleWarn)
	}
	console.SetOutput(stderr)
	if !*noColorFlag && utils.ShouldUseColors() {
		console.SetColors(true)
	}

	cc := cli.Config{
		Paths:            fs.Args(),
		ConfigPath:       *configFlag,
		Profile:          config.Profile(*profileFlag),
		Format:           emitter.Format(*formatFlag),
		FrameworkVersion: *versionFlag,
		NoColor:          *noColorFlag,
	}
	if *releaseFlag {
		cc.Profile = config.Release
	}

	checker := cli.NewChecker(stdout, console)

	if *lspFlag {
		return runLSP(checker, cc, console, *verboseFlag)
	}

	if len(cc.Paths) == 0 {
		fmt.Fprintf(stderr, "Error: at least one path is required\n\n")
		fs.Usage()
		return exitError
	}

	console.Info("checking %s", strings.Join(cc.Paths, ", "))
	summary, err := checker.Run(cc)
	if err != nil {
		reportError(console, err)
		return exitError
	}
	if summary.Skipped {
		return exitOK
	}

	console.Summary("axon-debug:", map[string]interface{}{
		"files":       summary.Files,
		"handlers":    summary.Handlers,
		"routers":     summary.Routers,
		"diagnostics": summary.Diagnostics,
	})
	if len(summary.Invalid) > 0 {
		console.Section("invalid:")
		console.Indent()
		for _, item := range summary.Invalid {
			console.List("%s", item)
		}
		console.Unindent()
		return exitInvalid
	}
	console.Success("no problems found")
	return exitOK
}

func runLSP(checker *cli.Checker, cc cli.Config, console *utils.Console, verbose bool) int {
	verbosity := 0
	if verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	cfg, err := checker.LoadConfig(cc)
	if err != nil {
		reportError(console, err)
		return exitError
	}
	table, err := cfg.Table()
	if err != nil {
		console.Error("%v", err)
		return exitError
	}

	a := analyzer.New(analyzer.Options{Profile: cfg.Profile, Table: table})
	if err := lsp.New(a, version).RunStdio(); err != nil {
		console.Error("language server: %v", err)
		return exitError
	}
	return exitOK
}

// reportError prints err followed by the suggestions carried anywhere in
// its chain.
func reportError(console *utils.Console, err error) {
	console.Error("%v", err)
	for _, hint := range hints(err) {
		console.Error("hint: %s", hint)
	}
}

// hints collects suggestions depth-first through both single and
// multi-error wrapping, dropping repeats.
func hints(err error) []string {
	var (
		out  []string
		seen = map[string]bool{}
		walk func(error)
	)
	walk = func(e error) {
		if e == nil {
			return
		}
		if axonErr, ok := e.(errors.AxonError); ok {
			for _, hint := range axonErr.Suggestions() {
				if !seen[hint] {
					seen[hint] = true
					out = append(out, hint)
				}
			}
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
