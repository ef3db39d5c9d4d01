package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// ConsoleLevel is the verbosity of console output
type ConsoleLevel int

const (
	ConsoleSilent ConsoleLevel = iota
	ConsoleError
	ConsoleWarn
	ConsoleInfo
	ConsoleVerbose
	ConsoleDebug
)

// Console writes progress and tracing output for people. Diagnostics about
// analyzed code go through an emitter, not the console.
type Console struct {
	level     ConsoleLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
}

// NewConsole creates a console writing to stderr at the given level
func NewConsole(level ConsoleLevel) *Console {
	return &Console{
		level:     level,
		useColors: ShouldUseColors(),
		showTime:  level >= ConsoleDebug,
		output:    os.Stderr,
		errorOut:  os.Stderr,
	}
}

// NewQuietConsole creates a console that only shows errors
func NewQuietConsole() *Console {
	return NewConsole(ConsoleError)
}

// NewVerboseConsole creates a console with tracing output
func NewVerboseConsole() *Console {
	return NewConsole(ConsoleVerbose)
}

// NewSilentConsole creates a console that writes nothing
func NewSilentConsole() *Console {
	return NewConsole(ConsoleSilent)
}

// SetOutput redirects both streams to w and turns colors off
func (c *Console) SetOutput(w io.Writer) *Console {
	c.output = w
	c.errorOut = w
	c.useColors = false
	c.showTime = false
	return c
}

// SetColors forces colors on or off
func (c *Console) SetColors(on bool) *Console {
	c.useColors = on
	return c
}

var (
	errorTag   = color.New(color.FgRed, color.Bold)
	warnTag    = color.New(color.FgYellow)
	infoTag    = color.New(color.FgBlue)
	successTag = color.New(color.FgGreen)
	verboseTag = color.New(color.FgHiBlack)
	debugTag   = color.New(color.FgMagenta)
)

// Error outputs error messages (always shown unless silent)
func (c *Console) Error(format string, args ...interface{}) {
	if c.level >= ConsoleError {
		c.writeMessage(c.errorOut, "ERROR", errorTag, format, args...)
	}
}

// Warn outputs warning messages
func (c *Console) Warn(format string, args ...interface{}) {
	if c.level >= ConsoleWarn {
		c.writeMessage(c.output, "WARN", warnTag, format, args...)
	}
}

// Info outputs informational messages
func (c *Console) Info(format string, args ...interface{}) {
	if c.level >= ConsoleInfo {
		c.writeMessage(c.output, "INFO", infoTag, format, args...)
	}
}

// Success outputs success messages with emphasis
func (c *Console) Success(format string, args ...interface{}) {
	if c.level >= ConsoleInfo {
		c.writeMessage(c.output, "OK", successTag, format, args...)
	}
}

// Verbose outputs tracing messages
func (c *Console) Verbose(format string, args ...interface{}) {
	if c.level >= ConsoleVerbose {
		c.writeMessage(c.output, "VERBOSE", verboseTag, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (c *Console) Debug(format string, args ...interface{}) {
	if c.level >= ConsoleDebug {
		c.writeMessage(c.output, "DEBUG", debugTag, format, args...)
	}
}

// Section prints a section header
func (c *Console) Section(title string) {
	if c.level >= ConsoleInfo {
		fmt.Fprintf(c.output, "%s%s\n", c.getIndent(), c.paint(color.New(color.FgCyan), title))
	}
}

// List outputs a bulleted list item
func (c *Console) List(format string, args ...interface{}) {
	if c.level >= ConsoleInfo {
		fmt.Fprintf(c.output, "%s- %s\n", c.getIndent(), fmt.Sprintf(format, args...))
	}
}

// Indent increases the indentation level
func (c *Console) Indent() {
	c.indent++
}

// Unindent decreases the indentation level
func (c *Console) Unindent() {
	if c.indent > 0 {
		c.indent--
	}
}

// Summary outputs a final summary with statistics, sorted by key
func (c *Console) Summary(title string, stats map[string]interface{}) {
	if c.level < ConsoleInfo {
		return
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(c.output, "%s\n", title)
	for _, k := range keys {
		fmt.Fprintf(c.output, "   %s: %v\n", k, stats[k])
	}
}

func (c *Console) paint(col *color.Color, s string) string {
	if !c.useColors {
		return s
	}
	col.EnableColor()
	return col.Sprint(s)
}

func (c *Console) writeMessage(w io.Writer, level string, tag *color.Color, format string, args ...interface{}) {
	var out strings.Builder
	out.WriteString(c.getIndent())
	if c.showTime {
		out.WriteString(time.Now().Format("15:04:05 "))
	}
	out.WriteString(c.paint(tag, "["+level+"]"))
	out.WriteString(" ")
	out.WriteString(fmt.Sprintf(format, args...))
	out.WriteString("\n")

	fmt.Fprint(w, out.String())
}

func (c *Console) getIndent() string {
	return strings.Repeat("  ", c.indent)
}

// ShouldUseColors reports whether the terminal wants colored output
func ShouldUseColors() bool {
	// NO_COLOR wins over everything (https://no-color.org)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
