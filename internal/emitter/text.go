package emitter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/toyz/axon-debug/internal/diagnostic"
	"github.com/toyz/axon-debug/internal/syntax"
)

// TextOptions configures the text emitter.
type TextOptions struct {
	Color bool
}

// Text renders diagnostics in the style of rustc:
//
//	error[async-handler]: handlers must be async functions
//	  --> src/main.rs:3:1
//	   |
//	 3 | fn handler() -> &'static str {
//	   | ^^
type Text struct {
	tracker
	w       io.Writer
	sources Sources

	level   *color.Color
	title   *color.Color
	gutter  *color.Color
	primary *color.Color
}

// NewText returns a text emitter writing to w.
func NewText(w io.Writer, sources Sources, opts TextOptions) *Text {
	t := &Text{
		w:       w,
		sources: sources,
		level:   color.New(color.FgRed, color.Bold),
		title:   color.New(color.Bold),
		gutter:  color.New(color.FgBlue, color.Bold),
		primary: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{t.level, t.title, t.gutter, t.primary} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// snippet is one underlined source line.
type snippet struct {
	span    syntax.Span
	mark    string
	label   string
	newFile bool
}

// Emit renders d.
func (t *Text) Emit(d diagnostic.Diagnostic) error {
	t.record(d)

	snippets := []snippet{{span: d.Span, mark: "^"}}
	for _, n := range d.Notes {
		snippets = append(snippets, snippet{
			span:    n.Span,
			mark:    "-",
			label:   n.Message,
			newFile: n.Span.File != d.Span.File,
		})
	}
	width := 1
	for _, s := range snippets {
		if n := len(strconv.Itoa(s.span.Start.Line)); n > width {
			width = n
		}
	}
	pad := strings.Repeat(" ", width+2)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%s\n",
		t.level.Sprintf("error[%s]", d.RuleID),
		t.title.Sprintf(": %s", d.Message))
	fmt.Fprintf(&sb, "%s%s %s\n", pad[1:], t.gutter.Sprint("-->"), d.Span)

	for _, s := range snippets {
		if s.newFile {
			fmt.Fprintf(&sb, "%s%s %s\n", pad[1:], t.gutter.Sprint(":::"), s.span)
		}
		src, ok := t.sources.Source(s.span.File)
		if !ok {
			continue
		}
		line, ok := sourceLine(src, s.span.Start.Line)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s%s\n", pad, t.gutter.Sprint("|"))
		num := fmt.Sprintf(" %*d ", width, s.span.Start.Line)
		fmt.Fprintf(&sb, "%s%s %s\n", t.gutter.Sprint(num), t.gutter.Sprint("|"), line)

		marks := underline(line, s.span, s.mark)
		if s.label != "" {
			marks += " " + s.label
		}
		paint := t.primary
		if s.mark != "^" {
			paint = t.gutter
		}
		fmt.Fprintf(&sb, "%s%s %s%s\n", pad, t.gutter.Sprint("|"),
			leading(line, s.span.Start.Column), paint.Sprint(marks))
	}
	sb.WriteString("\n")

	_, err := io.WriteString(t.w, sb.String())
	return err
}

// Close is a no-op; text diagnostics are written as they are emitted.
func (t *Text) Close() error { return nil }

// sourceLine returns the 1-based line n of src without its terminator.
func sourceLine(src string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	for i := 1; i < n; i++ {
		nl := strings.IndexByte(src, '\n')
		if nl < 0 {
			return "", false
		}
		src = src[nl+1:]
	}
	if nl := strings.IndexByte(src, '\n'); nl >= 0 {
		src = src[:nl]
	}
	return strings.TrimSuffix(src, "\r"), true
}

// leading returns the whitespace that aligns a marker under the 1-based rune
// column col of line, keeping tabs so the marker lines up in any terminal.
func leading(line string, col int) string {
	var sb strings.Builder
	i := 1
	for _, r := range line {
		if i >= col {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
		i++
	}
	for ; i < col; i++ {
		sb.WriteRune(' ')
	}
	return sb.String()
}

// underline returns the marker run for the part of span on line. The run is
// never shorter than one mark.
func underline(line string, span syntax.Span, mark string) string {
	n := 1
	if !span.Empty() {
		start := span.Start.Column - 1
		if start > utf8.RuneCountInString(line) {
			start = utf8.RuneCountInString(line)
		}
		end := utf8.RuneCountInString(line)
		if span.End.Line == span.Start.Line {
			end = span.End.Column - 1
		}
		if end-start > n {
			n = end - start
		}
	}
	return strings.Repeat(mark, n)
}
