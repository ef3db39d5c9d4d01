package syntax

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Position is a point in a source file. Line and Column are 1-based,
// Column counts runes and Offset counts bytes.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a half-open source range.
type Span struct {
	File  string   `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// SpanOf converts a pair of lexer positions into a span.
func SpanOf(start, end lexer.Position) Span {
	s := Span{
		File:  start.Filename,
		Start: Position{Offset: start.Offset, Line: start.Line, Column: start.Column},
		End:   Position{Offset: end.Offset, Line: end.Line, Column: end.Column},
	}
	if s.End.Offset < s.Start.Offset {
		s.End = s.Start
	}
	return s
}

// PointSpan returns an empty span at pos.
func PointSpan(pos lexer.Position) Span {
	return SpanOf(pos, pos)
}

// Point returns an empty span at the end of s.
func (s Span) Point() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}

// Empty reports whether the span covers no text.
func (s Span) Empty() bool {
	return s.End.Offset <= s.Start.Offset
}

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Text returns the spanned source text.
func (s Span) Text(source string) string {
	if s.Start.Offset < 0 || s.End.Offset > len(source) || s.Empty() {
		return ""
	}
	return source[s.Start.Offset:s.End.Offset]
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}
