package syntax

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// TreeKind classifies a token tree.
type TreeKind int

const (
	IdentTree TreeKind = iota
	PunctTree
	LiteralTree
	GroupTree
)

// TokenTree is a token or a bracketed group of token trees, the shape
// expression-level analysis works on.
type TokenTree struct {
	Kind     TreeKind
	Text     string // token text, or the opening delimiter of a group
	Span     Span
	Children []TokenTree
}

// Is reports whether the tree is the token text.
func (t TokenTree) Is(text string) bool {
	return t.Kind != GroupTree && t.Text == text
}

// IsGroup reports whether the tree is a group opened by delim.
func (t TokenTree) IsGroup(delim string) bool {
	return t.Kind == GroupTree && t.Text == delim
}

// Trees builds token trees from raw tokens, dropping comments and
// whitespace. Unbalanced closing delimiters are kept as punctuation.
func Trees(tokens []lexer.Token) []TokenTree {
	b := &treeBuilder{}
	for _, tok := range tokens {
		if elided(tok) || tok.EOF() {
			continue
		}
		b.add(tok)
	}
	return b.finish()
}

// Trees returns the contents of the group, without its delimiters.
func (g *Group) Trees() []TokenTree {
	trees := Trees(g.Tokens)
	if len(trees) == 1 && trees[0].Kind == GroupTree {
		return trees[0].Children
	}
	return trees
}

// Trees returns the expression's token trees.
func (e *Expr) Trees() []TokenTree {
	return Trees(e.Tokens)
}

type frame struct {
	open     lexer.Token
	children []TokenTree
}

type treeBuilder struct {
	stack []frame
	root  []TokenTree
}

func (b *treeBuilder) push(t TokenTree) {
	if n := len(b.stack); n > 0 {
		b.stack[n-1].children = append(b.stack[n-1].children, t)
		return
	}
	b.root = append(b.root, t)
}

func (b *treeBuilder) add(tok lexer.Token) {
	switch tok.Value {
	case "(", "[", "{":
		b.stack = append(b.stack, frame{open: tok})
		return
	case ")", "]", "}":
		if n := len(b.stack); n > 0 && closes(b.stack[n-1].open.Value, tok.Value) {
			top := b.stack[n-1]
			b.stack = b.stack[:n-1]
			end := tok.Pos
			end.Advance(tok.Value)
			b.push(TokenTree{
				Kind:     GroupTree,
				Text:     top.open.Value,
				Span:     SpanOf(top.open.Pos, end),
				Children: top.children,
			})
			return
		}
	}
	b.push(leaf(tok))
}

func (b *treeBuilder) finish() []TokenTree {
	// Flatten unterminated groups back into their parents.
	for len(b.stack) > 0 {
		n := len(b.stack)
		top := b.stack[n-1]
		b.stack = b.stack[:n-1]
		b.push(leaf(top.open))
		for _, c := range top.children {
			b.push(c)
		}
	}
	return b.root
}

func leaf(tok lexer.Token) TokenTree {
	end := tok.Pos
	end.Advance(tok.Value)
	kind := PunctTree
	switch tok.Type {
	case identType:
		kind = IdentTree
	case stringType, charType, numberType, lifetimeType:
		kind = LiteralTree
	}
	return TokenTree{Kind: kind, Text: tok.Value, Span: SpanOf(tok.Pos, end)}
}

func closes(open, close string) bool {
	switch open {
	case "(":
		return close == ")"
	case "[":
		return close == "]"
	case "{":
		return close == "}"
	}
	return false
}

// SplitArgs splits trees on top-level commas.
func SplitArgs(trees []TokenTree) [][]TokenTree {
	var (
		args    [][]TokenTree
		current []TokenTree
	)
	for _, t := range trees {
		if t.Is(",") {
			args = append(args, current)
			current = nil
			continue
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		args = append(args, current)
	}
	return args
}

// PathOf returns the segments of trees when they form exactly a simple path
// such as handlers::root, ok is false otherwise.
func PathOf(trees []TokenTree) (segments []string, ok bool) {
	if len(trees) == 0 {
		return nil, false
	}
	expectIdent := true
	for i, t := range trees {
		switch {
		case expectIdent && t.Kind == IdentTree:
			segments = append(segments, t.Text)
		case !expectIdent && t.Is("::"):
		case i == 0 && t.Is("::"):
			continue
		default:
			return nil, false
		}
		expectIdent = !expectIdent
	}
	if expectIdent {
		return nil, false
	}
	return segments, true
}

// Render joins trees back into compact source text.
func Render(trees []TokenTree) string {
	var sb strings.Builder
	for i, t := range trees {
		if i > 0 && spaced(trees[i-1], t) {
			sb.WriteByte(' ')
		}
		if t.Kind == GroupTree {
			sb.WriteString(t.Text)
			sb.WriteString(Render(t.Children))
			sb.WriteString(closing(t.Text))
			continue
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func spaced(prev, next TokenTree) bool {
	return prev.Kind != PunctTree && prev.Kind != GroupTree && next.Kind != PunctTree && next.Kind != GroupTree
}

func closing(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	}
	return "}"
}
