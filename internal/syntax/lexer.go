package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// rustLexer tokenizes just enough of Rust to read item signatures. Rules are
// tried in order and the first match wins, so multi-character punctuation
// precedes single characters. ">>", ">=", "&&" and "||" are deliberately not
// tokens: generic argument lists and reference types need them split.
//
// Block comments nest, so each "/*" pushes a BlockComment state that the
// matching "*/" pops.
var rustLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "CommentOpen", Pattern: `/\*`, Action: lexer.Push("BlockComment")},
		{Name: "Comment", Pattern: `//[^\n]*`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "String", Pattern: `b?r#+"(?s:.*?)"#+|b?r"[^"]*"|b?"(?:\\.|[^"\\])*"`},
		{Name: "Char", Pattern: `b?'(?:\\u\{[0-9a-fA-F]+\}|\\.|[^'\\])'`},
		{Name: "Lifetime", Pattern: `'[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Number", Pattern: `0x[0-9a-fA-F_]+[a-z0-9]*|0o[0-7_]+[a-z0-9]*|0b[01_]+[a-z0-9]*|[0-9][0-9_]*(?:\.[0-9][0-9_]*)?(?:[eE][+-]?[0-9_]+)?(?:[a-z][a-z0-9]*)?`},
		{Name: "Ident", Pattern: `r#[a-zA-Z_][a-zA-Z0-9_]*|[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Punct", Pattern: `::|->|=>|==|!=|<=|\.\.=|\.\.\.|\.\.|\+=|-=|\*=|/=|%=|\^=|&=|\|=|[-+*/%^!&|=<>@.,;:#$?~()\[\]{}]`},
		{Name: "Other", Pattern: `.`},
	},
	"BlockComment": {
		{Name: "CommentOpen", Pattern: `/\*`, Action: lexer.Push("BlockComment")},
		{Name: "CommentClose", Pattern: `\*/`, Action: lexer.Pop()},
		{Name: "CommentText", Pattern: `[^*/]+|[*/]`},
	},
})

// commentTokens are the token names the parser skips.
var commentTokens = []string{"Comment", "CommentOpen", "CommentClose", "CommentText", "Whitespace"}

var (
	symbols        = rustLexer.Symbols()
	commentType    = symbols["Comment"]
	openType       = symbols["CommentOpen"]
	closeType      = symbols["CommentClose"]
	textType       = symbols["CommentText"]
	whitespaceType = symbols["Whitespace"]
	punctType      = symbols["Punct"]
	identType      = symbols["Ident"]
	stringType     = symbols["String"]
	charType       = symbols["Char"]
	numberType     = symbols["Number"]
	lifetimeType   = symbols["Lifetime"]
)

func elided(t lexer.Token) bool {
	switch t.Type {
	case commentType, openType, closeType, textType, whitespaceType:
		return true
	}
	return false
}
