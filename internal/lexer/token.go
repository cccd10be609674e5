// Package lexer provides a span-preserving tokenizer for Python source.
//
// Only significant tokens are produced: names, keywords, literals, and
// operators. Whitespace, comments, newlines, backslash continuations, and
// statement-separator semicolons are deliberately left in the gaps between
// token spans; callers that need the exact inter-token text slice it out of
// the source buffer.
package lexer

import (
	"fmt"

	"github.com/dominichamon/pasta/internal/text"
)

// TokenKind identifies the syntactic category of a token.
type TokenKind uint8

// TokenKind values used by the Python lexer.
const (
	TokenError TokenKind = iota
	TokenEOF
	TokenName
	TokenNumber
	TokenString
	TokenOp
)

func (k TokenKind) String() string {
	switch k {
	case TokenError:
		return "Error"
	case TokenEOF:
		return "EOF"
	case TokenName:
		return "Name"
	case TokenNumber:
		return "Number"
	case TokenString:
		return "String"
	case TokenOp:
		return "Op"
	default:
		return fmt.Sprintf("TokenKind(%d)", k)
	}
}

// Token is a lexed token with a source span.
type Token struct {
	Kind TokenKind
	Span text.Span
}

// Bytes returns the token bytes referenced by Span or nil if Span is invalid for src.
func (t Token) Bytes(src []byte) []byte {
	return bytesForSpan(src, t.Span)
}

// Text returns the exact source spelling of the token.
func (t Token) Text(src []byte) string {
	return string(t.Bytes(src))
}

// Keywords of the language. Keywords lex as TokenName; this set exists for
// callers that need to distinguish them from identifiers.
var Keywords = map[string]bool{
	"False": true, "None": true, "True": true,
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

func bytesForSpan(src []byte, sp text.Span) []byte {
	if !sp.IsValid() {
		return nil
	}
	if sp.End > text.ByteOffset(len(src)) {
		return nil
	}
	return src[sp.Start:sp.End]
}
