package annotate

import (
	"fmt"

	"github.com/dominichamon/pasta/internal/lexer"
	"github.com/dominichamon/pasta/internal/text"
)

// TokenStream is a forward-only cursor over the significant tokens of a
// source buffer plus the raw bytes between them. Significant tokens advance
// by exact span; the inter-token gaps (whitespace, comments, continuations,
// statement separators) are consumed byte-wise by Whitespace. The cursor
// therefore accounts for every input byte exactly once.
//
// A grouping-depth counter, driven by the caller through HintOpen and
// HintClosed as bracket tokens are matched, controls whether Whitespace may
// cross physical line boundaries.
type TokenStream struct {
	src    []byte
	lines  *text.LineIndex
	tokens []lexer.Token

	idx    int
	cursor int
	depth  int
}

// NewTokenStream lexes src. Lexing diagnostics are fatal: a tree can only be
// annotated against source the tokenizer fully understands.
func NewTokenStream(src []byte) (*TokenStream, error) {
	res := lexer.Lex(src)
	lines := text.NewLineIndex(src)
	if len(res.Diagnostics) > 0 {
		d := res.Diagnostics[0]
		pos, _ := lines.OffsetToPoint(d.Span.Start)
		return nil, fmt.Errorf("tokenize at %s: %s", pos, d.Message)
	}
	return &TokenStream{src: src, lines: lines, tokens: res.Tokens}, nil
}

// checkpoint captures the full cursor state for speculative lookahead.
type checkpoint struct {
	idx    int
	cursor int
	depth  int
}

func (s *TokenStream) save() checkpoint {
	return checkpoint{idx: s.idx, cursor: s.cursor, depth: s.depth}
}

func (s *TokenStream) restore(cp checkpoint) {
	s.idx, s.cursor, s.depth = cp.idx, cp.cursor, cp.depth
}

// Peek returns the next significant token without advancing. At end of input
// the returned token has kind EOF.
func (s *TokenStream) Peek() lexer.Token {
	return s.tokens[s.idx]
}

// Next returns the next significant token and advances past it, jumping the
// byte cursor to the token's end.
func (s *TokenStream) Next() (lexer.Token, error) {
	tok := s.tokens[s.idx]
	if tok.Kind == lexer.TokenEOF {
		return tok, &ExhaustedStreamError{Pos: s.pos()}
	}
	s.idx++
	s.cursor = int(tok.Span.End)
	return tok, nil
}

// NextOfType advances until a token of the requested kind is found and
// returns it, discarding any skipped text. Exhaustion is a lexical mismatch.
func (s *TokenStream) NextOfType(kind lexer.TokenKind) (lexer.Token, error) {
	for {
		tok := s.tokens[s.idx]
		if tok.Kind == lexer.TokenEOF {
			return tok, &LexicalMismatchError{Want: kind, Pos: s.pos()}
		}
		s.idx++
		s.cursor = int(tok.Span.End)
		if tok.Kind == kind {
			return tok, nil
		}
	}
}

// HintOpen records that an opening grouping token was consumed.
func (s *TokenStream) HintOpen() { s.depth++ }

// HintClosed records that a closing grouping token was consumed.
func (s *TokenStream) HintClosed() {
	if s.depth > 0 {
		s.depth--
	}
}

// Depth reports the current grouping nesting depth.
func (s *TokenStream) Depth() int { return s.depth }

// Cursor reports the byte offset up to which input has been consumed.
func (s *TokenStream) Cursor() int { return s.cursor }

// Whitespace consumes a run of insignificant bytes at the cursor and returns
// the exact text: spaces, tabs, comments, backslash continuations, and
// statement separators; newlines only when oneline is false or the grouping
// depth is positive. The run never crosses into the next significant token.
func (s *TokenStream) Whitespace(oneline bool) string {
	limit := int(s.tokens[s.idx].Span.Start)
	start := s.cursor
	i := s.cursor

scan:
	for i < limit {
		switch s.src[i] {
		case ' ', '\t', '\v', '\f', ';':
			i++
		case '#':
			for i < limit && s.src[i] != '\n' {
				i++
			}
		case '\\':
			if i+1 < limit && s.src[i+1] == '\n' {
				i += 2
			} else if i+2 < limit && s.src[i+1] == '\r' && s.src[i+2] == '\n' {
				i += 3
			} else {
				break scan
			}
		case '\n':
			if oneline && s.depth == 0 {
				break scan
			}
			i++
		case '\r':
			if oneline && s.depth == 0 {
				break scan
			}
			i++
			if i < limit && s.src[i] == '\n' {
				i++
			}
		default:
			break scan
		}
	}

	s.cursor = i
	return string(s.src[start:i])
}

// StringLiteral consumes a string token and returns its exact spelling,
// folding in implicitly concatenated adjacent string literals together with
// the whitespace between them.
func (s *TokenStream) StringLiteral() (string, error) {
	tok, err := s.Next()
	if err != nil {
		return "", err
	}
	if tok.Kind != lexer.TokenString {
		return "", &TokenMismatchError{
			Want: "string literal",
			Got:  tok.Text(s.src),
			Pos:  s.posAt(int(tok.Span.Start)),
			Line: s.lineAt(int(tok.Span.Start)),
		}
	}

	out := tok.Text(s.src)
	for {
		cp := s.save()
		ws := s.Whitespace(true)
		next := s.Peek()
		if next.Kind != lexer.TokenString || s.cursor != int(next.Span.Start) {
			s.restore(cp)
			return out, nil
		}
		if _, err := s.Next(); err != nil {
			s.restore(cp)
			return out, nil
		}
		out += ws + next.Text(s.src)
	}
}

func (s *TokenStream) pos() text.Point {
	return s.posAt(s.cursor)
}

func (s *TokenStream) posAt(offset int) text.Point {
	pt, err := s.lines.OffsetToPoint(text.ByteOffset(offset))
	if err != nil {
		return text.Point{}
	}
	return pt
}

// lineAt returns the full source line containing offset, for error context.
func (s *TokenStream) lineAt(offset int) string {
	pt, err := s.lines.OffsetToPoint(text.ByteOffset(offset))
	if err != nil {
		return ""
	}
	line, err := s.lines.Line(pt.Line)
	if err != nil {
		return ""
	}
	return string(line)
}
