package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dominichamon/pasta/internal/text"
)

// DiagnosticCode identifies lexer diagnostic categories.
type DiagnosticCode string

// DiagnosticCode values emitted by the lexer.
const (
	DiagnosticInvalidByte        DiagnosticCode = "LEX_INVALID_BYTE"
	DiagnosticUnknownCharacter   DiagnosticCode = "LEX_UNKNOWN_CHARACTER"
	DiagnosticUnterminatedString DiagnosticCode = "LEX_UNTERMINATED_STRING"
)

// Diagnostic is a lexer-level issue with source location.
type Diagnostic struct {
	Code    DiagnosticCode
	Message string
	Span    text.Span
}

// Result is the output of lexing source bytes.
type Result struct {
	Tokens      []Token
	Diagnostics []Diagnostic
}

// Lex tokenizes src into a stream of significant tokens with exact spans.
func Lex(src []byte) Result {
	s := scanner{src: src}
	s.run()
	return Result{
		Tokens:      s.tokens,
		Diagnostics: s.diagnostics,
	}
}

type scanner struct {
	src         []byte
	i           int
	tokens      []Token
	diagnostics []Diagnostic
}

func (s *scanner) run() {
	for {
		s.skipInsignificant()
		if s.eof() {
			s.tokens = append(s.tokens, Token{
				Kind: TokenEOF,
				Span: span(len(s.src), len(s.src)),
			})
			return
		}
		s.tokens = append(s.tokens, s.scanToken())
	}
}

// skipInsignificant advances past whitespace, comments, newlines, and
// backslash continuations. The skipped bytes remain addressable as the gap
// between the previous and next token spans.
func (s *scanner) skipInsignificant() {
	for !s.eof() {
		switch b := s.src[s.i]; b {
		case ' ', '\t', '\v', '\f', '\n', '\r':
			s.i++
		case '#':
			for !s.eof() && s.src[s.i] != '\n' {
				s.i++
			}
		case ';':
			// Statement separators ride along in inter-token gaps, like
			// comments; no grammar position ever predicts one.
			s.i++
		case '\\':
			if s.peekByte(1) == '\n' {
				s.i += 2
				continue
			}
			if s.peekByte(1) == '\r' && s.peekByte(2) == '\n' {
				s.i += 3
				continue
			}
			return
		default:
			return
		}
	}
}

func (s *scanner) scanToken() Token {
	start := s.i
	b := s.src[s.i]

	switch {
	case b == '"' || b == '\'':
		return s.scanString(start)
	case isIdentStart(b) || b >= utf8.RuneSelf:
		return s.scanNameOrPrefixedString()
	case isDigit(b):
		return s.scanNumber()
	case b == '.' && isDigit(s.peekByte(1)):
		return s.scanNumber()
	default:
		return s.scanOperator()
	}
}

// scanNameOrPrefixedString scans an identifier, then reinterprets it as a
// string prefix when the identifier is a valid prefix immediately followed
// by a quote (r'...', b"...", rb'''...''', and friends).
func (s *scanner) scanNameOrPrefixedString() Token {
	start := s.i
	for !s.eof() {
		b := s.src[s.i]
		if isIdentPart(b) {
			s.i++
			continue
		}
		if b >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(s.src[s.i:])
			if r == utf8.RuneError && size == 1 {
				s.i++
				return *s.makeErrorToken(start, s.i, DiagnosticInvalidByte, "invalid UTF-8 byte")
			}
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			s.i += size
			continue
		}
		break
	}

	word := string(s.src[start:s.i])
	if isStringPrefix(word) && !s.eof() && (s.src[s.i] == '"' || s.src[s.i] == '\'') {
		return s.scanString(start)
	}
	return Token{Kind: TokenName, Span: span(start, s.i)}
}

func isStringPrefix(word string) bool {
	if len(word) == 0 || len(word) > 3 {
		return false
	}
	switch strings.ToLower(word) {
	case "r", "b", "u", "f", "br", "rb", "fr", "rf":
		return true
	default:
		return false
	}
}

// scanString scans a string literal starting at the opening quote or at the
// start of its prefix letters. start is the span start; s.i points at the
// first quote character.
func (s *scanner) scanString(start int) Token {
	quote := s.src[s.i]
	s.i++

	triple := false
	if s.peekByte(0) == quote && s.peekByte(1) == quote {
		triple = true
		s.i += 2
	}

	for !s.eof() {
		switch s.src[s.i] {
		case quote:
			if !triple {
				s.i++
				return Token{Kind: TokenString, Span: span(start, s.i)}
			}
			if s.peekByte(1) == quote && s.peekByte(2) == quote {
				s.i += 3
				return Token{Kind: TokenString, Span: span(start, s.i)}
			}
			s.i++
		case '\\':
			s.i++
			if !s.eof() {
				s.i++
			}
		case '\n', '\r':
			if !triple {
				return *s.makeErrorToken(start, s.i, DiagnosticUnterminatedString, "unterminated string literal")
			}
			s.i++
		default:
			s.i++
		}
	}

	return *s.makeErrorToken(start, s.i, DiagnosticUnterminatedString, "unterminated string literal")
}

func (s *scanner) scanNumber() Token {
	start := s.i

	if s.src[s.i] == '0' {
		switch s.peekByte(1) {
		case 'x', 'X':
			s.i += 2
			s.consumeDigits(isHexDigit)
			return s.finishNumber(start)
		case 'o', 'O':
			s.i += 2
			s.consumeDigits(isOctalDigit)
			return s.finishNumber(start)
		case 'b', 'B':
			s.i += 2
			s.consumeDigits(isBinaryDigit)
			return s.finishNumber(start)
		}
	}

	s.consumeDigits(isDigit)
	if s.peekByte(0) == '.' {
		s.i++
		s.consumeDigits(isDigit)
	}
	s.tryScanExponent()
	return s.finishNumber(start)
}

// finishNumber consumes an imaginary or long suffix, if present.
func (s *scanner) finishNumber(start int) Token {
	switch s.peekByte(0) {
	case 'j', 'J', 'l', 'L':
		s.i++
	}
	return Token{Kind: TokenNumber, Span: span(start, s.i)}
}

func (s *scanner) consumeDigits(valid func(byte) bool) {
	for !s.eof() && (valid(s.src[s.i]) || s.src[s.i] == '_') {
		s.i++
	}
}

func (s *scanner) tryScanExponent() {
	if s.eof() || (s.src[s.i] != 'e' && s.src[s.i] != 'E') {
		return
	}
	j := s.i + 1
	if j < len(s.src) && (s.src[j] == '+' || s.src[j] == '-') {
		j++
	}
	if j >= len(s.src) || !isDigit(s.src[j]) {
		return
	}
	s.i = j + 1
	s.consumeDigits(isDigit)
}

// operators, longest first. Matching is by exact prefix at the cursor.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"**", "//", ">>", "<<", "<=", ">=", "==", "!=", "<>", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "@=", "&=", "|=", "^=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~",
	"<", ">", "(", ")", "[", "]", "{", "}", ",", ":", ".", "=",
}

func (s *scanner) scanOperator() Token {
	start := s.i
	rest := s.src[s.i:]
	for _, op := range operators {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			s.i += len(op)
			return Token{Kind: TokenOp, Span: span(start, s.i)}
		}
	}

	b := s.src[s.i]
	if b >= utf8.RuneSelf {
		r, size := utf8.DecodeRune(rest)
		if r == utf8.RuneError && size == 1 {
			s.i++
			return *s.makeErrorToken(start, s.i, DiagnosticInvalidByte, "invalid UTF-8 byte")
		}
		s.i += size
		return *s.makeErrorToken(start, s.i, DiagnosticUnknownCharacter, fmt.Sprintf("unsupported character %q", r))
	}
	s.i++
	return *s.makeErrorToken(start, s.i, DiagnosticUnknownCharacter, fmt.Sprintf("unknown character %q", b))
}

func (s *scanner) makeErrorToken(start, end int, code DiagnosticCode, msg string) *Token {
	sp := span(start, end)
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Code:    code,
		Message: msg,
		Span:    sp,
	})
	return &Token{
		Kind: TokenError,
		Span: sp,
	}
}

func (s *scanner) eof() bool {
	return s.i >= len(s.src)
}

func (s *scanner) peekByte(delta int) byte {
	j := s.i + delta
	if j < 0 || j >= len(s.src) {
		return 0
	}
	return s.src[j]
}

func span(start, end int) text.Span {
	return text.Span{Start: text.ByteOffset(start), End: text.ByteOffset(end)}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }

func isBinaryDigit(b byte) bool { return b == '0' || b == '1' }

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
