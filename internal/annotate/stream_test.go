package annotate

import (
	"strings"
	"testing"

	"github.com/dominichamon/pasta/internal/lexer"
)

func newStream(t *testing.T, src string) *TokenStream {
	t.Helper()
	s, err := NewTokenStream([]byte(src))
	if err != nil {
		t.Fatalf("NewTokenStream(%q): %v", src, err)
	}
	return s
}

func TestTokenStreamPeekIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newStream(t, "a b")
	first := s.Peek()
	second := s.Peek()
	if first != second {
		t.Fatalf("Peek changed the stream: %+v vs %+v", first, second)
	}
	tok, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tok != first {
		t.Fatalf("Next = %+v, want peeked %+v", tok, first)
	}
}

func TestTokenStreamNextExhaustion(t *testing.T) {
	t.Parallel()

	s := newStream(t, "a")
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	_, err := s.Next()
	if _, ok := err.(*ExhaustedStreamError); !ok {
		t.Fatalf("error = %T (%v), want *ExhaustedStreamError", err, err)
	}
}

func TestTokenStreamNextOfTypeSkips(t *testing.T) {
	t.Parallel()

	src := "x = 42"
	s := newStream(t, src)
	tok, err := s.NextOfType(lexer.TokenNumber)
	if err != nil {
		t.Fatalf("NextOfType: %v", err)
	}
	if got := tok.Text([]byte(src)); got != "42" {
		t.Fatalf("token = %q, want %q", got, "42")
	}

	_, err = s.NextOfType(lexer.TokenString)
	if _, ok := err.(*LexicalMismatchError); !ok {
		t.Fatalf("error = %T (%v), want *LexicalMismatchError", err, err)
	}
}

func TestTokenStreamWhitespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		oneline bool
		want    string
	}{
		{name: "spaces and tabs", src: " \t x", oneline: true, want: " \t "},
		{name: "comment", src: "  # note\nx", oneline: false, want: "  # note\n"},
		{name: "comment stops at eol when oneline", src: "  # note\nx", oneline: true, want: "  # note"},
		{name: "semicolons", src: " ; ; x", oneline: true, want: " ; ; "},
		{name: "continuation crosses line", src: " \\\n x", oneline: true, want: " \\\n "},
		{name: "newline blocked when oneline", src: " \nx", oneline: true, want: " "},
		{name: "newline consumed when multiline", src: " \n\n x", oneline: false, want: " \n\n "},
		{name: "stops at token", src: "  x  ", oneline: false, want: "  "},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newStream(t, tc.src)
			if got := s.Whitespace(tc.oneline); got != tc.want {
				t.Errorf("Whitespace(%v) = %q, want %q", tc.oneline, got, tc.want)
			}
		})
	}
}

func TestTokenStreamWhitespaceInsideGrouping(t *testing.T) {
	t.Parallel()

	s := newStream(t, " \n x")
	s.HintOpen()
	if got := s.Whitespace(true); got != " \n " {
		t.Fatalf("Whitespace inside grouping = %q, want %q", got, " \n ")
	}
	s.HintClosed()
	if d := s.Depth(); d != 0 {
		t.Fatalf("Depth = %d, want 0", d)
	}
}

func TestTokenStreamStringLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "single", src: "'a' + x", want: "'a'"},
		{name: "implicit concat", src: "'a' 'b' + x", want: "'a' 'b'"},
		{name: "concat with comment", src: "'a'  # glue\nx", want: "'a'"},
		{name: "prefixed", src: "r'\\d+' rest", want: "r'\\d+'"},
		{name: "triple", src: "'''a\nb''' rest", want: "'''a\nb'''"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newStream(t, tc.src)
			got, err := s.StringLiteral()
			if err != nil {
				t.Fatalf("StringLiteral: %v", err)
			}
			if got != tc.want {
				t.Errorf("StringLiteral = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTokenStreamStringLiteralRejectsNonString(t *testing.T) {
	t.Parallel()

	s := newStream(t, "42")
	_, err := s.StringLiteral()
	if err == nil || !strings.Contains(err.Error(), "string literal") {
		t.Fatalf("error = %v, want string literal mismatch", err)
	}
}

func TestNewTokenStreamRejectsLexErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenStream([]byte("'unterminated")); err == nil {
		t.Fatal("NewTokenStream accepted an unterminated string")
	}
}
