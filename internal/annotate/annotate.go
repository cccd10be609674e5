package annotate

import (
	"fmt"
	"strings"

	"github.com/dominichamon/pasta/internal/lexer"
	"github.com/dominichamon/pasta/internal/syntax"
)

// Annotate walks tree against src, attaching a formatting record to every
// node so that generation can reproduce src byte for byte. The token stream
// is consumed exactly once, left to right; every input byte ends up in
// exactly one slot. Any mismatch between the tree's structure and the source
// is fatal and leaves no partial annotation worth keeping.
func Annotate(src []byte, tree *syntax.Module) error {
	stream, err := NewTokenStream(src)
	if err != nil {
		return err
	}

	syntax.Walk(tree, func(n syntax.Node) bool {
		n.Format().Clear()
		return true
	})

	a := &annotator{src: src, stream: stream}
	if err := walk(a, tree); err != nil {
		return err
	}
	return a.complete()
}

type annotator struct {
	src    []byte
	stream *TokenStream
}

// complete verifies the completeness invariant: all input consumed, all
// groupings closed.
func (a *annotator) complete() error {
	if tok := a.stream.Peek(); tok.Kind != lexer.TokenEOF {
		return a.mismatch("end of source", tok.Text(a.src), int(tok.Span.Start))
	}
	if a.stream.Cursor() != len(a.src) {
		return a.mismatch("end of source", string(a.src[a.stream.Cursor():]), a.stream.Cursor())
	}
	if d := a.stream.Depth(); d != 0 {
		return fmt.Errorf("annotate: %d grouping constructs left open", d)
	}
	return nil
}

func (a *annotator) mismatch(want, got string, offset int) error {
	return &TokenMismatchError{
		Want: want,
		Got:  got,
		Pos:  a.stream.posAt(offset),
		Line: a.stream.lineAt(offset),
	}
}

// token matches val against the stream. Multi-token values such as dotted
// names match as long as no gap separates the pieces, so the consumed text
// always equals val exactly and needs no slot.
func (a *annotator) token(val string) error {
	matched := ""
	start := a.stream.Cursor()
	for {
		tok := a.stream.Peek()
		if tok.Kind == lexer.TokenEOF {
			return &ExhaustedStreamError{Pos: a.stream.pos()}
		}
		if a.stream.Cursor() != int(tok.Span.Start) {
			got := string(a.src[a.stream.Cursor():tok.Span.End])
			return a.mismatch(val, got, a.stream.Cursor())
		}
		if _, err := a.stream.Next(); err != nil {
			return err
		}
		matched += tok.Text(a.src)
		if matched == val {
			break
		}
		if !strings.HasPrefix(val, matched) {
			return a.mismatch(val, matched, start)
		}
	}

	switch val {
	case "(", "[", "{":
		a.stream.HintOpen()
	case ")", "]", "}":
		a.stream.HintClosed()
	}
	return nil
}

func (a *annotator) attr(n syntax.Node, slot string, parts []part, deps []dep, def string) error {
	rec := n.Format()
	for _, d := range deps {
		rec.SetDep(d.name, d.value)
	}
	rec.Append(slot, "")
	for _, p := range parts {
		if p.fn == nil {
			if err := a.token(p.tok); err != nil {
				return err
			}
			rec.Append(slot, p.tok)
			continue
		}
		txt, err := p.fn()
		if err != nil {
			return err
		}
		rec.Append(slot, txt)
	}
	return nil
}

func (a *annotator) blockAttr(n syntax.Node, slot string, parts []part, def string) error {
	return a.attr(n, slot, parts, nil, "")
}

func (a *annotator) optionalSuffix(n syntax.Node, slot, tok string) error {
	next := a.stream.Peek()
	if next.Kind == lexer.TokenEOF || next.Text(a.src) != tok {
		return nil
	}
	if a.stream.Cursor() != int(next.Span.Start) {
		return nil
	}
	if err := a.token(tok); err != nil {
		return err
	}
	n.Format().Append(slot, tok+a.stream.Whitespace(true))
	return nil
}

func (a *annotator) optionalEmptyParens(n syntax.Node, slot string) error {
	next := a.stream.Peek()
	if next.Kind != lexer.TokenOp || next.Text(a.src) != "(" {
		return nil
	}
	parts := []part{lit("("), a.ws(false), lit(")")}
	return a.attr(n, slot, parts, nil, "")
}

func (a *annotator) ws(oneline bool) part {
	return part{fn: func() (string, error) {
		return a.stream.Whitespace(oneline), nil
	}}
}

func (a *annotator) stmtPrefix(n syntax.Node) error {
	return a.attr(n, "prefix", []part{a.ws(false)}, nil, "")
}

// parenthesized consumes as many wrapping parenthesis pairs as the converter
// recorded on the node, folding them into the prefix and suffix slots so
// replay is exact.
func (a *annotator) parenthesized(n syntax.Node, body func() error) error {
	for i := 0; i < n.ParenCount(); i++ {
		if err := a.attr(n, "prefix", []part{a.ws(false), lit("(")}, nil, ""); err != nil {
			return err
		}
	}
	if err := a.attr(n, "prefix", []part{a.ws(false)}, nil, ""); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	if err := a.attr(n, "suffix", []part{a.ws(true)}, nil, ""); err != nil {
		return err
	}
	for i := 0; i < n.ParenCount(); i++ {
		if err := a.attr(n, "suffix", []part{a.ws(true), lit(")")}, nil, ""); err != nil {
			return err
		}
	}
	return nil
}

func (a *annotator) indented(body func() error) error {
	return body()
}

func (a *annotator) strContent(n *syntax.Str) error {
	parts := []part{{fn: a.stream.StringLiteral}}
	return a.attr(n, "content", parts, []dep{{"s", n.Value}}, "")
}

func (a *annotator) numContent(n *syntax.Num) error {
	parts := []part{{fn: func() (string, error) {
		tok, err := a.stream.NextOfType(lexer.TokenNumber)
		if err != nil {
			return "", err
		}
		return tok.Text(a.src), nil
	}}}
	return a.attr(n, "content", parts, []dep{{"n", n.Value}}, "")
}

func (a *annotator) isElif(n syntax.Node) (bool, error) {
	next := a.stream.Peek()
	if next.Kind == lexer.TokenEOF {
		return false, &AmbiguityResolutionError{
			Construct: "chained conditional",
			Pos:       a.stream.pos(),
		}
	}
	if next.Kind != lexer.TokenName || next.Text(a.src) != "elif" {
		return false, nil
	}
	n.Format().SetMark("is_elif")
	return true, nil
}

func (a *annotator) isContinuedWith(n *syntax.With) (bool, error) {
	next := a.stream.Peek()
	if next.Kind == lexer.TokenEOF {
		return false, &AmbiguityResolutionError{
			Construct: "grouped resource acquisition",
			Pos:       a.stream.pos(),
		}
	}
	if next.Text(a.src) != "," {
		return false, nil
	}
	n.Format().SetMark("is_continued")
	return true, nil
}
