package syntax

import (
	"context"
	"errors"
	"testing"
)

func parse(t *testing.T, src string) *Module {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return tree
}

func TestParseStatementShapes(t *testing.T) {
	t.Parallel()

	tree := parse(t, `
import aaa.bbb as ab
from ..pkg import name as alias
x = y = 1
x += 1
del a, b
assert cond, 'msg'
raise Err('x') from cause
`)

	imp := tree.Body[0].(*Import)
	if imp.Names[0].Name != "aaa.bbb" || imp.Names[0].AsName != "ab" {
		t.Errorf("import alias = %+v", imp.Names[0])
	}

	frm := tree.Body[1].(*ImportFrom)
	if frm.Level != 2 || frm.Module != "pkg" {
		t.Errorf("from-import level=%d module=%q, want 2 and pkg", frm.Level, frm.Module)
	}
	if frm.Names[0].Name != "name" || frm.Names[0].AsName != "alias" {
		t.Errorf("from-import alias = %+v", frm.Names[0])
	}

	asg := tree.Body[2].(*Assign)
	if len(asg.Targets) != 2 {
		t.Errorf("chained assign targets = %d, want 2", len(asg.Targets))
	}

	aug := tree.Body[3].(*AugAssign)
	if aug.Op.Token() != "+" {
		t.Errorf("augmented op = %q, want +", aug.Op.Token())
	}

	del := tree.Body[4].(*Delete)
	if len(del.Targets) != 2 {
		t.Errorf("del targets = %d, want 2", len(del.Targets))
	}

	asrt := tree.Body[5].(*Assert)
	if asrt.Msg == nil {
		t.Error("assert message not captured")
	}

	rse := tree.Body[6].(*Raise)
	if rse.Exc == nil || rse.Cause == nil {
		t.Errorf("raise exc=%v cause=%v, want both set", rse.Exc, rse.Cause)
	}
}

func TestParseFoldsElifIntoNestedIf(t *testing.T) {
	t.Parallel()

	tree := parse(t, "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n")
	outer := tree.Body[0].(*If)
	if len(outer.OrElse) != 1 {
		t.Fatalf("outer OrElse = %d nodes, want 1", len(outer.OrElse))
	}
	inner, ok := outer.OrElse[0].(*If)
	if !ok {
		t.Fatalf("outer OrElse[0] = %T, want *If", outer.OrElse[0])
	}
	if len(inner.OrElse) != 1 {
		t.Fatalf("inner OrElse = %d nodes, want 1", len(inner.OrElse))
	}
	if _, ok := inner.OrElse[0].(*Pass); !ok {
		t.Fatalf("inner OrElse[0] = %T, want *Pass", inner.OrElse[0])
	}
}

func TestParseParenCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want int
	}{
		{name: "bare", src: "x", want: 0},
		{name: "single pair", src: "(x)", want: 1},
		{name: "double pair", src: "((x))", want: 2},
		{name: "parenthesized tuple", src: "(x, y)", want: 1},
		{name: "bare tuple", src: "x, y", want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tree := parse(t, tc.src)
			value := tree.Body[0].(*ExprStmt).Value
			if got := value.ParenCount(); got != tc.want {
				t.Errorf("ParenCount(%q) = %d, want %d", tc.src, got, tc.want)
			}
		})
	}
}

func TestParseGeneratorParens(t *testing.T) {
	t.Parallel()

	tree := parse(t, "a = (v for v in x)\nb = sum(v for v in x)\n")

	standalone := tree.Body[0].(*Assign).Value.(*GeneratorExp)
	if standalone.ParenCount() != 1 {
		t.Errorf("standalone generator ParenCount = %d, want 1", standalone.ParenCount())
	}

	call := tree.Body[1].(*Assign).Value.(*Call)
	arg := call.Args[0].(*GeneratorExp)
	if arg.ParenCount() != 0 {
		t.Errorf("sole-argument generator ParenCount = %d, want 0", arg.ParenCount())
	}
}

func TestParseLiteralDecoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "hex", src: "0x2A", want: "42"},
		{name: "octal", src: "0o17", want: "15"},
		{name: "binary", src: "0b101", want: "5"},
		{name: "underscores", src: "1_000", want: "1000"},
		{name: "long suffix", src: "10L", want: "10"},
		{name: "float", src: "1.50", want: "1.5"},
		{name: "imaginary keeps suffix", src: "2j", want: "2j"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tree := parse(t, tc.src)
			num := tree.Body[0].(*ExprStmt).Value.(*Num)
			if num.Value != tc.want {
				t.Errorf("decoded %q = %q, want %q", tc.src, num.Value, tc.want)
			}
		})
	}
}

func TestParseStringDecoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "plain", src: "'ab'", want: "ab"},
		{name: "escapes", src: `'a\tb\n'`, want: "a\tb\n"},
		{name: "raw keeps backslashes", src: `r'a\tb'`, want: `a\tb`},
		{name: "hex escape", src: `'\x41'`, want: "A"},
		{name: "unknown escape kept", src: `'\q'`, want: `\q`},
		{name: "implicit concat", src: "'a' 'b'", want: "ab"},
		{name: "triple", src: "'''a\nb'''", want: "a\nb"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tree := parse(t, tc.src)
			str := tree.Body[0].(*ExprStmt).Value.(*Str)
			if str.Value != tc.want {
				t.Errorf("decoded %q = %q, want %q", tc.src, str.Value, tc.want)
			}
		})
	}
}

func TestParseRejectsUnsupportedSyntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "async def", src: "async def f():\n    pass\n"},
		{name: "async for", src: "async for x in y:\n    pass\n"},
		{name: "async with", src: "async with a:\n    pass\n"},
		{name: "walrus", src: "if (n := 10) > 5:\n    pass\n"},
		{name: "fstring interpolation", src: "x = f'{a}'\n"},
		{name: "yield from", src: "def f():\n    yield from g()\n"},
		{name: "broken syntax", src: "def f(:\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(context.Background(), []byte(tc.src))
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tc.src)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %T (%v), want *ParseError", err, err)
			}
		})
	}
}
