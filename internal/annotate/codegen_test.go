package annotate

import (
	"testing"

	"github.com/dominichamon/pasta/internal/syntax"
)

func annotated(t *testing.T, src string) *syntax.Module {
	t.Helper()
	tree := mustParse(t, src)
	if err := Annotate([]byte(src), tree); err != nil {
		t.Fatalf("Annotate(%q): %v", src, err)
	}
	return tree
}

func generate(t *testing.T, tree *syntax.Module) string {
	t.Helper()
	out, err := Generate(tree)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return out
}

func findNum(t *testing.T, tree *syntax.Module) *syntax.Num {
	t.Helper()
	var num *syntax.Num
	syntax.Walk(tree, func(n syntax.Node) bool {
		if v, ok := n.(*syntax.Num); ok && num == nil {
			num = v
		}
		return true
	})
	if num == nil {
		t.Fatal("no numeric literal in tree")
	}
	return num
}

func findStr(t *testing.T, tree *syntax.Module) *syntax.Str {
	t.Helper()
	var str *syntax.Str
	syntax.Walk(tree, func(n syntax.Node) bool {
		if v, ok := n.(*syntax.Str); ok && str == nil {
			str = v
		}
		return true
	})
	if str == nil {
		t.Fatal("no string literal in tree")
	}
	return str
}

func TestGenerateUnannotatedTree(t *testing.T) {
	t.Parallel()

	tree := &syntax.Module{Body: []syntax.Node{
		&syntax.ExprStmt{Value: &syntax.Ident{Name: "x"}},
	}}
	if got := generate(t, tree); got != "x" {
		t.Fatalf("Generate = %q, want %q", got, "x")
	}
}

func TestGenerateSynthesizesParensFromCount(t *testing.T) {
	t.Parallel()

	tup := &syntax.Tuple{Elts: []syntax.Node{
		&syntax.Num{Value: "1"},
		&syntax.Num{Value: "2"},
	}}
	tup.SetParenCount(1)
	tree := &syntax.Module{Body: []syntax.Node{&syntax.ExprStmt{Value: tup}}}

	if got := generate(t, tree); got != "(1,2)" {
		t.Fatalf("Generate = %q, want %q", got, "(1,2)")
	}
}

func TestInsertedStatementRendersOnFreshLine(t *testing.T) {
	t.Parallel()

	src := "x = 1\n"
	tree := annotated(t, src)
	tree.Body = append(tree.Body, &syntax.Pass{})

	want := "x = 1\npass\n"
	if got := generate(t, tree); got != want {
		t.Fatalf("Generate = %q, want %q", got, want)
	}
}

func TestNumberSpellingSurvivesUntilValueChanges(t *testing.T) {
	t.Parallel()

	src := "x = 0x2A  # answer\n"
	tree := annotated(t, src)

	if got := generate(t, tree); got != src {
		t.Fatalf("unedited Generate = %q, want %q", got, src)
	}

	num := findNum(t, tree)
	if num.Value != "42" {
		t.Fatalf("decoded value = %q, want %q", num.Value, "42")
	}
	num.Value = "43"

	want := "x = 43  # answer\n"
	if got := generate(t, tree); got != want {
		t.Fatalf("edited Generate = %q, want %q", got, want)
	}
}

func TestStringSpellingSurvivesUntilValueChanges(t *testing.T) {
	t.Parallel()

	src := "x = r'a' 'b'\n"
	tree := annotated(t, src)

	if got := generate(t, tree); got != src {
		t.Fatalf("unedited Generate = %q, want %q", got, src)
	}

	str := findStr(t, tree)
	str.Value = "new"

	want := "x = \"new\"\n"
	if got := generate(t, tree); got != want {
		t.Fatalf("edited Generate = %q, want %q", got, want)
	}
}

func TestRenamedIdentifierKeepsSurroundingLayout(t *testing.T) {
	t.Parallel()

	src := "foo = foo  +  1\n"
	tree := annotated(t, src)
	syntax.Walk(tree, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok && id.Name == "foo" {
			id.Name = "bar"
		}
		return true
	})

	want := "bar = bar  +  1\n"
	if got := generate(t, tree); got != want {
		t.Fatalf("Generate = %q, want %q", got, want)
	}
}

func TestImportFromModuleEditInvalidatesSpelling(t *testing.T) {
	t.Parallel()

	src := "from  aaa.bbb  import thing\n"
	tree := annotated(t, src)
	imp := tree.Body[0].(*syntax.ImportFrom)
	imp.Module = "zzz"

	want := "from  zzz  import thing\n"
	if got := generate(t, tree); got != want {
		t.Fatalf("Generate = %q, want %q", got, want)
	}
}

func TestRemovedElementDropsItsText(t *testing.T) {
	t.Parallel()

	src := "items = [1,  2,  3]\n"
	tree := annotated(t, src)
	list := tree.Body[0].(*syntax.Assign).Value.(*syntax.List)
	list.Elts = append(list.Elts[:1], list.Elts[2:]...)

	want := "items = [1,  3]\n"
	if got := generate(t, tree); got != want {
		t.Fatalf("Generate = %q, want %q", got, want)
	}
}
