package augment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominichamon/pasta/internal/annotate"
	"github.com/dominichamon/pasta/internal/scope"
	"github.com/dominichamon/pasta/internal/syntax"
)

func annotatedTree(t *testing.T, src string) *syntax.Module {
	t.Helper()
	tree, err := syntax.Parse(context.Background(), []byte(src))
	require.NoError(t, err, "Parse(%q)", src)
	require.NoError(t, annotate.Annotate([]byte(src), tree), "Annotate(%q)", src)
	return tree
}

func render(t *testing.T, tree *syntax.Module) string {
	t.Helper()
	out, err := annotate.Generate(tree)
	require.NoError(t, err, "Generate")
	return out
}

// findAlias locates the import statement binding name and the alias itself.
func findAlias(tree *syntax.Module, name string) (syntax.Node, *syntax.Alias) {
	var node syntax.Node
	var alias *syntax.Alias
	syntax.Walk(tree, func(n syntax.Node) bool {
		if alias != nil {
			return false
		}
		var names []*syntax.Alias
		switch imp := n.(type) {
		case *syntax.Import:
			names = imp.Names
		case *syntax.ImportFrom:
			names = imp.Names
		default:
			return true
		}
		for _, a := range names {
			bound := a.AsName
			if bound == "" {
				bound = a.Name
			}
			if bound == name {
				node, alias = n, a
				return false
			}
		}
		return true
	})
	return node, alias
}

func TestSplitImportMiddleAlias(t *testing.T) {
	t.Parallel()

	src := "import aaa, bbb, ccc\n"
	tree := annotatedTree(t, src)
	node, alias := findAlias(tree, "bbb")
	require.NotNil(t, alias)

	fresh, err := SplitImport(scope.Analyze(tree), node, alias)
	require.NoError(t, err)

	imp, ok := fresh.(*syntax.Import)
	require.True(t, ok, "fresh statement is %T", fresh)
	require.Len(t, imp.Names, 1)
	assert.Same(t, alias, imp.Names[0])

	assert.Equal(t, "import aaa, ccc\nimport bbb\n", render(t, tree))
}

func TestSplitImportKeepsAliasSpelling(t *testing.T) {
	t.Parallel()

	src := "import aaa,  bbb  as  b, ccc\n"
	tree := annotatedTree(t, src)
	node, alias := findAlias(tree, "b")
	require.NotNil(t, alias)

	_, err := SplitImport(scope.Analyze(tree), node, alias)
	require.NoError(t, err)

	assert.Equal(t, "import aaa, ccc\nimport  bbb  as  b\n", render(t, tree))
}

func TestSplitImportFrom(t *testing.T) {
	t.Parallel()

	src := "from pkg.mod import first, second\n"
	tree := annotatedTree(t, src)
	node, alias := findAlias(tree, "second")
	require.NotNil(t, alias)

	fresh, err := SplitImport(scope.Analyze(tree), node, alias)
	require.NoError(t, err)

	frm, ok := fresh.(*syntax.ImportFrom)
	require.True(t, ok, "fresh statement is %T", fresh)
	assert.Equal(t, "pkg.mod", frm.Module)

	assert.Equal(t, "from pkg.mod import first\nfrom pkg.mod import second\n", render(t, tree))
}

func TestSplitImportNestedInBlock(t *testing.T) {
	t.Parallel()

	src := "def f():\n    if cond:\n        import aaa, bbb\n"
	tree := annotatedTree(t, src)
	node, alias := findAlias(tree, "bbb")
	require.NotNil(t, alias)

	_, err := SplitImport(scope.Analyze(tree), node, alias)
	require.NoError(t, err)

	want := "def f():\n    if cond:\n        import aaa\n        import bbb\n"
	assert.Equal(t, want, render(t, tree))
}

func TestSplitImportInTryHandler(t *testing.T) {
	t.Parallel()

	src := "try:\n    import aaa, bbb\nexcept ImportError:\n    import ccc, ddd\n"
	tree := annotatedTree(t, src)

	node, alias := findAlias(tree, "ddd")
	require.NotNil(t, alias)
	_, err := SplitImport(scope.Analyze(tree), node, alias)
	require.NoError(t, err)

	want := "try:\n    import aaa, bbb\nexcept ImportError:\n    import ccc\n    import ddd\n"
	assert.Equal(t, want, render(t, tree))
}

func TestSplitImportRejectsForeignAlias(t *testing.T) {
	t.Parallel()

	src := "import aaa, bbb\nimport ccc, ddd\n"
	tree := annotatedTree(t, src)
	node, _ := findAlias(tree, "aaa")
	_, foreign := findAlias(tree, "ccc")
	require.NotNil(t, foreign)

	_, err := SplitImport(scope.Analyze(tree), node, foreign)
	var lookupErr *StructuralLookupError
	require.ErrorAs(t, err, &lookupErr)
}

func TestSplitImportRejectsNonImport(t *testing.T) {
	t.Parallel()

	src := "import aaa, bbb\n"
	tree := annotatedTree(t, src)
	_, alias := findAlias(tree, "aaa")
	require.NotNil(t, alias)

	_, err := SplitImport(scope.Analyze(tree), tree.Body[0].(*syntax.Import).Names[0], alias)
	var lookupErr *StructuralLookupError
	require.ErrorAs(t, err, &lookupErr)
}
