package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominichamon/pasta/internal/syntax"
)

func analyze(t *testing.T, src string) (*syntax.Module, *RootScope) {
	t.Helper()
	tree, err := syntax.Parse(context.Background(), []byte(src))
	require.NoError(t, err, "Parse(%q)", src)
	return tree, Analyze(tree)
}

func findIdents(tree *syntax.Module, name string) []*syntax.Ident {
	var out []*syntax.Ident
	syntax.Walk(tree, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok && id.Name == name {
			out = append(out, id)
		}
		return true
	})
	return out
}

func TestImportIndexesEveryDottedPrefix(t *testing.T) {
	t.Parallel()

	_, sc := analyze(t, "import aaa.bbb.ccc\n")

	assert.Equal(t, []string{"aaa", "aaa.bbb", "aaa.bbb.ccc"}, sc.ExternalPaths())
	for _, path := range sc.ExternalPaths() {
		assert.Len(t, sc.ExternalReferences(path), 1, "references for %s", path)
	}
}

func TestFromImportIndexesModuleAndMember(t *testing.T) {
	t.Parallel()

	_, sc := analyze(t, "from aaa.bbb import ccc as c\n")

	assert.Equal(t, []string{"aaa", "aaa.bbb", "aaa.bbb.ccc"}, sc.ExternalPaths())
	assert.NotNil(t, sc.Scope.LookupName("c").Definition, "alias binding")
}

func TestImportBindsFirstSegmentOnly(t *testing.T) {
	t.Parallel()

	tree, sc := analyze(t, "import aaa.bbb\nx = aaa.bbb.ccc\n")

	require.Contains(t, sc.Names(), "aaa")
	assert.NotContains(t, sc.Names(), "bbb")

	// The attribute chain resolves through the imported module object.
	reads := findIdents(tree, "aaa")
	require.Len(t, reads, 1)
	name := sc.NameForNode(reads[0])
	require.NotNil(t, name)
	assert.Equal(t, "aaa", name.ID)
	assert.NotEmpty(t, name.Attr("bbb").Reads)
}

func TestFunctionScopeShadowsModuleScope(t *testing.T) {
	t.Parallel()

	src := `x = 1


def f():
    x = 2
    return x


y = x
`
	tree, sc := analyze(t, src)

	idents := findIdents(tree, "x")
	require.NotEmpty(t, idents)

	moduleX := sc.Scope.LookupName("x")
	require.NotNil(t, moduleX.Definition)

	var sawShadow, sawModule bool
	for _, id := range idents {
		name := sc.NameForNode(id)
		if name == nil {
			continue
		}
		if name == moduleX {
			sawModule = true
		} else {
			sawShadow = true
		}
	}
	assert.True(t, sawShadow, "no reference resolved to the shadowing definition")
	assert.True(t, sawModule, "no reference resolved to the module definition")
}

func TestLookupNeverFails(t *testing.T) {
	t.Parallel()

	tree, sc := analyze(t, "y = undefined_thing\n")

	reads := findIdents(tree, "undefined_thing")
	require.Len(t, reads, 1)
	name := sc.NameForNode(reads[0])
	require.NotNil(t, name)
	assert.Nil(t, name.Definition, "implicit root name has no definition")
	assert.Contains(t, sc.Names(), "undefined_thing")
}

func TestParentIndex(t *testing.T) {
	t.Parallel()

	tree, sc := analyze(t, "def f():\n    import os\n")

	fn := tree.Body[0].(*syntax.FunctionDef)
	imp := fn.Body[0].(*syntax.Import)

	assert.Nil(t, sc.Parent(tree))
	assert.Same(t, tree, sc.Parent(fn))
	assert.Same(t, fn, sc.Parent(imp))
}

func TestAssignmentTargetsDefine(t *testing.T) {
	t.Parallel()

	_, sc := analyze(t, "a, (b, c) = 1, (2, 3)\nd = [e for e in a]\n")

	for _, name := range []string{"a", "b", "c", "d"} {
		assert.NotNil(t, sc.Scope.LookupName(name).Definition, "definition of %s", name)
	}
}

func TestExceptHandlerBindsName(t *testing.T) {
	t.Parallel()

	_, sc := analyze(t, "try:\n    pass\nexcept ValueError as err:\n    pass\n")

	assert.NotNil(t, sc.Scope.LookupName("err").Definition)
}

func TestLambdaParametersStayLocal(t *testing.T) {
	t.Parallel()

	_, sc := analyze(t, "f = lambda v: v + 1\n")

	assert.NotNil(t, sc.Scope.LookupName("f").Definition)
	assert.NotContains(t, sc.Names(), "v", "lambda parameter leaked into module scope")
}
