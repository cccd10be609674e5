package augment

import (
	"fmt"

	"github.com/dominichamon/pasta/internal/scope"
	"github.com/dominichamon/pasta/internal/syntax"
)

// SplitImport moves one alias out of an import statement into a new import
// statement inserted immediately after it, and returns the new statement.
//
// The moved alias keeps its formatting record, so its original spelling
// survives; the new statement has no record and renders with default
// formatting. The statement list containing node is located through the
// scope's parent index across the parent's candidate statement lists, so
// imports nested under any block (function, class, conditional arm, loop,
// handler, cleanup block) are supported.
func SplitImport(sc *scope.RootScope, node syntax.Node, alias *syntax.Alias) (syntax.Node, error) {
	fresh, err := detach(node, alias)
	if err != nil {
		return nil, err
	}

	parent := sc.Parent(node)
	if parent == nil {
		return nil, &StructuralLookupError{
			Detail: fmt.Sprintf("import %T has no recorded parent", node),
		}
	}
	for _, list := range statementLists(parent) {
		for i, stmt := range *list {
			if stmt == node {
				*list = insertAfter(*list, i, fresh)
				return fresh, nil
			}
		}
	}
	return nil, &StructuralLookupError{
		Detail: fmt.Sprintf("no statement list on %T contains the import", parent),
	}
}

// detach removes alias from node's alias list and builds a fresh statement
// of the same import kind holding only that alias.
func detach(node syntax.Node, alias *syntax.Alias) (syntax.Node, error) {
	switch imp := node.(type) {
	case *syntax.Import:
		if !removeAlias(&imp.Names, alias) {
			return nil, &StructuralLookupError{Detail: "alias is not part of the import"}
		}
		return &syntax.Import{Names: []*syntax.Alias{alias}}, nil
	case *syntax.ImportFrom:
		if !removeAlias(&imp.Names, alias) {
			return nil, &StructuralLookupError{Detail: "alias is not part of the import"}
		}
		return &syntax.ImportFrom{
			Module: imp.Module,
			Level:  imp.Level,
			Names:  []*syntax.Alias{alias},
		}, nil
	default:
		return nil, &StructuralLookupError{
			Detail: fmt.Sprintf("%T is not an import statement", node),
		}
	}
}

func removeAlias(names *[]*syntax.Alias, alias *syntax.Alias) bool {
	for i, a := range *names {
		if a == alias {
			*names = append((*names)[:i], (*names)[i+1:]...)
			return true
		}
	}
	return false
}

func insertAfter(list []syntax.Node, i int, n syntax.Node) []syntax.Node {
	out := make([]syntax.Node, 0, len(list)+1)
	out = append(out, list[:i+1]...)
	out = append(out, n)
	return append(out, list[i+1:]...)
}

// statementLists returns the candidate statement lists an import may live
// in on the given parent, in the order they are searched.
func statementLists(parent syntax.Node) []*[]syntax.Node {
	switch p := parent.(type) {
	case *syntax.Module:
		return []*[]syntax.Node{&p.Body}
	case *syntax.If:
		return []*[]syntax.Node{&p.Body, &p.OrElse}
	case *syntax.While:
		return []*[]syntax.Node{&p.Body, &p.OrElse}
	case *syntax.For:
		return []*[]syntax.Node{&p.Body, &p.OrElse}
	case *syntax.With:
		return []*[]syntax.Node{&p.Body}
	case *syntax.Try:
		return []*[]syntax.Node{&p.Body, &p.OrElse, &p.FinalBody}
	case *syntax.ExceptHandler:
		return []*[]syntax.Node{&p.Body}
	case *syntax.FunctionDef:
		return []*[]syntax.Node{&p.Body}
	case *syntax.ClassDef:
		return []*[]syntax.Node{&p.Body}
	default:
		return nil
	}
}
