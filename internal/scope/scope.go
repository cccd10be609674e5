// Package scope performs static name resolution over syntax trees: nested
// symbol tables, def/use chains, an external-reference table for imported
// paths, and a node parent index used by structural edit helpers.
//
// Resolution is deliberately shallow. It is lexical only, with no
// cross-module or flow-sensitive analysis, and it never fails: a name read
// that no enclosing scope defines is implicitly defined at the root, since
// any name might be supplied externally. The analysis result is a snapshot;
// it must be discarded and recomputed after any structural edit.
package scope

import (
	"sort"
	"strings"

	"github.com/dominichamon/pasta/internal/syntax"
)

// Name tracks one identifier: its first definition, every subsequent
// reference, and lazily created nested names for attribute-chain
// resolution.
type Name struct {
	ID         string
	Definition syntax.Node
	Reads      []syntax.Node

	attrs map[string]*Name
}

// AddReference records a read of this name.
func (n *Name) AddReference(node syntax.Node) {
	n.Reads = append(n.Reads, node)
}

// Define records a writer of this name. The first writer becomes the
// definition; later writers count as references.
func (n *Name) Define(node syntax.Node) {
	if n.Definition != nil {
		n.Reads = append(n.Reads, node)
		return
	}
	n.Definition = node
}

// Attr returns the nested name for an attribute, creating it on first use.
func (n *Name) Attr(attr string) *Name {
	if n.attrs == nil {
		n.attrs = make(map[string]*Name)
	}
	child, ok := n.attrs[attr]
	if !ok {
		child = &Name{ID: attr}
		n.attrs[attr] = child
	}
	return child
}

// Scope is one level of the lexical scope chain.
type Scope struct {
	parent *Scope
	root   *RootScope
	names  map[string]*Name
}

func newScope(parent *Scope, root *RootScope) *Scope {
	return &Scope{parent: parent, root: root, names: make(map[string]*Name)}
}

// DefineName records a binding occurrence of name in this scope.
func (s *Scope) DefineName(name string, node syntax.Node) *Name {
	obj, ok := s.names[name]
	if !ok {
		obj = &Name{ID: name}
		s.names[name] = obj
	}
	obj.Define(node)
	return obj
}

// LookupName resolves name through the scope chain. An undefined name is
// implicitly defined at the root, so lookup never fails.
func (s *Scope) LookupName(name string) *Name {
	for cur := s; cur != nil; cur = cur.parent {
		if obj, ok := cur.names[name]; ok {
			return obj
		}
	}
	obj := &Name{ID: name}
	s.root.names[name] = obj
	return obj
}

// Names returns the identifiers defined directly in this scope, sorted.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RootScope is the module-level scope plus the whole-tree indexes built by
// Analyze.
type RootScope struct {
	Scope

	externalRefs map[string][]syntax.Node
	parents      map[syntax.Node]syntax.Node
	nodeNames    map[syntax.Node]*Name
}

// Parent returns the syntactic parent recorded for node, or nil for the
// root and for nodes outside the analyzed tree.
func (r *RootScope) Parent(node syntax.Node) syntax.Node {
	return r.parents[node]
}

// NameForNode returns the resolved Name for a read occurrence, or nil.
func (r *RootScope) NameForNode(node syntax.Node) *Name {
	return r.nodeNames[node]
}

// ExternalReferences returns every node that referenced the given dotted
// import path.
func (r *RootScope) ExternalReferences(path string) []syntax.Node {
	return r.externalRefs[path]
}

// ExternalPaths returns all referenced dotted import paths, sorted.
func (r *RootScope) ExternalPaths() []string {
	out := make([]string, 0, len(r.externalRefs))
	for path := range r.externalRefs {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// addExternalReference records node against path and, when packages is set,
// against every dotted prefix of path.
func (r *RootScope) addExternalReference(path string, node syntax.Node, packages bool) {
	paths := []string{path}
	if packages {
		parts := strings.Split(path, ".")
		for i := 1; i < len(parts); i++ {
			paths = append(paths, strings.Join(parts[:i], "."))
		}
	}
	for _, p := range paths {
		r.externalRefs[p] = append(r.externalRefs[p], node)
	}
}

// Analyze resolves names over the whole tree and returns the root scope
// with its parent and external-reference indexes.
func Analyze(tree *syntax.Module) *RootScope {
	root := &RootScope{
		externalRefs: make(map[string][]syntax.Node),
		parents:      make(map[syntax.Node]syntax.Node),
		nodeNames:    make(map[syntax.Node]*Name),
	}
	root.Scope.root = root
	root.Scope.names = make(map[string]*Name)

	v := &visitor{root: root, scope: &root.Scope}
	v.visit(tree)
	return root
}

type visitor struct {
	root   *RootScope
	scope  *Scope
	parent syntax.Node
}

func (v *visitor) visit(n syntax.Node) {
	if n == nil {
		return
	}
	v.root.parents[n] = v.parent
	prev := v.parent
	v.parent = n
	v.visitNode(n)
	v.parent = prev
}

func (v *visitor) visitAll(nodes []syntax.Node) {
	for _, n := range nodes {
		v.visit(n)
	}
}

// visitTarget handles a binding-context occurrence: bare identifiers and
// unpacking displays define names; anything else (attribute or subscript
// targets) reads its base as a value.
func (v *visitor) visitTarget(n syntax.Node) {
	if n == nil {
		return
	}
	switch t := n.(type) {
	case *syntax.Ident:
		v.root.parents[n] = v.parent
		v.scope.DefineName(t.Name, t)
	case *syntax.Tuple:
		v.root.parents[n] = v.parent
		prev := v.parent
		v.parent = n
		for _, elt := range t.Elts {
			v.visitTarget(elt)
		}
		v.parent = prev
	case *syntax.List:
		v.root.parents[n] = v.parent
		prev := v.parent
		v.parent = n
		for _, elt := range t.Elts {
			v.visitTarget(elt)
		}
		v.parent = prev
	case *syntax.Starred:
		v.root.parents[n] = v.parent
		prev := v.parent
		v.parent = n
		v.visitTarget(t.Value)
		v.parent = prev
	default:
		v.visit(n)
	}
}

func (v *visitor) visitNode(n syntax.Node) {
	switch n := n.(type) {
	case *syntax.Import:
		for _, alias := range n.Names {
			v.root.addExternalReference(alias.Name, alias, true)
			if alias.AsName == "" {
				parts := strings.Split(alias.Name, ".")
				cur := v.scope.DefineName(parts[0], alias)
				for _, part := range parts[1:] {
					cur = cur.Attr(part)
					cur.Define(alias)
				}
			} else {
				v.scope.DefineName(alias.AsName, alias)
			}
			v.visit(alias)
		}

	case *syntax.ImportFrom:
		if n.Module != "" {
			v.root.addExternalReference(n.Module, n, true)
		}
		for _, alias := range n.Names {
			bound := alias.AsName
			if bound == "" {
				bound = alias.Name
			}
			v.scope.DefineName(bound, alias)
			if n.Module != "" {
				v.root.addExternalReference(n.Module+"."+alias.Name, alias, false)
			}
			v.visit(alias)
		}

	case *syntax.Ident:
		name := v.scope.LookupName(n.Name)
		name.AddReference(n)
		v.root.nodeNames[n] = name

	case *syntax.Attribute:
		v.visit(n.Value)
		if valueName := v.root.nodeNames[n.Value]; valueName != nil {
			attrName := valueName.Attr(n.Attr)
			attrName.AddReference(n)
			v.root.nodeNames[n] = attrName
		}

	case *syntax.Assign:
		for _, target := range n.Targets {
			v.visitTarget(target)
		}
		v.visit(n.Value)

	case *syntax.AugAssign:
		v.visitTarget(n.Target)
		v.visit(n.Value)

	case *syntax.For:
		v.visitTarget(n.Target)
		v.visit(n.Iter)
		v.visitAll(n.Body)
		v.visitAll(n.OrElse)

	case *syntax.WithItem:
		v.visit(n.ContextExpr)
		v.visitTarget(n.OptionalVars)

	case *syntax.ExceptHandler:
		v.visit(n.Type)
		if n.Name != "" {
			v.scope.DefineName(n.Name, n)
		}
		v.visitAll(n.Body)

	case *syntax.FunctionDef:
		v.scope.DefineName(n.Name, n)
		v.scope = newScope(v.scope, v.root)
		// Decorators and defaults first: they evaluate in the enclosing
		// scope before any parameter is bound.
		v.visitAll(n.DecoratorList)
		v.visit(n.Args)
		v.visit(n.Returns)
		v.visitAll(n.Body)
		v.scope = v.scope.parent

	case *syntax.Lambda:
		v.scope = newScope(v.scope, v.root)
		v.visit(n.Args)
		v.visit(n.Body)
		v.scope = v.scope.parent

	case *syntax.Arguments:
		v.visitAll(n.Defaults)
		for _, arg := range n.Args {
			v.visit(arg)
		}
		if n.VarArg != nil {
			v.visit(n.VarArg)
		}
		if n.KwArg != nil {
			v.visit(n.KwArg)
		}

	case *syntax.Arg:
		v.scope.DefineName(n.Name, n)
		v.visit(n.Annotation)

	case *syntax.ClassDef:
		v.scope.DefineName(n.Name, n)
		v.visitAll(n.DecoratorList)
		v.visitAll(n.Bases)
		v.scope = newScope(v.scope, v.root)
		v.visitAll(n.Body)
		v.scope = v.scope.parent

	case *syntax.Comprehension:
		v.visitTarget(n.Target)
		v.visit(n.Iter)
		v.visitAll(n.Ifs)

	default:
		for _, child := range syntax.Children(n) {
			v.visit(child)
		}
	}
}
