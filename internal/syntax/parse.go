package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/dominichamon/pasta/internal/text"
)

// ParseError reports a source construct the parser or the converter could
// not handle, with its position.
type ParseError struct {
	Msg string
	Pos text.Point
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}

// Parse parses Python source into a syntax tree. The grammar work is done by
// tree-sitter; this adapter converts its concrete tree into the Node model,
// unwrapping redundant parentheses into per-node paren counts.
func Parse(ctx context.Context, src []byte) (*Module, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	c := &converter{src: src}
	if err := c.checkErrors(root); err != nil {
		return nil, err
	}

	body, err := c.stmts(root)
	if err != nil {
		return nil, err
	}
	return &Module{Body: body}, nil
}

type converter struct {
	src []byte
}

func (c *converter) errorf(n *sitter.Node, format string, args ...any) error {
	pos := text.Point{}
	if n != nil {
		p := n.StartPoint()
		pos = text.Point{Line: int(p.Row), Column: int(p.Column)}
	}
	return &ParseError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func (c *converter) unsupported(n *sitter.Node) error {
	return c.errorf(n, "unsupported syntax: %s", n.Type())
}

// checkErrors rejects trees containing tree-sitter error or missing nodes.
func (c *converter) checkErrors(n *sitter.Node) error {
	if !n.HasError() {
		return nil
	}
	if n.IsError() {
		return c.errorf(n, "invalid syntax")
	}
	if n.IsMissing() {
		return c.errorf(n, "missing %s", n.Type())
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if err := c.checkErrors(n.Child(i)); err != nil {
			return err
		}
	}
	return c.errorf(n, "invalid syntax")
}

func (c *converter) content(n *sitter.Node) string {
	return n.Content(c.src)
}

// named returns n's named children with comments filtered out.
func (c *converter) named(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() == "comment" {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func (c *converter) stmts(n *sitter.Node) ([]Node, error) {
	var out []Node
	for _, ch := range c.named(n) {
		s, err := c.stmt(ch)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *converter) stmt(n *sitter.Node) (Node, error) {
	switch n.Type() {
	case "expression_statement":
		kids := c.named(n)
		if len(kids) == 0 {
			return nil, c.errorf(n, "unexpected expression statement shape")
		}
		// Multiple expressions in one statement are a bare tuple: x, y
		if len(kids) > 1 {
			tuple := &Tuple{}
			for _, ch := range kids {
				e, err := c.expr(ch)
				if err != nil {
					return nil, err
				}
				tuple.Elts = append(tuple.Elts, e)
			}
			return &ExprStmt{Value: tuple}, nil
		}
		inner := kids[0]
		switch inner.Type() {
		case "assignment":
			return c.assignment(inner)
		case "augmented_assignment":
			return c.augmentedAssignment(inner)
		default:
			v, err := c.expr(inner)
			if err != nil {
				return nil, err
			}
			return &ExprStmt{Value: v}, nil
		}
	case "import_statement":
		return c.importStmt(n)
	case "import_from_statement", "future_import_statement":
		return c.importFromStmt(n)
	case "assert_statement":
		kids := c.named(n)
		out := &Assert{}
		var err error
		if len(kids) > 0 {
			if out.Test, err = c.expr(kids[0]); err != nil {
				return nil, err
			}
		}
		if len(kids) > 1 {
			if out.Msg, err = c.expr(kids[1]); err != nil {
				return nil, err
			}
		}
		return out, nil
	case "return_statement":
		out := &Return{}
		if kids := c.named(n); len(kids) > 0 {
			v, err := c.expr(kids[0])
			if err != nil {
				return nil, err
			}
			out.Value = v
		}
		return out, nil
	case "delete_statement":
		kids := c.named(n)
		if len(kids) != 1 {
			return nil, c.errorf(n, "unexpected delete statement shape")
		}
		out := &Delete{}
		if kids[0].Type() == "expression_list" {
			for _, t := range c.named(kids[0]) {
				e, err := c.expr(t)
				if err != nil {
					return nil, err
				}
				out.Targets = append(out.Targets, e)
			}
		} else {
			e, err := c.expr(kids[0])
			if err != nil {
				return nil, err
			}
			out.Targets = []Node{e}
		}
		return out, nil
	case "raise_statement":
		out := &Raise{}
		cause := n.ChildByFieldName("cause")
		for _, ch := range c.named(n) {
			if cause != nil && ch.Equal(cause) {
				continue
			}
			e, err := c.expr(ch)
			if err != nil {
				return nil, err
			}
			out.Exc = e
		}
		if cause != nil {
			e, err := c.expr(cause)
			if err != nil {
				return nil, err
			}
			out.Cause = e
		}
		return out, nil
	case "pass_statement":
		return &Pass{}, nil
	case "break_statement":
		return &Break{}, nil
	case "continue_statement":
		return &Continue{}, nil
	case "global_statement":
		out := &Global{}
		for _, ch := range c.named(n) {
			out.Names = append(out.Names, c.content(ch))
		}
		return out, nil
	case "nonlocal_statement":
		out := &Nonlocal{}
		for _, ch := range c.named(n) {
			out.Names = append(out.Names, c.content(ch))
		}
		return out, nil
	case "if_statement":
		return c.ifStmt(n)
	case "while_statement":
		return c.whileStmt(n)
	case "for_statement":
		return c.forStmt(n)
	case "try_statement":
		return c.tryStmt(n)
	case "with_statement":
		return c.withStmt(n)
	case "function_definition":
		return c.functionDef(n, nil)
	case "class_definition":
		return c.classDef(n, nil)
	case "decorated_definition":
		return c.decoratedDef(n)
	default:
		return nil, c.unsupported(n)
	}
}

// assignment flattens chained assignments (a = b = c) into one node with
// multiple targets, matching the abstract form the traversal expects.
func (c *converter) assignment(n *sitter.Node) (Node, error) {
	if n.ChildByFieldName("type") != nil {
		return nil, c.errorf(n, "unsupported syntax: annotated assignment")
	}
	out := &Assign{}
	cur := n
	for {
		left, err := c.expr(cur.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		out.Targets = append(out.Targets, left)

		right := cur.ChildByFieldName("right")
		if right == nil {
			return nil, c.errorf(cur, "assignment without right-hand side")
		}
		if right.Type() == "assignment" && right.ChildByFieldName("type") == nil {
			cur = right
			continue
		}
		value, err := c.expr(right)
		if err != nil {
			return nil, err
		}
		out.Value = value
		return out, nil
	}
}

func (c *converter) augmentedAssignment(n *sitter.Node) (Node, error) {
	opNode := n.ChildByFieldName("operator")
	if opNode == nil {
		return nil, c.errorf(n, "augmented assignment without operator")
	}
	opTok := strings.TrimSuffix(opNode.Type(), "=")
	op, ok := BinOpFromToken(opTok)
	if !ok {
		return nil, c.errorf(n, "unknown augmented operator %q", opNode.Type())
	}
	target, err := c.expr(n.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	value, err := c.expr(n.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return &AugAssign{Target: target, Op: op, Value: value}, nil
}

func (c *converter) importStmt(n *sitter.Node) (Node, error) {
	out := &Import{}
	for _, ch := range c.named(n) {
		alias, err := c.alias(ch)
		if err != nil {
			return nil, err
		}
		out.Names = append(out.Names, alias)
	}
	return out, nil
}

func (c *converter) importFromStmt(n *sitter.Node) (Node, error) {
	out := &ImportFrom{}
	if n.Type() == "future_import_statement" {
		out.Module = "__future__"
	}

	moduleName := n.ChildByFieldName("module_name")
	if moduleName != nil {
		switch moduleName.Type() {
		case "dotted_name":
			out.Module = c.content(moduleName)
		case "relative_import":
			// import_prefix (dots) plus an optional dotted_name
			for i := 0; i < int(moduleName.ChildCount()); i++ {
				ch := moduleName.Child(i)
				switch ch.Type() {
				case "import_prefix":
					out.Level = len(c.content(ch))
				case "dotted_name":
					out.Module = c.content(ch)
				}
			}
		default:
			return nil, c.unsupported(moduleName)
		}
	}

	for _, ch := range c.named(n) {
		if moduleName != nil && ch.Equal(moduleName) {
			continue
		}
		if ch.Type() == "wildcard_import" {
			out.Names = append(out.Names, &Alias{Name: "*"})
			continue
		}
		alias, err := c.alias(ch)
		if err != nil {
			return nil, err
		}
		out.Names = append(out.Names, alias)
	}
	return out, nil
}

func (c *converter) alias(n *sitter.Node) (*Alias, error) {
	switch n.Type() {
	case "dotted_name", "identifier":
		return &Alias{Name: c.content(n)}, nil
	case "aliased_import":
		name := n.ChildByFieldName("name")
		as := n.ChildByFieldName("alias")
		if name == nil || as == nil {
			return nil, c.errorf(n, "unexpected aliased import shape")
		}
		return &Alias{Name: c.content(name), AsName: c.content(as)}, nil
	default:
		return nil, c.unsupported(n)
	}
}

// ifStmt folds elif clauses into right-nested If nodes on the alternative
// arm; the annotator re-discovers the flat spelling from the token stream.
func (c *converter) ifStmt(n *sitter.Node) (Node, error) {
	out := &If{}
	var err error
	if out.Test, err = c.expr(n.ChildByFieldName("condition")); err != nil {
		return nil, err
	}
	if out.Body, err = c.stmts(n.ChildByFieldName("consequence")); err != nil {
		return nil, err
	}

	// Collect elif_clause/else_clause alternatives in order.
	var alts []*sitter.Node
	for _, ch := range c.named(n) {
		if t := ch.Type(); t == "elif_clause" || t == "else_clause" {
			alts = append(alts, ch)
		}
	}

	cur := out
	for _, alt := range alts {
		switch alt.Type() {
		case "elif_clause":
			next := &If{}
			if next.Test, err = c.expr(alt.ChildByFieldName("condition")); err != nil {
				return nil, err
			}
			if next.Body, err = c.stmts(alt.ChildByFieldName("consequence")); err != nil {
				return nil, err
			}
			cur.OrElse = []Node{next}
			cur = next
		case "else_clause":
			if cur.OrElse, err = c.stmts(alt.ChildByFieldName("body")); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (c *converter) whileStmt(n *sitter.Node) (Node, error) {
	out := &While{}
	var err error
	if out.Test, err = c.expr(n.ChildByFieldName("condition")); err != nil {
		return nil, err
	}
	if out.Body, err = c.stmts(n.ChildByFieldName("body")); err != nil {
		return nil, err
	}
	if alt := c.childOfType(n, "else_clause"); alt != nil {
		if out.OrElse, err = c.stmts(alt.ChildByFieldName("body")); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *converter) forStmt(n *sitter.Node) (Node, error) {
	if err := c.checkAsync(n, "async for"); err != nil {
		return nil, err
	}
	out := &For{}
	var err error
	if out.Target, err = c.expr(n.ChildByFieldName("left")); err != nil {
		return nil, err
	}
	if out.Iter, err = c.expr(n.ChildByFieldName("right")); err != nil {
		return nil, err
	}
	if out.Body, err = c.stmts(n.ChildByFieldName("body")); err != nil {
		return nil, err
	}
	if alt := c.childOfType(n, "else_clause"); alt != nil {
		if out.OrElse, err = c.stmts(alt.ChildByFieldName("body")); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *converter) tryStmt(n *sitter.Node) (Node, error) {
	out := &Try{}
	var err error
	if out.Body, err = c.stmts(n.ChildByFieldName("body")); err != nil {
		return nil, err
	}
	for _, ch := range c.named(n) {
		switch ch.Type() {
		case "except_clause":
			h, err := c.exceptClause(ch)
			if err != nil {
				return nil, err
			}
			out.Handlers = append(out.Handlers, h)
		case "else_clause":
			if out.OrElse, err = c.stmts(ch.ChildByFieldName("body")); err != nil {
				return nil, err
			}
		case "finally_clause":
			kids := c.named(ch)
			if len(kids) != 1 {
				return nil, c.errorf(ch, "unexpected finally clause shape")
			}
			if out.FinalBody, err = c.stmts(kids[0]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (c *converter) exceptClause(n *sitter.Node) (*ExceptHandler, error) {
	out := &ExceptHandler{}
	kids := c.named(n)
	if len(kids) == 0 {
		return nil, c.errorf(n, "unexpected except clause shape")
	}

	// The last named child is the handler body; anything before it is the
	// exception type with an optional bound name.
	body := kids[len(kids)-1]
	head := kids[:len(kids)-1]

	var err error
	switch len(head) {
	case 0:
	case 1:
		if head[0].Type() == "as_pattern" {
			typ, name, perr := c.asPattern(head[0])
			if perr != nil {
				return nil, perr
			}
			out.Type = typ
			out.Name = name
		} else if out.Type, err = c.expr(head[0]); err != nil {
			return nil, err
		}
	case 2:
		if out.Type, err = c.expr(head[0]); err != nil {
			return nil, err
		}
		out.Name = c.content(head[1])
	default:
		return nil, c.errorf(n, "unexpected except clause shape")
	}

	if out.Body, err = c.stmts(body); err != nil {
		return nil, err
	}
	return out, nil
}

// asPattern unpacks an `expr as name` pattern into its parts.
func (c *converter) asPattern(n *sitter.Node) (Node, string, error) {
	kids := c.named(n)
	if len(kids) != 2 {
		return nil, "", c.errorf(n, "unexpected as pattern shape")
	}
	typ, err := c.expr(kids[0])
	if err != nil {
		return nil, "", err
	}
	target := kids[1]
	if target.Type() == "as_pattern_target" {
		inner := c.named(target)
		if len(inner) != 1 {
			return nil, "", c.errorf(target, "unexpected as pattern target shape")
		}
		target = inner[0]
	}
	return typ, c.content(target), nil
}

func (c *converter) withStmt(n *sitter.Node) (Node, error) {
	if err := c.checkAsync(n, "async with"); err != nil {
		return nil, err
	}
	out := &With{}

	var items []*sitter.Node
	for _, ch := range c.named(n) {
		switch ch.Type() {
		case "with_clause":
			items = append(items, c.named(ch)...)
		case "with_item":
			items = append(items, ch)
		}
	}

	for _, it := range items {
		item := &WithItem{}
		value := it.ChildByFieldName("value")
		if value == nil {
			kids := c.named(it)
			if len(kids) == 0 {
				return nil, c.errorf(it, "unexpected with item shape")
			}
			value = kids[0]
		}
		if value.Type() == "as_pattern" {
			kids := c.named(value)
			if len(kids) != 2 {
				return nil, c.errorf(value, "unexpected as pattern shape")
			}
			ctxExpr, err := c.expr(kids[0])
			if err != nil {
				return nil, err
			}
			target := kids[1]
			if target.Type() == "as_pattern_target" {
				inner := c.named(target)
				if len(inner) != 1 {
					return nil, c.errorf(target, "unexpected as pattern target shape")
				}
				target = inner[0]
			}
			vars, err := c.expr(target)
			if err != nil {
				return nil, err
			}
			item.ContextExpr = ctxExpr
			item.OptionalVars = vars
		} else {
			ctxExpr, err := c.expr(value)
			if err != nil {
				return nil, err
			}
			item.ContextExpr = ctxExpr
			if as := it.ChildByFieldName("alias"); as != nil {
				vars, err := c.expr(as)
				if err != nil {
					return nil, err
				}
				item.OptionalVars = vars
			}
		}
		out.Items = append(out.Items, item)
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return nil, c.errorf(n, "with statement without body")
	}
	var err error
	if out.Body, err = c.stmts(body); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *converter) functionDef(n *sitter.Node, decorators []Node) (Node, error) {
	if err := c.checkAsync(n, "async function"); err != nil {
		return nil, err
	}
	out := &FunctionDef{DecoratorList: decorators}
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil, c.errorf(n, "function definition without name")
	}
	out.Name = c.content(name)

	var err error
	if out.Args, err = c.parameters(n.ChildByFieldName("parameters")); err != nil {
		return nil, err
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		if out.Returns, err = c.expr(ret); err != nil {
			return nil, err
		}
	}
	if out.Body, err = c.stmts(n.ChildByFieldName("body")); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *converter) classDef(n *sitter.Node, decorators []Node) (Node, error) {
	out := &ClassDef{DecoratorList: decorators}
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil, c.errorf(n, "class definition without name")
	}
	out.Name = c.content(name)

	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for _, ch := range c.named(supers) {
			if ch.Type() == "keyword_argument" {
				return nil, c.errorf(ch, "unsupported syntax: class keyword argument")
			}
			b, err := c.expr(ch)
			if err != nil {
				return nil, err
			}
			out.Bases = append(out.Bases, b)
		}
	}

	var err error
	if out.Body, err = c.stmts(n.ChildByFieldName("body")); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *converter) decoratedDef(n *sitter.Node) (Node, error) {
	var decorators []Node
	for _, ch := range c.named(n) {
		switch ch.Type() {
		case "decorator":
			kids := c.named(ch)
			if len(kids) != 1 {
				return nil, c.errorf(ch, "unexpected decorator shape")
			}
			d, err := c.expr(kids[0])
			if err != nil {
				return nil, err
			}
			decorators = append(decorators, d)
		case "function_definition":
			return c.functionDef(ch, decorators)
		case "class_definition":
			return c.classDef(ch, decorators)
		}
	}
	return nil, c.errorf(n, "decorated definition without definition")
}

func (c *converter) parameters(n *sitter.Node) (*Arguments, error) {
	out := &Arguments{}
	if n == nil {
		return out, nil
	}
	for _, ch := range c.named(n) {
		switch ch.Type() {
		case "identifier":
			if out.VarArg != nil || out.KwArg != nil {
				return nil, c.errorf(ch, "unsupported syntax: keyword-only parameter")
			}
			out.Args = append(out.Args, &Arg{Name: c.content(ch)})
		case "typed_parameter":
			kids := c.named(ch)
			typ := ch.ChildByFieldName("type")
			if len(kids) == 0 || typ == nil {
				return nil, c.errorf(ch, "unexpected typed parameter shape")
			}
			ann, err := c.expr(typ)
			if err != nil {
				return nil, err
			}
			inner := kids[0]
			switch inner.Type() {
			case "identifier":
				out.Args = append(out.Args, &Arg{Name: c.content(inner), Annotation: ann})
			case "list_splat_pattern":
				arg, err := c.splatArg(inner)
				if err != nil {
					return nil, err
				}
				arg.Annotation = ann
				out.VarArg = arg
			case "dictionary_splat_pattern":
				arg, err := c.splatArg(inner)
				if err != nil {
					return nil, err
				}
				arg.Annotation = ann
				out.KwArg = arg
			default:
				return nil, c.unsupported(inner)
			}
		case "default_parameter", "typed_default_parameter":
			name := ch.ChildByFieldName("name")
			value := ch.ChildByFieldName("value")
			if name == nil || value == nil {
				return nil, c.errorf(ch, "unexpected default parameter shape")
			}
			arg := &Arg{Name: c.content(name)}
			if typ := ch.ChildByFieldName("type"); typ != nil {
				ann, err := c.expr(typ)
				if err != nil {
					return nil, err
				}
				arg.Annotation = ann
			}
			def, err := c.expr(value)
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, arg)
			out.Defaults = append(out.Defaults, def)
		case "list_splat_pattern":
			arg, err := c.splatArg(ch)
			if err != nil {
				return nil, err
			}
			out.VarArg = arg
		case "dictionary_splat_pattern":
			arg, err := c.splatArg(ch)
			if err != nil {
				return nil, err
			}
			out.KwArg = arg
		default:
			return nil, c.unsupported(ch)
		}
	}
	return out, nil
}

func (c *converter) splatArg(n *sitter.Node) (*Arg, error) {
	kids := c.named(n)
	if len(kids) != 1 || kids[0].Type() != "identifier" {
		return nil, c.errorf(n, "unsupported syntax: bare splat parameter")
	}
	return &Arg{Name: c.content(kids[0])}, nil
}

// checkAsync rejects constructs carrying an async modifier; tree-sitter
// attaches it as an anonymous child that the traversal cannot consume.
func (c *converter) checkAsync(n *sitter.Node, construct string) error {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "async" {
			return c.errorf(n, "unsupported syntax: %s", construct)
		}
	}
	return nil
}

func (c *converter) childOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, ch := range c.named(n) {
		if ch.Type() == typ {
			return ch
		}
	}
	return nil
}
