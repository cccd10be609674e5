package syntax

// Children returns a node's direct children in syntactic order. Nil child
// slots are skipped. The slice is freshly allocated on every call.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addAll := func(cs []Node) {
		for _, c := range cs {
			add(c)
		}
	}

	switch n := n.(type) {
	case *Module:
		addAll(n.Body)
	case *Import:
		for _, a := range n.Names {
			add(a)
		}
	case *ImportFrom:
		for _, a := range n.Names {
			add(a)
		}
	case *ExprStmt:
		add(n.Value)
	case *Assign:
		addAll(n.Targets)
		add(n.Value)
	case *AugAssign:
		add(n.Target)
		add(n.Value)
	case *BinOp:
		add(n.Left)
		add(n.Right)
	case *BoolOp:
		addAll(n.Values)
	case *UnaryOp:
		add(n.Operand)
	case *Compare:
		add(n.Left)
		addAll(n.Comparators)
	case *Lambda:
		add(n.Args)
		add(n.Body)
	case *IfExp:
		add(n.Body)
		add(n.Test)
		add(n.OrElse)
	case *If:
		add(n.Test)
		addAll(n.Body)
		addAll(n.OrElse)
	case *While:
		add(n.Test)
		addAll(n.Body)
		addAll(n.OrElse)
	case *For:
		add(n.Target)
		add(n.Iter)
		addAll(n.Body)
		addAll(n.OrElse)
	case *With:
		for _, it := range n.Items {
			add(it)
		}
		addAll(n.Body)
	case *WithItem:
		add(n.ContextExpr)
		add(n.OptionalVars)
	case *Try:
		addAll(n.Body)
		for _, h := range n.Handlers {
			add(h)
		}
		addAll(n.OrElse)
		addAll(n.FinalBody)
	case *ExceptHandler:
		add(n.Type)
		addAll(n.Body)
	case *Raise:
		add(n.Exc)
		add(n.Cause)
	case *Return:
		add(n.Value)
	case *Yield:
		add(n.Value)
	case *Delete:
		addAll(n.Targets)
	case *Assert:
		add(n.Test)
		add(n.Msg)
	case *FunctionDef:
		addAll(n.DecoratorList)
		add(n.Args)
		add(n.Returns)
		addAll(n.Body)
	case *ClassDef:
		addAll(n.DecoratorList)
		addAll(n.Bases)
		addAll(n.Body)
	case *Arguments:
		for _, a := range n.Args {
			add(a)
		}
		addAll(n.Defaults)
		// VarArg/KwArg are typed pointers; a nil one wrapped in the
		// interface would slip past add's nil check.
		if n.VarArg != nil {
			add(n.VarArg)
		}
		if n.KwArg != nil {
			add(n.KwArg)
		}
	case *Arg:
		add(n.Annotation)
	case *Keyword:
		add(n.Value)
	case *Call:
		add(n.Func)
		addAll(n.Args)
		for _, k := range n.Keywords {
			add(k)
		}
		add(n.StarArgs)
		add(n.KwArgs)
	case *Attribute:
		add(n.Value)
	case *Subscript:
		add(n.Value)
		add(n.Slice)
	case *Index:
		add(n.Value)
	case *Slice:
		add(n.Lower)
		add(n.Upper)
		add(n.Step)
	case *Starred:
		add(n.Value)
	case *Tuple:
		addAll(n.Elts)
	case *List:
		addAll(n.Elts)
	case *Set:
		addAll(n.Elts)
	case *Dict:
		for i := range n.Keys {
			add(n.Keys[i])
			add(n.Values[i])
		}
	case *ListComp:
		add(n.Elt)
		for _, g := range n.Generators {
			add(g)
		}
	case *SetComp:
		add(n.Elt)
		for _, g := range n.Generators {
			add(g)
		}
	case *DictComp:
		add(n.Key)
		add(n.Value)
		for _, g := range n.Generators {
			add(g)
		}
	case *GeneratorExp:
		add(n.Elt)
		for _, g := range n.Generators {
			add(g)
		}
	case *Comprehension:
		add(n.Target)
		add(n.Iter)
		addAll(n.Ifs)
	case *Alias, *Ident, *NameConstant, *Num, *Str,
		*Global, *Nonlocal, *Pass, *Break, *Continue:
		// leaves
	}
	return out
}

// Walk calls fn for n and every descendant in depth-first syntactic order.
// If fn returns false for a node, its children are not visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}
