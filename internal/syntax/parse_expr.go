package syntax

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

func (c *converter) expr(n *sitter.Node) (Node, error) {
	if n == nil {
		return nil, c.errorf(nil, "missing expression")
	}
	switch n.Type() {
	case "parenthesized_expression":
		kids := c.named(n)
		if len(kids) != 1 {
			return nil, c.errorf(n, "unexpected parenthesized expression shape")
		}
		inner, err := c.expr(kids[0])
		if err != nil {
			return nil, err
		}
		inner.SetParenCount(inner.ParenCount() + 1)
		return inner, nil
	case "identifier":
		return &Ident{Name: c.content(n)}, nil
	case "true", "false", "none":
		return &NameConstant{Value: c.content(n)}, nil
	case "integer", "float":
		return &Num{Value: decodeNumber(c.content(n))}, nil
	case "string":
		return c.stringLiteral(n)
	case "concatenated_string":
		return c.concatenatedString(n)
	case "binary_operator":
		return c.binaryOperator(n)
	case "boolean_operator":
		return c.booleanOperator(n)
	case "not_operator":
		operand, err := c.expr(n.ChildByFieldName("argument"))
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: OpNot, Operand: operand}, nil
	case "unary_operator":
		return c.unaryOperator(n)
	case "comparison_operator":
		return c.comparisonOperator(n)
	case "lambda":
		return c.lambda(n)
	case "conditional_expression":
		return c.conditional(n)
	case "call":
		return c.call(n)
	case "attribute":
		value, err := c.expr(n.ChildByFieldName("object"))
		if err != nil {
			return nil, err
		}
		attr := n.ChildByFieldName("attribute")
		if attr == nil {
			return nil, c.errorf(n, "attribute access without name")
		}
		return &Attribute{Value: value, Attr: c.content(attr)}, nil
	case "subscript":
		return c.subscript(n)
	case "tuple", "tuple_pattern":
		out := &Tuple{}
		for _, ch := range c.named(n) {
			e, err := c.expr(ch)
			if err != nil {
				return nil, err
			}
			out.Elts = append(out.Elts, e)
		}
		out.SetParenCount(1)
		return out, nil
	case "expression_list", "pattern_list":
		out := &Tuple{}
		for _, ch := range c.named(n) {
			e, err := c.expr(ch)
			if err != nil {
				return nil, err
			}
			out.Elts = append(out.Elts, e)
		}
		return out, nil
	case "list", "list_pattern":
		out := &List{}
		for _, ch := range c.named(n) {
			e, err := c.expr(ch)
			if err != nil {
				return nil, err
			}
			out.Elts = append(out.Elts, e)
		}
		return out, nil
	case "set":
		out := &Set{}
		for _, ch := range c.named(n) {
			e, err := c.expr(ch)
			if err != nil {
				return nil, err
			}
			out.Elts = append(out.Elts, e)
		}
		return out, nil
	case "dictionary":
		return c.dictionary(n)
	case "list_comprehension":
		elt, gens, err := c.comprehensionParts(n)
		if err != nil {
			return nil, err
		}
		return &ListComp{Elt: elt, Generators: gens}, nil
	case "set_comprehension":
		elt, gens, err := c.comprehensionParts(n)
		if err != nil {
			return nil, err
		}
		return &SetComp{Elt: elt, Generators: gens}, nil
	case "generator_expression":
		elt, gens, err := c.comprehensionParts(n)
		if err != nil {
			return nil, err
		}
		out := &GeneratorExp{Elt: elt, Generators: gens}
		out.SetParenCount(1)
		return out, nil
	case "dictionary_comprehension":
		return c.dictComprehension(n)
	case "list_splat", "list_splat_pattern":
		kids := c.named(n)
		if len(kids) != 1 {
			return nil, c.errorf(n, "unexpected splat shape")
		}
		value, err := c.expr(kids[0])
		if err != nil {
			return nil, err
		}
		return &Starred{Value: value}, nil
	case "yield":
		return c.yield(n)
	default:
		return nil, c.unsupported(n)
	}
}

func (c *converter) binaryOperator(n *sitter.Node) (Node, error) {
	opNode := n.ChildByFieldName("operator")
	if opNode == nil {
		return nil, c.errorf(n, "binary operation without operator")
	}
	op, ok := BinOpFromToken(opNode.Type())
	if !ok {
		return nil, c.errorf(n, "unknown binary operator %q", opNode.Type())
	}
	left, err := c.expr(n.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := c.expr(n.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return &BinOp{Left: left, Op: op, Right: right}, nil
}

// booleanOperator flattens left-nested chains of the same operator into one
// node with a values list, matching the abstract form.
func (c *converter) booleanOperator(n *sitter.Node) (Node, error) {
	opNode := n.ChildByFieldName("operator")
	if opNode == nil {
		return nil, c.errorf(n, "boolean operation without operator")
	}
	op := OpOr
	if opNode.Type() == "and" {
		op = OpAnd
	}

	left, err := c.expr(n.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := c.expr(n.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}

	if lb, ok := left.(*BoolOp); ok && lb.Op == op && lb.ParenCount() == 0 {
		lb.Values = append(lb.Values, right)
		return lb, nil
	}
	return &BoolOp{Op: op, Values: []Node{left, right}}, nil
}

func (c *converter) unaryOperator(n *sitter.Node) (Node, error) {
	opNode := n.ChildByFieldName("operator")
	if opNode == nil {
		return nil, c.errorf(n, "unary operation without operator")
	}
	var op UnaryOpKind
	switch opNode.Type() {
	case "~":
		op = OpInvert
	case "+":
		op = OpUAdd
	case "-":
		op = OpUSub
	default:
		return nil, c.errorf(n, "unknown unary operator %q", opNode.Type())
	}
	operand, err := c.expr(n.ChildByFieldName("argument"))
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: op, Operand: operand}, nil
}

func (c *converter) comparisonOperator(n *sitter.Node) (Node, error) {
	out := &Compare{}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if n.FieldNameForChild(i) == "operators" {
			op, ok := CompareOpFromToken(ch.Type())
			if !ok {
				return nil, c.errorf(ch, "unknown comparison operator %q", ch.Type())
			}
			out.Ops = append(out.Ops, op)
			continue
		}
		if !ch.IsNamed() || ch.Type() == "comment" {
			continue
		}
		e, err := c.expr(ch)
		if err != nil {
			return nil, err
		}
		if out.Left == nil && len(out.Ops) == 0 {
			out.Left = e
		} else {
			out.Comparators = append(out.Comparators, e)
		}
	}
	if out.Left == nil || len(out.Ops) == 0 || len(out.Ops) != len(out.Comparators) {
		return nil, c.errorf(n, "unexpected comparison shape")
	}
	return out, nil
}

func (c *converter) lambda(n *sitter.Node) (Node, error) {
	args, err := c.parameters(n.ChildByFieldName("parameters"))
	if err != nil {
		return nil, err
	}
	body, err := c.expr(n.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	return &Lambda{Args: args, Body: body}, nil
}

func (c *converter) conditional(n *sitter.Node) (Node, error) {
	kids := c.named(n)
	if len(kids) != 3 {
		return nil, c.errorf(n, "unexpected conditional expression shape")
	}
	body, err := c.expr(kids[0])
	if err != nil {
		return nil, err
	}
	test, err := c.expr(kids[1])
	if err != nil {
		return nil, err
	}
	orElse, err := c.expr(kids[2])
	if err != nil {
		return nil, err
	}
	return &IfExp{Body: body, Test: test, OrElse: orElse}, nil
}

func (c *converter) call(n *sitter.Node) (Node, error) {
	fn, err := c.expr(n.ChildByFieldName("function"))
	if err != nil {
		return nil, err
	}
	out := &Call{Func: fn}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return out, nil
	}

	// A generator expression as the sole argument shares its parentheses
	// with the call, so the generator node does not own a wrapping pair.
	if args.Type() == "generator_expression" {
		elt, gens, err := c.comprehensionParts(args)
		if err != nil {
			return nil, err
		}
		out.Args = append(out.Args, &GeneratorExp{Elt: elt, Generators: gens})
		return out, nil
	}

	for _, ch := range c.named(args) {
		switch ch.Type() {
		case "keyword_argument":
			name := ch.ChildByFieldName("name")
			value := ch.ChildByFieldName("value")
			if name == nil || value == nil {
				return nil, c.errorf(ch, "unexpected keyword argument shape")
			}
			v, err := c.expr(value)
			if err != nil {
				return nil, err
			}
			out.Keywords = append(out.Keywords, &Keyword{Arg: c.content(name), Value: v})
		case "list_splat":
			kids := c.named(ch)
			if len(kids) != 1 {
				return nil, c.errorf(ch, "unexpected splat argument shape")
			}
			v, err := c.expr(kids[0])
			if err != nil {
				return nil, err
			}
			out.StarArgs = v
		case "dictionary_splat":
			kids := c.named(ch)
			if len(kids) != 1 {
				return nil, c.errorf(ch, "unexpected splat argument shape")
			}
			v, err := c.expr(kids[0])
			if err != nil {
				return nil, err
			}
			out.KwArgs = v
		default:
			v, err := c.expr(ch)
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, v)
		}
	}
	return out, nil
}

func (c *converter) subscript(n *sitter.Node) (Node, error) {
	value, err := c.expr(n.ChildByFieldName("value"))
	if err != nil {
		return nil, err
	}

	var subs []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == "subscript" {
			subs = append(subs, n.Child(i))
		}
	}
	if len(subs) == 0 {
		return nil, c.errorf(n, "subscript without index")
	}

	single := func(sn *sitter.Node) (Node, error) {
		if sn.Type() == "slice" {
			return c.slice(sn)
		}
		e, err := c.expr(sn)
		if err != nil {
			return nil, err
		}
		return &Index{Value: e}, nil
	}

	if len(subs) == 1 {
		sl, err := single(subs[0])
		if err != nil {
			return nil, err
		}
		return &Subscript{Value: value, Slice: sl}, nil
	}

	// Multiple comma-separated subscripts index with a bare tuple.
	tuple := &Tuple{}
	for _, sn := range subs {
		if sn.Type() == "slice" {
			return nil, c.errorf(sn, "unsupported syntax: mixed slice subscript")
		}
		e, err := c.expr(sn)
		if err != nil {
			return nil, err
		}
		tuple.Elts = append(tuple.Elts, e)
	}
	return &Subscript{Value: value, Slice: &Index{Value: tuple}}, nil
}

// slice assigns named children to bound positions by the colon tokens
// between them.
func (c *converter) slice(n *sitter.Node) (Node, error) {
	out := &Slice{}
	pos := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if !ch.IsNamed() {
			if ch.Type() == ":" {
				pos++
			}
			continue
		}
		if ch.Type() == "comment" {
			continue
		}
		e, err := c.expr(ch)
		if err != nil {
			return nil, err
		}
		switch pos {
		case 0:
			out.Lower = e
		case 1:
			out.Upper = e
		case 2:
			out.Step = e
		default:
			return nil, c.errorf(ch, "unexpected slice shape")
		}
	}
	return out, nil
}

func (c *converter) dictionary(n *sitter.Node) (Node, error) {
	out := &Dict{}
	for _, ch := range c.named(n) {
		if ch.Type() != "pair" {
			return nil, c.unsupported(ch)
		}
		key, err := c.expr(ch.ChildByFieldName("key"))
		if err != nil {
			return nil, err
		}
		value, err := c.expr(ch.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		out.Keys = append(out.Keys, key)
		out.Values = append(out.Values, value)
	}
	return out, nil
}

// comprehensionParts extracts the element expression and the for/if clause
// chain shared by list, set, and generator comprehensions.
func (c *converter) comprehensionParts(n *sitter.Node) (Node, []*Comprehension, error) {
	var elt Node
	var gens []*Comprehension
	for _, ch := range c.named(n) {
		switch ch.Type() {
		case "for_in_clause":
			g, err := c.forInClause(ch)
			if err != nil {
				return nil, nil, err
			}
			gens = append(gens, g)
		case "if_clause":
			kids := c.named(ch)
			if len(kids) != 1 || len(gens) == 0 {
				return nil, nil, c.errorf(ch, "unexpected comprehension filter shape")
			}
			cond, err := c.expr(kids[0])
			if err != nil {
				return nil, nil, err
			}
			last := gens[len(gens)-1]
			last.Ifs = append(last.Ifs, cond)
		default:
			if elt != nil {
				return nil, nil, c.errorf(ch, "unexpected comprehension shape")
			}
			e, err := c.expr(ch)
			if err != nil {
				return nil, nil, err
			}
			elt = e
		}
	}
	if elt == nil || len(gens) == 0 {
		return nil, nil, c.errorf(n, "unexpected comprehension shape")
	}
	return elt, gens, nil
}

func (c *converter) dictComprehension(n *sitter.Node) (Node, error) {
	out := &DictComp{}
	for _, ch := range c.named(n) {
		switch ch.Type() {
		case "pair":
			key, err := c.expr(ch.ChildByFieldName("key"))
			if err != nil {
				return nil, err
			}
			value, err := c.expr(ch.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			out.Key, out.Value = key, value
		case "for_in_clause":
			g, err := c.forInClause(ch)
			if err != nil {
				return nil, err
			}
			out.Generators = append(out.Generators, g)
		case "if_clause":
			kids := c.named(ch)
			if len(kids) != 1 || len(out.Generators) == 0 {
				return nil, c.errorf(ch, "unexpected comprehension filter shape")
			}
			cond, err := c.expr(kids[0])
			if err != nil {
				return nil, err
			}
			last := out.Generators[len(out.Generators)-1]
			last.Ifs = append(last.Ifs, cond)
		default:
			return nil, c.unsupported(ch)
		}
	}
	if out.Key == nil || len(out.Generators) == 0 {
		return nil, c.errorf(n, "unexpected comprehension shape")
	}
	return out, nil
}

func (c *converter) forInClause(n *sitter.Node) (*Comprehension, error) {
	if err := c.checkAsync(n, "async comprehension"); err != nil {
		return nil, err
	}
	target, err := c.expr(n.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	iter, err := c.expr(n.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return &Comprehension{Target: target, Iter: iter}, nil
}

func (c *converter) yield(n *sitter.Node) (Node, error) {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "from" {
			return nil, c.errorf(n, "unsupported syntax: yield from")
		}
	}
	out := &Yield{}
	if kids := c.named(n); len(kids) > 0 {
		v, err := c.expr(kids[0])
		if err != nil {
			return nil, err
		}
		out.Value = v
	}
	return out, nil
}

func (c *converter) stringLiteral(n *sitter.Node) (Node, error) {
	for _, ch := range c.named(n) {
		if ch.Type() == "interpolation" {
			return nil, c.errorf(ch, "unsupported syntax: string interpolation")
		}
	}
	value, ok := decodeString(c.content(n))
	if !ok {
		return nil, c.errorf(n, "malformed string literal")
	}
	return &Str{Value: value}, nil
}

// concatenatedString folds adjacent literal pieces into one node whose value
// is their decoded concatenation.
func (c *converter) concatenatedString(n *sitter.Node) (Node, error) {
	var sb strings.Builder
	for _, ch := range c.named(n) {
		if ch.Type() != "string" {
			return nil, c.unsupported(ch)
		}
		part, err := c.stringLiteral(ch)
		if err != nil {
			return nil, err
		}
		sb.WriteString(part.(*Str).Value)
	}
	return &Str{Value: sb.String()}, nil
}

// decodeNumber produces the canonical rendering of a numeric literal: base
// prefixes, underscores, and long suffixes normalize away; the imaginary
// suffix is preserved as a lowercase j.
func decodeNumber(spelling string) string {
	s := strings.ReplaceAll(spelling, "_", "")
	imag := false
	if len(s) > 0 {
		switch s[len(s)-1] {
		case 'j', 'J':
			imag = true
			s = s[:len(s)-1]
		case 'l', 'L':
			s = s[:len(s)-1]
		}
	}

	var out string
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		out = strconv.FormatInt(v, 10)
	} else if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		out = strconv.FormatUint(u, 10)
	} else if f, err := strconv.ParseFloat(s, 64); err == nil {
		out = strconv.FormatFloat(f, 'g', -1, 64)
	} else {
		out = s
	}
	if imag {
		out += "j"
	}
	return out
}

// decodeString strips the prefix and quotes from a string literal and
// resolves escapes, yielding the runtime value. Raw strings keep their
// backslashes verbatim.
func decodeString(spelling string) (string, bool) {
	raw := false
	i := 0
	for i < len(spelling) && spelling[i] != '"' && spelling[i] != '\'' {
		switch spelling[i] {
		case 'r', 'R':
			raw = true
		case 'b', 'B', 'u', 'U', 'f', 'F':
		default:
			return "", false
		}
		i++
	}
	if i >= len(spelling) {
		return "", false
	}
	quote := spelling[i]
	body := spelling[i:]

	q := string(quote)
	triple := q + q + q
	switch {
	case strings.HasPrefix(body, triple) && strings.HasSuffix(body, triple) && len(body) >= 6:
		body = body[3 : len(body)-3]
	case strings.HasPrefix(body, q) && strings.HasSuffix(body, q) && len(body) >= 2:
		body = body[1 : len(body)-1]
	default:
		return "", false
	}

	if raw {
		return body, true
	}
	return unescape(body), true
}

func unescape(body string) string {
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		b := body[i]
		if b != '\\' || i+1 >= len(body) {
			sb.WriteByte(b)
			continue
		}
		i++
		switch e := body[i]; e {
		case '\n':
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			sb.WriteByte(e)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int(e - '0')
			for k := 0; k < 2 && i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '7'; k++ {
				i++
				v = v*8 + int(body[i]-'0')
			}
			sb.WriteByte(byte(v))
		case 'x':
			if v, n := hexValue(body[i+1:], 2); n == 2 {
				sb.WriteByte(byte(v))
				i += n
			} else {
				sb.WriteString("\\x")
			}
		case 'u':
			if v, n := hexValue(body[i+1:], 4); n == 4 {
				sb.WriteRune(rune(v))
				i += n
			} else {
				sb.WriteString("\\u")
			}
		case 'U':
			if v, n := hexValue(body[i+1:], 8); n == 8 {
				sb.WriteRune(rune(v))
				i += n
			} else {
				sb.WriteString("\\U")
			}
		default:
			// Unrecognized escapes stay as written.
			sb.WriteByte('\\')
			sb.WriteByte(e)
		}
	}
	return sb.String()
}

func hexValue(s string, max int) (int, int) {
	v := 0
	n := 0
	for n < max && n < len(s) {
		b := s[n]
		switch {
		case b >= '0' && b <= '9':
			v = v*16 + int(b-'0')
		case b >= 'a' && b <= 'f':
			v = v*16 + int(b-'a') + 10
		case b >= 'A' && b <= 'F':
			v = v*16 + int(b-'A') + 10
		default:
			return v, n
		}
		n++
	}
	return v, n
}
