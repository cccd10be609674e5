package annotate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dominichamon/pasta/internal/syntax"
)

// part is one element of a formatting slot: an exact token to match, or a
// free-form capture function run only by the annotator. The generator never
// executes parts; it replays the recorded slot text or emits the slot's
// declared default.
type part struct {
	tok string
	fn  func() (string, error)
}

func lit(tok string) part { return part{tok: tok} }

// dep is one semantic dependency of a slot: the field value in effect when
// the slot text was captured. A mismatch at generation time invalidates the
// captured text.
type dep struct {
	name  string
	value string
}

// emitter is the narrow surface the traversal drives. The annotator
// implements it by consuming the token stream; the generator implements it
// by writing output. All ordering lives in the walk functions, shared by
// both, so the two passes cannot drift apart.
type emitter interface {
	// token accounts for an exact token. Its text is structurally
	// determined, so it needs no slot.
	token(val string) error

	// attr accounts for one named formatting slot built from parts, with
	// optional dependency snapshots and a canonical default rendering.
	attr(n syntax.Node, slot string, parts []part, deps []dep, def string) error

	// blockAttr is attr for a slot that starts a block-level keyword line;
	// its default rendering is preceded by a newline and indentation.
	blockAttr(n syntax.Node, slot string, parts []part, def string) error

	// optionalSuffix accounts for a separator that may or may not follow,
	// such as a trailing comma.
	optionalSuffix(n syntax.Node, slot, tok string) error

	// optionalEmptyParens accounts for an empty superclass list that may be
	// spelled with or without parentheses.
	optionalEmptyParens(n syntax.Node, slot string) error

	// ws produces a whitespace-capturing part.
	ws(oneline bool) part

	// stmtPrefix accounts for the whitespace before a statement; its
	// default rendering is a newline plus current indentation.
	stmtPrefix(n syntax.Node) error

	// parenthesized wraps an expression that may carry redundant
	// parenthesis pairs, plus its prefix and suffix whitespace.
	parenthesized(n syntax.Node, body func() error) error

	// indented runs body one block level deeper.
	indented(body func() error) error

	strContent(n *syntax.Str) error
	numContent(n *syntax.Num) error

	// isElif decides whether a lone nested conditional in an alternative
	// arm was spelled as a flat chained keyword.
	isElif(n syntax.Node) (bool, error)

	// isContinuedWith decides whether a nested resource statement was
	// spelled as an item list of its parent.
	isContinuedWith(n *syntax.With) (bool, error)
}

func prefix(e emitter, n syntax.Node) error {
	return e.attr(n, "prefix", []part{e.ws(false)}, nil, "")
}

func suffix(e emitter, n syntax.Node, oneline bool) error {
	return e.attr(n, "suffix", []part{e.ws(oneline)}, nil, "")
}

// statement wraps a statement-level node: prefix whitespace with
// newline-and-indent default, then the node's own syntax, then trailing
// whitespace up to but not across the line end.
func statement(e emitter, n syntax.Node, body func() error) error {
	if err := e.stmtPrefix(n); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return suffix(e, n, true)
}

// spacedExpr wraps a non-parenthesizable sub-expression node.
func spacedExpr(e emitter, n syntax.Node, body func() error) error {
	if err := prefix(e, n); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return suffix(e, n, true)
}

// walk drives the traversal protocol for one node. There is exactly one
// ordering per node kind; both passes interpret it.
func walk(e emitter, n syntax.Node) error {
	switch n := n.(type) {
	case *syntax.Module:
		return walkModule(e, n)
	case *syntax.Import:
		return statement(e, n, func() error { return walkImport(e, n) })
	case *syntax.ImportFrom:
		return statement(e, n, func() error { return walkImportFrom(e, n) })
	case *syntax.ExprStmt:
		return statement(e, n, func() error { return walk(e, n.Value) })
	case *syntax.Assign:
		return statement(e, n, func() error { return walkAssign(e, n) })
	case *syntax.AugAssign:
		return statement(e, n, func() error { return walkAugAssign(e, n) })
	case *syntax.If:
		return statement(e, n, func() error { return walkIf(e, n) })
	case *syntax.While:
		return statement(e, n, func() error { return walkWhile(e, n) })
	case *syntax.For:
		return statement(e, n, func() error { return walkFor(e, n) })
	case *syntax.With:
		return statement(e, n, func() error { return walkWith(e, n) })
	case *syntax.Try:
		return statement(e, n, func() error { return walkTry(e, n) })
	case *syntax.ExceptHandler:
		return statement(e, n, func() error { return walkExceptHandler(e, n) })
	case *syntax.Raise:
		return statement(e, n, func() error { return walkRaise(e, n) })
	case *syntax.Return:
		return statement(e, n, func() error { return walkValueStmt(e, "return", n.Value) })
	case *syntax.Delete:
		return statement(e, n, func() error { return walkDelete(e, n) })
	case *syntax.Assert:
		return statement(e, n, func() error { return walkAssert(e, n) })
	case *syntax.Global:
		return statement(e, n, func() error { return walkNameList(e, n, "global", n.Names) })
	case *syntax.Nonlocal:
		return statement(e, n, func() error { return walkNameList(e, n, "nonlocal", n.Names) })
	case *syntax.Pass:
		return statement(e, n, func() error { return e.token("pass") })
	case *syntax.Break:
		return statement(e, n, func() error { return e.token("break") })
	case *syntax.Continue:
		return statement(e, n, func() error { return e.token("continue") })
	case *syntax.FunctionDef:
		return statement(e, n, func() error { return walkFunctionDef(e, n) })
	case *syntax.ClassDef:
		return statement(e, n, func() error { return walkClassDef(e, n) })

	case *syntax.BinOp:
		return e.parenthesized(n, func() error { return walkBinOp(e, n) })
	case *syntax.BoolOp:
		return e.parenthesized(n, func() error { return walkBoolOp(e, n) })
	case *syntax.UnaryOp:
		return e.parenthesized(n, func() error { return walkUnaryOp(e, n) })
	case *syntax.Compare:
		return e.parenthesized(n, func() error { return walkCompare(e, n) })
	case *syntax.Lambda:
		return e.parenthesized(n, func() error { return walkLambda(e, n) })
	case *syntax.IfExp:
		return e.parenthesized(n, func() error { return walkIfExp(e, n) })
	case *syntax.Yield:
		return e.parenthesized(n, func() error { return walkValueStmt(e, "yield", n.Value) })
	case *syntax.Ident:
		return e.parenthesized(n, func() error { return e.token(n.Name) })
	case *syntax.NameConstant:
		return e.parenthesized(n, func() error { return e.token(n.Value) })
	case *syntax.Num:
		return e.parenthesized(n, func() error { return e.numContent(n) })
	case *syntax.Str:
		return e.parenthesized(n, func() error { return e.strContent(n) })
	case *syntax.Attribute:
		return e.parenthesized(n, func() error { return walkAttribute(e, n) })
	case *syntax.Subscript:
		return e.parenthesized(n, func() error { return walkSubscript(e, n) })
	case *syntax.Call:
		return e.parenthesized(n, func() error { return walkCall(e, n) })
	case *syntax.Starred:
		return e.parenthesized(n, func() error { return walkStarred(e, n) })
	case *syntax.Tuple:
		return e.parenthesized(n, func() error { return walkElts(e, n, n.Elts, "", "") })
	case *syntax.List:
		return e.parenthesized(n, func() error { return walkElts(e, n, n.Elts, "[", "]") })
	case *syntax.Set:
		return e.parenthesized(n, func() error { return walkElts(e, n, n.Elts, "{", "}") })
	case *syntax.Dict:
		return e.parenthesized(n, func() error { return walkDict(e, n) })
	case *syntax.ListComp:
		return e.parenthesized(n, func() error { return walkComp(e, n.Elt, n.Generators, "[", "]") })
	case *syntax.SetComp:
		return e.parenthesized(n, func() error { return walkComp(e, n.Elt, n.Generators, "{", "}") })
	case *syntax.GeneratorExp:
		return e.parenthesized(n, func() error { return walkComp(e, n.Elt, n.Generators, "", "") })
	case *syntax.DictComp:
		return e.parenthesized(n, func() error { return walkDictComp(e, n) })

	case *syntax.Alias:
		return spacedExpr(e, n, func() error { return walkAlias(e, n) })
	case *syntax.WithItem:
		return spacedExpr(e, n, func() error { return walkWithItem(e, n) })
	case *syntax.Arguments:
		return spacedExpr(e, n, func() error { return walkArguments(e, n) })
	case *syntax.Arg:
		return spacedExpr(e, n, func() error { return walkArg(e, n) })
	case *syntax.Keyword:
		return spacedExpr(e, n, func() error { return walkKeyword(e, n) })
	case *syntax.Comprehension:
		return spacedExpr(e, n, func() error { return walkComprehension(e, n) })
	case *syntax.Index:
		return spacedExpr(e, n, func() error { return walkIndex(e, n) })
	case *syntax.Slice:
		return spacedExpr(e, n, func() error { return walkSlice(e, n) })
	}
	return fmt.Errorf("no traversal for node type %T", n)
}

func walkModule(e emitter, n *syntax.Module) error {
	if err := e.attr(n, "prefix", []part{e.ws(false)}, nil, ""); err != nil {
		return err
	}
	for _, stmt := range n.Body {
		if err := walk(e, stmt); err != nil {
			return err
		}
	}
	return e.attr(n, "suffix", []part{e.ws(false)}, nil, "")
}

func walkImport(e emitter, n *syntax.Import) error {
	if err := e.token("import"); err != nil {
		return err
	}
	for i, alias := range n.Names {
		if err := walk(e, alias); err != nil {
			return err
		}
		if i < len(n.Names)-1 {
			if err := e.token(","); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkImportFrom(e emitter, n *syntax.ImportFrom) error {
	if err := e.token("from"); err != nil {
		return err
	}
	if err := e.attr(n, "module_prefix", []part{e.ws(false)}, nil, " "); err != nil {
		return err
	}

	var parts []part
	for i := 0; i < n.Level; i++ {
		parts = append(parts, lit("."), e.ws(false))
	}
	if n.Module != "" {
		segs := strings.Split(n.Module, ".")
		for _, seg := range segs[:len(segs)-1] {
			parts = append(parts, e.ws(false), lit(seg), lit("."))
		}
		parts = append(parts, e.ws(false), lit(segs[len(segs)-1]))
	}
	deps := []dep{
		{"level", strconv.Itoa(n.Level)},
		{"module", n.Module},
	}
	def := strings.Repeat(".", n.Level) + n.Module
	if err := e.attr(n, "module", parts, deps, def); err != nil {
		return err
	}
	if err := e.attr(n, "module_suffix", []part{e.ws(false)}, nil, " "); err != nil {
		return err
	}

	if err := e.token("import"); err != nil {
		return err
	}
	for i, alias := range n.Names {
		if err := walk(e, alias); err != nil {
			return err
		}
		if i < len(n.Names)-1 {
			if err := e.token(","); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkAlias(e emitter, n *syntax.Alias) error {
	if err := e.token(n.Name); err != nil {
		return err
	}
	if n.AsName == "" {
		return nil
	}
	asParts := []part{e.ws(false), lit("as"), e.ws(false)}
	if err := e.attr(n, "asname", asParts, nil, " as "); err != nil {
		return err
	}
	return e.token(n.AsName)
}

func walkAssign(e emitter, n *syntax.Assign) error {
	for _, target := range n.Targets {
		if err := walk(e, target); err != nil {
			return err
		}
		if err := e.token("="); err != nil {
			return err
		}
	}
	return walk(e, n.Value)
}

func walkAugAssign(e emitter, n *syntax.AugAssign) error {
	if err := walk(e, n.Target); err != nil {
		return err
	}
	if err := e.token(n.Op.Token() + "="); err != nil {
		return err
	}
	return walk(e, n.Value)
}

func walkBinOp(e emitter, n *syntax.BinOp) error {
	if err := walk(e, n.Left); err != nil {
		return err
	}
	if err := e.token(n.Op.Token()); err != nil {
		return err
	}
	return walk(e, n.Right)
}

func walkBoolOp(e emitter, n *syntax.BoolOp) error {
	for i, value := range n.Values {
		if err := walk(e, value); err != nil {
			return err
		}
		if i < len(n.Values)-1 {
			if err := e.token(n.Op.Token()); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkUnaryOp(e emitter, n *syntax.UnaryOp) error {
	if err := e.token(n.Op.Token()); err != nil {
		return err
	}
	return walk(e, n.Operand)
}

// compareOpParts spells a comparison operator, leaving the interior
// whitespace of the two-word forms adjustable.
func compareOpParts(e emitter, tok string) []part {
	switch tok {
	case "is not":
		return []part{lit("is"), e.ws(false), lit("not")}
	case "not in":
		return []part{lit("not"), e.ws(false), lit("in")}
	default:
		return []part{lit(tok)}
	}
}

func walkCompare(e emitter, n *syntax.Compare) error {
	if err := walk(e, n.Left); err != nil {
		return err
	}
	for i, op := range n.Ops {
		slot := fmt.Sprintf("op_%d", i)
		tok := op.Token()
		if err := e.attr(n, slot, compareOpParts(e, tok), []dep{{slot, tok}}, tok); err != nil {
			return err
		}
		if err := walk(e, n.Comparators[i]); err != nil {
			return err
		}
	}
	return nil
}

func walkLambda(e emitter, n *syntax.Lambda) error {
	if err := e.token("lambda"); err != nil {
		return err
	}
	if err := walk(e, n.Args); err != nil {
		return err
	}
	if err := e.token(":"); err != nil {
		return err
	}
	return walk(e, n.Body)
}

func walkIfExp(e emitter, n *syntax.IfExp) error {
	if err := walk(e, n.Body); err != nil {
		return err
	}
	if err := e.token("if"); err != nil {
		return err
	}
	if err := walk(e, n.Test); err != nil {
		return err
	}
	if err := e.token("else"); err != nil {
		return err
	}
	return walk(e, n.OrElse)
}

func walkIf(e emitter, n *syntax.If) error {
	kw := "if"
	if n.Format().Mark("is_elif") {
		kw = "elif"
	}
	if err := e.token(kw); err != nil {
		return err
	}
	if err := walk(e, n.Test); err != nil {
		return err
	}
	colon := []part{e.ws(false), lit(":"), e.ws(false)}
	if err := e.attr(n, "testsuffix", colon, nil, ":"); err != nil {
		return err
	}
	if err := e.indented(func() error { return walkStmts(e, n.Body) }); err != nil {
		return err
	}

	if len(n.OrElse) == 0 {
		return nil
	}
	if inner, ok := n.OrElse[0].(*syntax.If); ok && len(n.OrElse) == 1 {
		elif, err := e.isElif(inner)
		if err != nil {
			return err
		}
		if elif {
			return walk(e, inner)
		}
	}
	if err := e.blockAttr(n, "elseprefix", []part{e.ws(false)}, ""); err != nil {
		return err
	}
	if err := e.token("else"); err != nil {
		return err
	}
	elseColon := []part{e.ws(false), lit(":"), e.ws(false)}
	if err := e.attr(n, "elsesuffix", elseColon, nil, ":"); err != nil {
		return err
	}
	return e.indented(func() error { return walkStmts(e, n.OrElse) })
}

func walkWhile(e emitter, n *syntax.While) error {
	if err := e.token("while"); err != nil {
		return err
	}
	if err := walk(e, n.Test); err != nil {
		return err
	}
	colon := []part{e.ws(false), lit(":"), e.ws(false)}
	if err := e.attr(n, "testsuffix", colon, nil, ":"); err != nil {
		return err
	}
	if err := e.indented(func() error { return walkStmts(e, n.Body) }); err != nil {
		return err
	}
	if len(n.OrElse) == 0 {
		return nil
	}
	if err := e.blockAttr(n, "elseprefix", []part{e.ws(false)}, ""); err != nil {
		return err
	}
	if err := e.token("else"); err != nil {
		return err
	}
	elseColon := []part{e.ws(false), lit(":"), e.ws(false)}
	if err := e.attr(n, "elsesuffix", elseColon, nil, ":"); err != nil {
		return err
	}
	return e.indented(func() error { return walkStmts(e, n.OrElse) })
}

func walkFor(e emitter, n *syntax.For) error {
	if err := e.token("for"); err != nil {
		return err
	}
	if err := walk(e, n.Target); err != nil {
		return err
	}
	if err := e.token("in"); err != nil {
		return err
	}
	if err := walk(e, n.Iter); err != nil {
		return err
	}
	if err := e.token(":"); err != nil {
		return err
	}
	if err := e.indented(func() error { return walkStmts(e, n.Body) }); err != nil {
		return err
	}
	if len(n.OrElse) == 0 {
		return nil
	}
	if err := e.blockAttr(n, "orelseprefix", []part{e.ws(false)}, ""); err != nil {
		return err
	}
	if err := e.token("else"); err != nil {
		return err
	}
	if err := e.token(":"); err != nil {
		return err
	}
	return e.indented(func() error { return walkStmts(e, n.OrElse) })
}

func walkWith(e emitter, n *syntax.With) error {
	if !n.Format().Mark("is_continued") {
		if err := e.token("with"); err != nil {
			return err
		}
	}
	for i, item := range n.Items {
		if err := walk(e, item); err != nil {
			return err
		}
		if i < len(n.Items)-1 {
			if err := e.token(","); err != nil {
				return err
			}
		}
	}

	if inner, ok := singleWith(n.Body); ok {
		cont, err := e.isContinuedWith(inner)
		if err != nil {
			return err
		}
		if cont {
			if err := e.token(","); err != nil {
				return err
			}
			return walk(e, inner)
		}
	}

	if err := e.token(":"); err != nil {
		return err
	}
	return e.indented(func() error { return walkStmts(e, n.Body) })
}

func singleWith(body []syntax.Node) (*syntax.With, bool) {
	if len(body) != 1 {
		return nil, false
	}
	w, ok := body[0].(*syntax.With)
	return w, ok
}

func walkWithItem(e emitter, n *syntax.WithItem) error {
	if err := walk(e, n.ContextExpr); err != nil {
		return err
	}
	if n.OptionalVars == nil {
		return nil
	}
	if err := e.token("as"); err != nil {
		return err
	}
	return walk(e, n.OptionalVars)
}

// wrapsHandlerTry reports whether a cleanup-only construct wraps a single
// handler-carrying construct, in which case the outer node must not spell
// its own opening keyword: the source had one flat statement.
func wrapsHandlerTry(n *syntax.Try) (*syntax.Try, bool) {
	if len(n.Handlers) != 0 || len(n.FinalBody) == 0 || len(n.Body) != 1 {
		return nil, false
	}
	inner, ok := n.Body[0].(*syntax.Try)
	if !ok || len(inner.Handlers) == 0 || len(inner.FinalBody) != 0 {
		return nil, false
	}
	return inner, true
}

func walkTry(e emitter, n *syntax.Try) error {
	inner, nested := wrapsHandlerTry(n)
	if nested {
		if err := walkTryInner(e, inner); err != nil {
			return err
		}
	} else {
		openTry := []part{lit("try"), e.ws(false), lit(":")}
		if err := e.attr(n, "open_try", openTry, nil, "try:"); err != nil {
			return err
		}
		if err := e.indented(func() error { return walkStmts(e, n.Body) }); err != nil {
			return err
		}
		for _, h := range n.Handlers {
			if err := walk(e, h); err != nil {
				return err
			}
		}
		if len(n.OrElse) > 0 {
			openElse := []part{e.ws(false), lit("else"), e.ws(false), lit(":")}
			if err := e.blockAttr(n, "open_else", openElse, "else:"); err != nil {
				return err
			}
			if err := e.indented(func() error { return walkStmts(e, n.OrElse) }); err != nil {
				return err
			}
		}
	}

	if len(n.FinalBody) == 0 {
		return nil
	}
	openFinally := []part{e.ws(false), lit("finally"), e.ws(false), lit(":")}
	if err := e.blockAttr(n, "open_finally", openFinally, "finally:"); err != nil {
		return err
	}
	return e.indented(func() error { return walkStmts(e, n.FinalBody) })
}

// walkTryInner spells the handler-carrying construct nested inside a
// cleanup-only wrapper. It shares the wrapper's keyword line, so it is not
// statement-wrapped.
func walkTryInner(e emitter, n *syntax.Try) error {
	openTry := []part{lit("try"), e.ws(false), lit(":")}
	if err := e.attr(n, "open_try", openTry, nil, "try:"); err != nil {
		return err
	}
	if err := e.indented(func() error { return walkStmts(e, n.Body) }); err != nil {
		return err
	}
	for _, h := range n.Handlers {
		if err := walk(e, h); err != nil {
			return err
		}
	}
	if len(n.OrElse) > 0 {
		openElse := []part{e.ws(false), lit("else"), e.ws(false), lit(":")}
		if err := e.blockAttr(n, "open_else", openElse, "else:"); err != nil {
			return err
		}
		if err := e.indented(func() error { return walkStmts(e, n.OrElse) }); err != nil {
			return err
		}
	}
	return nil
}

func walkExceptHandler(e emitter, n *syntax.ExceptHandler) error {
	if err := e.token("except"); err != nil {
		return err
	}
	if n.Type != nil {
		if err := walk(e, n.Type); err != nil {
			return err
		}
	}
	if n.Type != nil && n.Name != "" {
		asParts := []part{e.ws(false), lit("as"), e.ws(false)}
		if err := e.attr(n, "as", asParts, nil, " as "); err != nil {
			return err
		}
	}
	if n.Name != "" {
		if err := e.token(n.Name); err != nil {
			return err
		}
		if err := e.attr(n, "name_suffix", []part{e.ws(false)}, nil, ""); err != nil {
			return err
		}
	}
	if n.Type == nil && n.Name == "" {
		if err := e.attr(n, "body_prefix", []part{e.ws(false)}, nil, ""); err != nil {
			return err
		}
	}
	if err := e.token(":"); err != nil {
		return err
	}
	return e.indented(func() error { return walkStmts(e, n.Body) })
}

func walkRaise(e emitter, n *syntax.Raise) error {
	if err := e.token("raise"); err != nil {
		return err
	}
	if n.Exc == nil {
		return nil
	}
	if err := walk(e, n.Exc); err != nil {
		return err
	}
	if n.Cause == nil {
		return nil
	}
	if err := e.token("from"); err != nil {
		return err
	}
	return walk(e, n.Cause)
}

// walkValueStmt spells a keyword with an optional trailing value, shared by
// return and yield.
func walkValueStmt(e emitter, kw string, value syntax.Node) error {
	if err := e.token(kw); err != nil {
		return err
	}
	if value == nil {
		return nil
	}
	return walk(e, value)
}

func walkDelete(e emitter, n *syntax.Delete) error {
	if err := e.token("del"); err != nil {
		return err
	}
	for i, target := range n.Targets {
		if err := walk(e, target); err != nil {
			return err
		}
		if i < len(n.Targets)-1 {
			if err := e.token(","); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkAssert(e emitter, n *syntax.Assert) error {
	if err := e.token("assert"); err != nil {
		return err
	}
	if err := walk(e, n.Test); err != nil {
		return err
	}
	if n.Msg == nil {
		return nil
	}
	if err := e.token(","); err != nil {
		return err
	}
	return walk(e, n.Msg)
}

// walkNameList spells a keyword followed by bare comma-separated
// identifiers, shared by global and nonlocal. The names are not nodes, so
// the whole list is one slot keyed on the joined names.
func walkNameList(e emitter, n syntax.Node, kw string, names []string) error {
	if err := e.token(kw); err != nil {
		return err
	}
	var parts []part
	for i, name := range names {
		if i > 0 {
			parts = append(parts, e.ws(false), lit(","))
		}
		parts = append(parts, e.ws(false), lit(name))
	}
	joined := strings.Join(names, ", ")
	deps := []dep{{"names", joined}}
	return e.attr(n, "names", parts, deps, " "+joined)
}

func walkFunctionDef(e emitter, n *syntax.FunctionDef) error {
	if err := walkDecorators(e, n, n.DecoratorList); err != nil {
		return err
	}
	if err := e.token("def"); err != nil {
		return err
	}
	if err := e.attr(n, "name_prefix", []part{e.ws(false)}, nil, " "); err != nil {
		return err
	}
	if err := e.token(n.Name); err != nil {
		return err
	}
	if err := e.attr(n, "name_suffix", []part{e.ws(false)}, nil, ""); err != nil {
		return err
	}
	if err := e.token("("); err != nil {
		return err
	}
	if err := walk(e, n.Args); err != nil {
		return err
	}
	if err := e.token(")"); err != nil {
		return err
	}
	if n.Returns != nil {
		arrow := []part{e.ws(false), lit("->"), e.ws(false)}
		deps := []dep{{"returns", fmt.Sprintf("%p", n.Returns)}}
		if err := e.attr(n, "returns_prefix", arrow, deps, " -> "); err != nil {
			return err
		}
		if err := walk(e, n.Returns); err != nil {
			return err
		}
	}
	if err := e.attr(n, "body_prefix", []part{e.ws(false)}, nil, ""); err != nil {
		return err
	}
	if err := e.token(":"); err != nil {
		return err
	}
	return e.indented(func() error { return walkStmts(e, n.Body) })
}

func walkClassDef(e emitter, n *syntax.ClassDef) error {
	if err := walkDecorators(e, n, n.DecoratorList); err != nil {
		return err
	}
	if err := e.token("class"); err != nil {
		return err
	}
	if err := e.attr(n, "name_prefix", []part{e.ws(false)}, nil, " "); err != nil {
		return err
	}
	if err := e.token(n.Name); err != nil {
		return err
	}
	if err := e.attr(n, "name_suffix", []part{e.ws(false)}, nil, ""); err != nil {
		return err
	}
	if len(n.Bases) > 0 {
		if err := e.token("("); err != nil {
			return err
		}
		for i, base := range n.Bases {
			if err := walk(e, base); err != nil {
				return err
			}
			if i < len(n.Bases)-1 {
				if err := e.token(","); err != nil {
					return err
				}
			}
		}
		if err := e.token(")"); err != nil {
			return err
		}
	} else if err := e.optionalEmptyParens(n, "empty_bases"); err != nil {
		return err
	}
	if err := e.attr(n, "body_prefix", []part{e.ws(false)}, nil, ""); err != nil {
		return err
	}
	if err := e.token(":"); err != nil {
		return err
	}
	return e.indented(func() error { return walkStmts(e, n.Body) })
}

func walkDecorators(e emitter, n syntax.Node, decorators []syntax.Node) error {
	for i, dec := range decorators {
		if err := e.token("@"); err != nil {
			return err
		}
		if err := walk(e, dec); err != nil {
			return err
		}
		slot := fmt.Sprintf("decorator_%d", i)
		if err := e.blockAttr(n, slot, []part{e.ws(false)}, ""); err != nil {
			return err
		}
	}
	return nil
}

func walkArguments(e emitter, n *syntax.Arguments) error {
	total := len(n.Args)
	if n.VarArg != nil {
		total++
	}
	if n.KwArg != nil {
		total++
	}

	split := len(n.Args) - len(n.Defaults)
	i := 0
	comma := func() error {
		i++
		if i < total {
			return e.token(",")
		}
		return nil
	}

	for _, arg := range n.Args[:split] {
		if err := walk(e, arg); err != nil {
			return err
		}
		if err := comma(); err != nil {
			return err
		}
	}
	for j, arg := range n.Args[split:] {
		if err := walk(e, arg); err != nil {
			return err
		}
		if err := e.token("="); err != nil {
			return err
		}
		if err := walk(e, n.Defaults[j]); err != nil {
			return err
		}
		if err := comma(); err != nil {
			return err
		}
	}
	if n.VarArg != nil {
		star := []part{e.ws(false), lit("*"), e.ws(false)}
		if err := e.attr(n, "vararg_prefix", star, nil, "*"); err != nil {
			return err
		}
		if err := walk(e, n.VarArg); err != nil {
			return err
		}
		if err := comma(); err != nil {
			return err
		}
	}
	if n.KwArg != nil {
		stars := []part{e.ws(false), lit("**"), e.ws(false)}
		if err := e.attr(n, "kwarg_prefix", stars, nil, "**"); err != nil {
			return err
		}
		if err := walk(e, n.KwArg); err != nil {
			return err
		}
	}
	return nil
}

func walkArg(e emitter, n *syntax.Arg) error {
	if err := e.token(n.Name); err != nil {
		return err
	}
	if err := suffix(e, n, true); err != nil {
		return err
	}
	if n.Annotation == nil {
		return nil
	}
	if err := e.token(":"); err != nil {
		return err
	}
	return walk(e, n.Annotation)
}

func walkKeyword(e emitter, n *syntax.Keyword) error {
	if err := e.token(n.Arg); err != nil {
		return err
	}
	eq := []part{e.ws(false), lit("=")}
	if err := e.attr(n, "eq", eq, nil, "="); err != nil {
		return err
	}
	return walk(e, n.Value)
}

func walkCall(e emitter, n *syntax.Call) error {
	if err := walk(e, n.Func); err != nil {
		return err
	}
	if err := e.token("("); err != nil {
		return err
	}

	num := len(n.Args) + len(n.Keywords)
	if n.StarArgs != nil {
		num++
	}
	if n.KwArgs != nil {
		num++
	}
	i := 0
	comma := func() error {
		i++
		if i < num {
			return e.token(",")
		}
		return nil
	}

	for _, arg := range n.Args {
		if err := walk(e, arg); err != nil {
			return err
		}
		if err := comma(); err != nil {
			return err
		}
	}
	if n.StarArgs != nil {
		star := []part{e.ws(false), lit("*")}
		if err := e.attr(n, "starargs_prefix", star, nil, "*"); err != nil {
			return err
		}
		if err := walk(e, n.StarArgs); err != nil {
			return err
		}
		if err := comma(); err != nil {
			return err
		}
	}
	for _, kw := range n.Keywords {
		if err := walk(e, kw); err != nil {
			return err
		}
		if err := comma(); err != nil {
			return err
		}
	}
	if n.KwArgs != nil {
		stars := []part{e.ws(false), lit("**")}
		if err := e.attr(n, "kwargs_prefix", stars, nil, "**"); err != nil {
			return err
		}
		if err := walk(e, n.KwArgs); err != nil {
			return err
		}
	}
	if num > 0 {
		if err := e.optionalSuffix(n, "extracomma", ","); err != nil {
			return err
		}
	}
	return e.token(")")
}

func walkAttribute(e emitter, n *syntax.Attribute) error {
	if err := walk(e, n.Value); err != nil {
		return err
	}
	dot := []part{e.ws(false), lit("."), e.ws(false)}
	if err := e.attr(n, "dot", dot, nil, "."); err != nil {
		return err
	}
	return e.token(n.Attr)
}

func walkSubscript(e emitter, n *syntax.Subscript) error {
	if err := walk(e, n.Value); err != nil {
		return err
	}
	return walk(e, n.Slice)
}

func walkIndex(e emitter, n *syntax.Index) error {
	if err := e.token("["); err != nil {
		return err
	}
	if err := walk(e, n.Value); err != nil {
		return err
	}
	return e.token("]")
}

func walkSlice(e emitter, n *syntax.Slice) error {
	if err := e.token("["); err != nil {
		return err
	}
	if n.Lower != nil {
		if err := walk(e, n.Lower); err != nil {
			return err
		}
	} else if err := e.attr(n, "lowerspace", []part{e.ws(false)}, nil, ""); err != nil {
		return err
	}
	if err := e.token(":"); err != nil {
		return err
	}
	if n.Upper != nil {
		if err := walk(e, n.Upper); err != nil {
			return err
		}
	} else if err := e.attr(n, "upperspace", []part{e.ws(false)}, nil, ""); err != nil {
		return err
	}
	if n.Step != nil {
		if err := e.token(":"); err != nil {
			return err
		}
		if err := walk(e, n.Step); err != nil {
			return err
		}
	} else if err := e.attr(n, "stepspace", []part{e.ws(false)}, nil, ""); err != nil {
		return err
	}
	return e.token("]")
}

func walkStarred(e emitter, n *syntax.Starred) error {
	if err := e.token("*"); err != nil {
		return err
	}
	return walk(e, n.Value)
}

// walkElts spells a display of comma-separated elements with optional
// braces; the tuple form has none and relies on its paren count.
func walkElts(e emitter, n syntax.Node, elts []syntax.Node, open, close string) error {
	if open != "" {
		if err := e.token(open); err != nil {
			return err
		}
	}
	for i, elt := range elts {
		if err := walk(e, elt); err != nil {
			return err
		}
		if i < len(elts)-1 {
			if err := e.token(","); err != nil {
				return err
			}
		}
	}
	if len(elts) > 0 {
		if err := e.optionalSuffix(n, "extracomma", ","); err != nil {
			return err
		}
	}
	if close != "" {
		if err := e.attr(n, "close_prefix", []part{e.ws(false)}, nil, ""); err != nil {
			return err
		}
		return e.token(close)
	}
	return nil
}

func walkDict(e emitter, n *syntax.Dict) error {
	if err := e.token("{"); err != nil {
		return err
	}
	for i := range n.Keys {
		if err := walk(e, n.Keys[i]); err != nil {
			return err
		}
		if err := e.token(":"); err != nil {
			return err
		}
		if err := walk(e, n.Values[i]); err != nil {
			return err
		}
		if i < len(n.Keys)-1 {
			if err := e.token(","); err != nil {
				return err
			}
		}
	}
	if len(n.Keys) > 0 {
		if err := e.optionalSuffix(n, "extracomma", ","); err != nil {
			return err
		}
	}
	if err := e.attr(n, "close_prefix", []part{e.ws(false)}, nil, ""); err != nil {
		return err
	}
	return e.token("}")
}

func walkComp(e emitter, elt syntax.Node, gens []*syntax.Comprehension, open, close string) error {
	if open != "" {
		if err := e.token(open); err != nil {
			return err
		}
	}
	if err := walk(e, elt); err != nil {
		return err
	}
	for _, gen := range gens {
		if err := e.token("for"); err != nil {
			return err
		}
		if err := walk(e, gen); err != nil {
			return err
		}
	}
	if close != "" {
		return e.token(close)
	}
	return nil
}

func walkDictComp(e emitter, n *syntax.DictComp) error {
	if err := e.token("{"); err != nil {
		return err
	}
	if err := walk(e, n.Key); err != nil {
		return err
	}
	if err := e.token(":"); err != nil {
		return err
	}
	if err := walk(e, n.Value); err != nil {
		return err
	}
	for _, gen := range n.Generators {
		if err := e.token("for"); err != nil {
			return err
		}
		if err := walk(e, gen); err != nil {
			return err
		}
	}
	return e.token("}")
}

func walkComprehension(e emitter, n *syntax.Comprehension) error {
	if err := walk(e, n.Target); err != nil {
		return err
	}
	if err := e.token("in"); err != nil {
		return err
	}
	if err := walk(e, n.Iter); err != nil {
		return err
	}
	for _, cond := range n.Ifs {
		if err := e.token("if"); err != nil {
			return err
		}
		if err := walk(e, cond); err != nil {
			return err
		}
	}
	return nil
}

func walkStmts(e emitter, stmts []syntax.Node) error {
	for _, stmt := range stmts {
		if err := walk(e, stmt); err != nil {
			return err
		}
	}
	return nil
}
