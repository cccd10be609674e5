// Package syntax defines the Python syntax tree, per-node formatting records,
// and the tree-sitter parser adapter that produces trees from source text.
package syntax

// Node is implemented by every syntax tree node. Nodes own their children
// exclusively; the tree carries no parent pointers (the scope resolver builds
// a rebuildable parent index instead).
type Node interface {
	// Format returns the node's formatting record. It is empty until the
	// annotator runs over the tree.
	Format() *Format

	// ParenCount reports how many redundant parenthesis pairs wrapped this
	// node in the original source. The traversal accounts for these pairs
	// around the node's own syntax.
	ParenCount() int

	// SetParenCount records the wrapping parenthesis pair count.
	SetParenCount(n int)
}

type base struct {
	format Format
	parens int
}

func (b *base) Format() *Format    { return &b.format }
func (b *base) ParenCount() int    { return b.parens }
func (b *base) SetParenCount(n int) { b.parens = n }

// Module is the root node of a parsed source file.
type Module struct {
	base
	Body []Node
}

// Alias is one imported name with an optional binding alias.
type Alias struct {
	base
	Name   string
	AsName string
}

// Import is a plain import statement with one or more aliases.
type Import struct {
	base
	Names []*Alias
}

// ImportFrom is a from-import statement. Level counts leading dots of a
// relative import; Module may be empty for purely relative imports.
type ImportFrom struct {
	base
	Module string
	Level  int
	Names  []*Alias
}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	base
	Value Node
}

// Assign is an assignment, possibly chained through multiple targets.
type Assign struct {
	base
	Targets []Node
	Value   Node
}

// AugAssign is an augmented assignment such as x += 1.
type AugAssign struct {
	base
	Target Node
	Op     BinOpKind
	Value  Node
}

// BinOp is a binary arithmetic or bitwise operation.
type BinOp struct {
	base
	Left  Node
	Op    BinOpKind
	Right Node
}

// BoolOp joins two or more values with a single boolean operator.
type BoolOp struct {
	base
	Op     BoolOpKind
	Values []Node
}

// UnaryOp is a unary operation.
type UnaryOp struct {
	base
	Op      UnaryOpKind
	Operand Node
}

// Compare is a chained comparison: Left, then pairwise (op, comparator).
type Compare struct {
	base
	Left        Node
	Ops         []CompareOpKind
	Comparators []Node
}

// Lambda is an anonymous function expression.
type Lambda struct {
	base
	Args *Arguments
	Body Node
}

// IfExp is a conditional expression: Body if Test else OrElse.
type IfExp struct {
	base
	Body   Node
	Test   Node
	OrElse Node
}

// If is a conditional statement. A chained alternative branch is represented
// as a single nested If in OrElse; whether the source spelled it flat or
// nested is a disambiguation outcome captured during annotation.
type If struct {
	base
	Test   Node
	Body   []Node
	OrElse []Node
}

// While is a while loop with an optional else arm.
type While struct {
	base
	Test   Node
	Body   []Node
	OrElse []Node
}

// For is a for loop with an optional else arm.
type For struct {
	base
	Target Node
	Iter   Node
	Body   []Node
	OrElse []Node
}

// With is a resource-acquisition statement with one or more items.
type With struct {
	base
	Items []*WithItem
	Body  []Node
}

// WithItem is one acquired resource with an optional as-target.
type WithItem struct {
	base
	ContextExpr  Node
	OptionalVars Node
}

// Try is a try statement carrying any combination of handlers, an else arm,
// and a cleanup block.
type Try struct {
	base
	Body      []Node
	Handlers  []*ExceptHandler
	OrElse    []Node
	FinalBody []Node
}

// ExceptHandler is one except clause. Name is empty when no as-binding exists.
type ExceptHandler struct {
	base
	Type Node
	Name string
	Body []Node
}

// Raise re-raises or raises an exception, optionally chained with a cause.
type Raise struct {
	base
	Exc   Node
	Cause Node
}

// Return returns from a function, optionally with a value.
type Return struct {
	base
	Value Node
}

// Yield yields from a generator, optionally with a value.
type Yield struct {
	base
	Value Node
}

// Delete is a del statement.
type Delete struct {
	base
	Targets []Node
}

// Assert is an assert statement with an optional message.
type Assert struct {
	base
	Test Node
	Msg  Node
}

// Global declares names as module-level inside a function.
type Global struct {
	base
	Names []string
}

// Nonlocal declares names as enclosing-scope inside a nested function.
type Nonlocal struct {
	base
	Names []string
}

// Pass is a pass statement.
type Pass struct{ base }

// Break is a break statement.
type Break struct{ base }

// Continue is a continue statement.
type Continue struct{ base }

// FunctionDef is a function definition.
type FunctionDef struct {
	base
	Name          string
	Args          *Arguments
	Body          []Node
	DecoratorList []Node
	Returns       Node
}

// ClassDef is a class definition.
type ClassDef struct {
	base
	Name          string
	Bases         []Node
	Body          []Node
	DecoratorList []Node
}

// Arguments is a formal parameter list. Defaults align with the trailing
// entries of Args.
type Arguments struct {
	base
	Args     []*Arg
	Defaults []Node
	VarArg   *Arg
	KwArg    *Arg
}

// Arg is a single formal parameter with an optional annotation.
type Arg struct {
	base
	Name       string
	Annotation Node
}

// Keyword is a keyword argument in a call.
type Keyword struct {
	base
	Arg   string
	Value Node
}

// Call is a function call.
type Call struct {
	base
	Func     Node
	Args     []Node
	Keywords []*Keyword
	StarArgs Node
	KwArgs   Node
}

// Attribute is an attribute access: Value.Attr.
type Attribute struct {
	base
	Value Node
	Attr  string
}

// Subscript is a subscript access; Slice is an Index or a Slice node.
type Subscript struct {
	base
	Value Node
	Slice Node
}

// Index is a plain subscript index.
type Index struct {
	base
	Value Node
}

// Slice is an extended subscript with optional bounds and step.
type Slice struct {
	base
	Lower Node
	Upper Node
	Step  Node
}

// Ident is an identifier occurrence.
type Ident struct {
	base
	Name string
}

// NameConstant is one of the singleton constants True, False, or None.
type NameConstant struct {
	base
	Value string
}

// Num is a numeric literal. Value holds the canonical decoded rendering; the
// exact original spelling lives in the formatting record.
type Num struct {
	base
	Value string
}

// Str is a string literal. Value holds the decoded string value; the exact
// original spelling (quote style, escapes, implicit concatenation) lives in
// the formatting record.
type Str struct {
	base
	Value string
}

// Starred is a *expr appearing in call arguments or assignment targets.
type Starred struct {
	base
	Value Node
}

// Tuple is a tuple display; wrapping parentheses are tracked by ParenCount.
type Tuple struct {
	base
	Elts []Node
}

// List is a list display.
type List struct {
	base
	Elts []Node
}

// Set is a set display.
type Set struct {
	base
	Elts []Node
}

// Dict is a dict display; Keys and Values align pairwise.
type Dict struct {
	base
	Keys   []Node
	Values []Node
}

// ListComp is a list comprehension.
type ListComp struct {
	base
	Elt        Node
	Generators []*Comprehension
}

// SetComp is a set comprehension.
type SetComp struct {
	base
	Elt        Node
	Generators []*Comprehension
}

// DictComp is a dict comprehension.
type DictComp struct {
	base
	Key        Node
	Value      Node
	Generators []*Comprehension
}

// GeneratorExp is a generator expression; its surrounding parentheses are
// tracked by ParenCount.
type GeneratorExp struct {
	base
	Elt        Node
	Generators []*Comprehension
}

// Comprehension is one for-clause of a comprehension with its if-filters.
type Comprehension struct {
	base
	Target Node
	Iter   Node
	Ifs    []Node
}
