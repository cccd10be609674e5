package syntax

import "fmt"

// BinOpKind identifies a binary arithmetic or bitwise operator.
type BinOpKind uint8

// BinOpKind values.
const (
	OpAdd BinOpKind = iota
	OpSub
	OpMult
	OpMatMult
	OpDiv
	OpMod
	OpPow
	OpLShift
	OpRShift
	OpBitAnd
	OpBitOr
	OpBitXor
	OpFloorDiv
)

// Token returns the operator's source spelling.
func (op BinOpKind) Token() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMult:
		return "*"
	case OpMatMult:
		return "@"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	case OpLShift:
		return "<<"
	case OpRShift:
		return ">>"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpFloorDiv:
		return "//"
	default:
		return fmt.Sprintf("BinOpKind(%d)", op)
	}
}

// BinOpFromToken maps a source spelling to its operator, with the augmented
// "=" suffix stripped by the caller.
func BinOpFromToken(tok string) (BinOpKind, bool) {
	switch tok {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMult, true
	case "@":
		return OpMatMult, true
	case "/":
		return OpDiv, true
	case "%":
		return OpMod, true
	case "**":
		return OpPow, true
	case "<<":
		return OpLShift, true
	case ">>":
		return OpRShift, true
	case "&":
		return OpBitAnd, true
	case "|":
		return OpBitOr, true
	case "^":
		return OpBitXor, true
	case "//":
		return OpFloorDiv, true
	default:
		return 0, false
	}
}

// BoolOpKind identifies a boolean join operator.
type BoolOpKind uint8

// BoolOpKind values.
const (
	OpAnd BoolOpKind = iota
	OpOr
)

// Token returns the operator's source spelling.
func (op BoolOpKind) Token() string {
	if op == OpAnd {
		return "and"
	}
	return "or"
}

// UnaryOpKind identifies a unary operator.
type UnaryOpKind uint8

// UnaryOpKind values.
const (
	OpInvert UnaryOpKind = iota
	OpNot
	OpUAdd
	OpUSub
)

// Token returns the operator's source spelling.
func (op UnaryOpKind) Token() string {
	switch op {
	case OpInvert:
		return "~"
	case OpNot:
		return "not"
	case OpUAdd:
		return "+"
	case OpUSub:
		return "-"
	default:
		return fmt.Sprintf("UnaryOpKind(%d)", op)
	}
}

// CompareOpKind identifies a comparison operator.
type CompareOpKind uint8

// CompareOpKind values.
const (
	OpEq CompareOpKind = iota
	OpNotEq
	OpLt
	OpLtE
	OpGt
	OpGtE
	OpIs
	OpIsNot
	OpIn
	OpNotIn
)

// Token returns the operator's canonical source spelling. The two-word
// operators normalize to single spaces; captured spelling may differ.
func (op CompareOpKind) Token() string {
	switch op {
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpLt:
		return "<"
	case OpLtE:
		return "<="
	case OpGt:
		return ">"
	case OpGtE:
		return ">="
	case OpIs:
		return "is"
	case OpIsNot:
		return "is not"
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	default:
		return fmt.Sprintf("CompareOpKind(%d)", op)
	}
}

// CompareOpFromToken maps a source spelling to its operator.
func CompareOpFromToken(tok string) (CompareOpKind, bool) {
	switch tok {
	case "==":
		return OpEq, true
	case "!=", "<>":
		return OpNotEq, true
	case "<":
		return OpLt, true
	case "<=":
		return OpLtE, true
	case ">":
		return OpGt, true
	case ">=":
		return OpGtE, true
	case "is":
		return OpIs, true
	case "is not":
		return OpIsNot, true
	case "in":
		return OpIn, true
	case "not in":
		return OpNotIn, true
	default:
		return 0, false
	}
}
