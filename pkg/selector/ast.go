package selector

import (
	"fmt"

	"github.com/meridianmq/mqselect/pkg/types"
)

// ValueExpr is an expression node producing a typed value.
type ValueExpr interface {
	valueNode()
	fmt.Stringer
}

// BoolExpr is an expression node producing a boolean match result.
type BoolExpr interface {
	boolNode()
	fmt.Stringer
}

// LiteralExpr holds a literal value from the source.
type LiteralExpr struct {
	Value types.Value
}

func (*LiteralExpr) valueNode() {}

func (e *LiteralExpr) String() string {
	if e.Value.Type() == types.TypeString {
		return fmt.Sprintf("%q", e.Value.AsString())
	}
	return e.Value.String()
}

// IdentifierExpr references a named property.
type IdentifierExpr struct {
	Name string
}

func (*IdentifierExpr) valueNode() {}

func (e *IdentifierExpr) String() string { return e.Name }

// CompareOp is a comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe
)

// String returns the operator's source spelling.
func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	default:
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
}

// compareOpFromLexeme maps an operator lexeme to its CompareOp.
func compareOpFromLexeme(lexeme string) (CompareOp, bool) {
	switch lexeme {
	case "=":
		return OpEq, true
	case "<>":
		return OpNeq, true
	case "<":
		return OpLt, true
	case ">":
		return OpGt, true
	case "<=":
		return OpLe, true
	case ">=":
		return OpGe, true
	default:
		return 0, false
	}
}

// ComparisonExpr compares two value expressions.
type ComparisonExpr struct {
	Op    CompareOp
	Left  ValueExpr
	Right ValueExpr
}

func (*ComparisonExpr) boolNode() {}

func (e *ComparisonExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// NotExpr negates a boolean expression.
type NotExpr struct {
	Expr BoolExpr
}

func (*NotExpr) boolNode() {}

func (e *NotExpr) String() string { return fmt.Sprintf("(NOT %s)", e.Expr) }

// NullPredicateExpr is an IS NULL / IS NOT NULL test on an identifier.
type NullPredicateExpr struct {
	Ident   *IdentifierExpr
	Negated bool
}

func (*NullPredicateExpr) boolNode() {}

func (e *NullPredicateExpr) String() string {
	if e.Negated {
		return fmt.Sprintf("(%s IS NOT NULL)", e.Ident)
	}
	return fmt.Sprintf("(%s IS NULL)", e.Ident)
}

// AndExpr is a short-circuiting conjunction.
type AndExpr struct {
	Left  BoolExpr
	Right BoolExpr
}

func (*AndExpr) boolNode() {}

func (e *AndExpr) String() string {
	return fmt.Sprintf("(%s AND %s)", e.Left, e.Right)
}

// OrExpr is a short-circuiting disjunction.
type OrExpr struct {
	Left  BoolExpr
	Right BoolExpr
}

func (*OrExpr) boolNode() {}

func (e *OrExpr) String() string {
	return fmt.Sprintf("(%s OR %s)", e.Left, e.Right)
}
