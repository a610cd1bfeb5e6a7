package selector

import (
	"github.com/meridianmq/mqselect/pkg/types"
)

// evalBool evaluates a boolean expression against an environment.
// Unknown collapses to false at every comparison boundary, so the result
// is always a definite bool.
func evalBool(e BoolExpr, env SelectorEnv) bool {
	switch n := e.(type) {
	case *ComparisonExpr:
		return compare(n.Op, evalValue(n.Left, env), evalValue(n.Right, env))
	case *NotExpr:
		return !evalBool(n.Expr, env)
	case *NullPredicateExpr:
		isNull := !env.Present(n.Ident.Name) || env.Value(n.Ident.Name).IsUnknown()
		return isNull != n.Negated
	case *AndExpr:
		return evalBool(n.Left, env) && evalBool(n.Right, env)
	case *OrExpr:
		return evalBool(n.Left, env) || evalBool(n.Right, env)
	default:
		return false
	}
}

// evalValue evaluates a value expression. An absent identifier yields
// the unknown value.
func evalValue(e ValueExpr, env SelectorEnv) types.Value {
	switch n := e.(type) {
	case *LiteralExpr:
		return n.Value
	case *IdentifierExpr:
		if !env.Present(n.Name) {
			return types.Unknown
		}
		return env.Value(n.Name)
	default:
		return types.Unknown
	}
}

// compare applies a comparison operator under three-valued logic. Any
// unknown operand makes the comparison false. Exact and inexact numerics
// compare after promotion to inexact; exact pairs compare exactly.
// Booleans and strings admit only = and <>; ordering them is false.
// Operands of mismatched kinds compare false for every operator,
// including <>.
func compare(op CompareOp, v1, v2 types.Value) bool {
	if v1.IsUnknown() || v2.IsUnknown() {
		return false
	}
	if v1.IsNumeric() && v2.IsNumeric() {
		if v1.Type() == types.TypeExact && v2.Type() == types.TypeExact {
			return compareExact(op, v1.AsExact(), v2.AsExact())
		}
		a, _ := v1.AsNumber()
		b, _ := v2.AsNumber()
		return compareInexact(op, a, b)
	}
	if v1.Type() != v2.Type() {
		return false
	}
	switch v1.Type() {
	case types.TypeBool:
		switch op {
		case OpEq:
			return v1.AsBool() == v2.AsBool()
		case OpNeq:
			return v1.AsBool() != v2.AsBool()
		default:
			return false
		}
	case types.TypeString:
		switch op {
		case OpEq:
			return v1.AsString() == v2.AsString()
		case OpNeq:
			return v1.AsString() != v2.AsString()
		default:
			return false
		}
	default:
		return false
	}
}

func compareExact(op CompareOp, a, b uint64) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNeq:
		return a != b
	case OpLt:
		return a < b
	case OpGt:
		return a > b
	case OpLe:
		return a <= b
	case OpGe:
		return a >= b
	default:
		return false
	}
}

func compareInexact(op CompareOp, a, b float64) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNeq:
		return a != b
	case OpLt:
		return a < b
	case OpGt:
		return a > b
	case OpLe:
		return a <= b
	case OpGe:
		return a >= b
	default:
		return false
	}
}
