package nullability

// Test-only expression interpreters. sqlEval runs a predicate under SQL's
// three-valued NULL semantics, exactly as a database engine would. refEval
// runs the same tree under the query builder's value semantics, where NULL
// is an ordinary comparable value (NULL equals NULL, NULL differs from
// everything else) and boolean operators lift over it. Equivalence tests
// rewrite a tree, evaluate the original with refEval and the rewritten form
// with sqlEval, and require identical answers on every row.

import (
	"reflect"
	"testing"

	"github.com/bawdo/sqlnull/nodes"
)

// truth is a value of Kleene three-valued logic.
type truth int

const (
	truthFalse truth = iota
	truthTrue
	truthUnknown
)

func (t truth) String() string {
	switch t {
	case truthTrue:
		return "TRUE"
	case truthFalse:
		return "FALSE"
	default:
		return "UNKNOWN"
	}
}

// collapse maps UNKNOWN to false, the way a WHERE clause consumes the value.
func (t truth) collapse() bool { return t == truthTrue }

func truthOf(b bool) truth {
	if b {
		return truthTrue
	}
	return truthFalse
}

func (t truth) not() truth {
	switch t {
	case truthTrue:
		return truthFalse
	case truthFalse:
		return truthTrue
	default:
		return truthUnknown
	}
}

func truthAnd(a, b truth) truth {
	if a == truthFalse || b == truthFalse {
		return truthFalse
	}
	if a == truthUnknown || b == truthUnknown {
		return truthUnknown
	}
	return truthTrue
}

func truthOr(a, b truth) truth {
	if a == truthTrue || b == truthTrue {
		return truthTrue
	}
	if a == truthUnknown || b == truthUnknown {
		return truthUnknown
	}
	return truthFalse
}

// row binds column keys (nodes.Attribute.Key) to values; nil is NULL.
type row map[string]any

// sqlEval evaluates a predicate under SQL three-valued semantics.
func sqlEval(t *testing.T, n nodes.Node, r row) truth {
	t.Helper()
	switch v := n.(type) {
	case *nodes.GroupingNode:
		return sqlEval(t, v.Expr, r)
	case *nodes.LiteralNode:
		if v.Value == nil {
			return truthUnknown
		}
		b, ok := v.Value.(bool)
		if !ok {
			t.Fatalf("sqlEval: non-boolean literal %v in predicate position", v.Value)
		}
		return truthOf(b)
	case *nodes.AndNode:
		return truthAnd(sqlEval(t, v.Left, r), sqlEval(t, v.Right, r))
	case *nodes.OrNode:
		return truthOr(sqlEval(t, v.Left, r), sqlEval(t, v.Right, r))
	case *nodes.NotNode:
		return sqlEval(t, v.Expr, r).not()
	case *nodes.UnaryNode:
		isNull := sqlScalar(t, v.Expr, r) == nil
		return truthOf(isNull == (v.Op == nodes.OpIsNull))
	case *nodes.ComparisonNode:
		l := sqlScalar(t, v.Left, r)
		rr := sqlScalar(t, v.Right, r)
		switch v.Op {
		case nodes.OpDistinctFrom:
			return truthOf(!reflect.DeepEqual(l, rr))
		case nodes.OpNotDistinctFrom:
			return truthOf(reflect.DeepEqual(l, rr))
		}
		if l == nil || rr == nil {
			return truthUnknown
		}
		switch v.Op {
		case nodes.OpEq:
			return truthOf(reflect.DeepEqual(l, rr))
		case nodes.OpNotEq:
			return truthOf(!reflect.DeepEqual(l, rr))
		case nodes.OpGt:
			return truthOf(asInt(t, l) > asInt(t, rr))
		case nodes.OpGtEq:
			return truthOf(asInt(t, l) >= asInt(t, rr))
		case nodes.OpLt:
			return truthOf(asInt(t, l) < asInt(t, rr))
		case nodes.OpLtEq:
			return truthOf(asInt(t, l) <= asInt(t, rr))
		default:
			t.Fatalf("sqlEval: unsupported comparison op %d", v.Op)
			return truthUnknown
		}
	case *nodes.InNode:
		item := sqlScalar(t, v.Expr, r)
		res := truthFalse
		for _, val := range v.Vals {
			e := sqlScalar(t, val, r)
			if item == nil || e == nil {
				res = truthOr(res, truthUnknown)
				continue
			}
			res = truthOr(res, truthOf(reflect.DeepEqual(item, e)))
		}
		if v.Negate {
			res = res.not()
		}
		return res
	case *nodes.BetweenNode:
		x := sqlScalar(t, v.Expr, r)
		lo := sqlScalar(t, v.Low, r)
		hi := sqlScalar(t, v.High, r)
		if x == nil || lo == nil || hi == nil {
			return truthUnknown
		}
		res := truthOf(asInt(t, x) >= asInt(t, lo) && asInt(t, x) <= asInt(t, hi))
		if v.Negate {
			res = res.not()
		}
		return res
	default:
		t.Fatalf("sqlEval: unsupported predicate node %T", n)
		return truthUnknown
	}
}

// sqlScalar evaluates a value expression under SQL semantics (NULL
// propagates through operators, COALESCE picks the first non-NULL).
func sqlScalar(t *testing.T, n nodes.Node, r row) any {
	t.Helper()
	switch v := n.(type) {
	case *nodes.GroupingNode:
		return sqlScalar(t, v.Expr, r)
	case *nodes.Attribute:
		return r[v.Key()]
	case *nodes.LiteralNode:
		return v.Value
	case *nodes.CastedNode:
		return sqlScalar(t, v.Expr, r)
	case *nodes.UnaryMathNode:
		val := sqlScalar(t, v.Expr, r)
		if val == nil {
			return nil
		}
		if v.Op == nodes.OpNegate {
			return -asInt(t, val)
		}
		t.Fatalf("sqlScalar: unsupported unary math op %d", v.Op)
		return nil
	case *nodes.InfixNode:
		l := sqlScalar(t, v.Left, r)
		rr := sqlScalar(t, v.Right, r)
		if l == nil || rr == nil {
			return nil
		}
		switch v.Op {
		case nodes.OpConcat:
			return l.(string) + rr.(string)
		case nodes.OpPlus:
			return asInt(t, l) + asInt(t, rr)
		case nodes.OpMinus:
			return asInt(t, l) - asInt(t, rr)
		default:
			t.Fatalf("sqlScalar: unsupported infix op %d", v.Op)
			return nil
		}
	case *nodes.NamedFunctionNode:
		if v.Name != "COALESCE" {
			t.Fatalf("sqlScalar: unsupported function %q", v.Name)
		}
		for _, arg := range v.Args {
			if val := sqlScalar(t, arg, r); val != nil {
				return val
			}
		}
		return nil
	case *nodes.CaseNode:
		if v.Operand != nil {
			t.Fatalf("sqlScalar: simple CASE not supported in evaluator")
		}
		for _, w := range v.Whens {
			if sqlEval(t, w.Condition, r) == truthTrue {
				return sqlScalar(t, w.Result, r)
			}
		}
		if v.ElseVal != nil {
			return sqlScalar(t, v.ElseVal, r)
		}
		return nil
	default:
		t.Fatalf("sqlScalar: unsupported value node %T", n)
		return nil
	}
}

// refEval evaluates under the builder's value semantics. Booleans are
// represented as bool, NULL as nil; lifted boolean operators return nil
// when undetermined.
func refEval(t *testing.T, n nodes.Node, r row) any {
	t.Helper()
	switch v := n.(type) {
	case *nodes.GroupingNode:
		return refEval(t, v.Expr, r)
	case *nodes.Attribute:
		return r[v.Key()]
	case *nodes.LiteralNode:
		return v.Value
	case *nodes.CastedNode:
		return refEval(t, v.Expr, r)
	case *nodes.ComparisonNode:
		l := refEval(t, v.Left, r)
		rr := refEval(t, v.Right, r)
		switch v.Op {
		case nodes.OpEq:
			return reflect.DeepEqual(l, rr)
		case nodes.OpNotEq:
			return !reflect.DeepEqual(l, rr)
		}
		// Lifted ordering comparisons are false when either side is NULL.
		if l == nil || rr == nil {
			return false
		}
		switch v.Op {
		case nodes.OpGt:
			return asInt(t, l) > asInt(t, rr)
		case nodes.OpGtEq:
			return asInt(t, l) >= asInt(t, rr)
		case nodes.OpLt:
			return asInt(t, l) < asInt(t, rr)
		case nodes.OpLtEq:
			return asInt(t, l) <= asInt(t, rr)
		default:
			t.Fatalf("refEval: unsupported comparison op %d", v.Op)
			return nil
		}
	case *nodes.NotNode:
		val := refEval(t, v.Expr, r)
		if val == nil {
			return nil
		}
		return !val.(bool)
	case *nodes.AndNode:
		l := refEval(t, v.Left, r)
		rr := refEval(t, v.Right, r)
		if l == false || rr == false {
			return false
		}
		if l == nil || rr == nil {
			return nil
		}
		return true
	case *nodes.OrNode:
		l := refEval(t, v.Left, r)
		rr := refEval(t, v.Right, r)
		if l == true || rr == true {
			return true
		}
		if l == nil || rr == nil {
			return nil
		}
		return false
	case *nodes.UnaryNode:
		isNull := refEval(t, v.Expr, r) == nil
		return isNull == (v.Op == nodes.OpIsNull)
	case *nodes.InNode:
		item := refEval(t, v.Expr, r)
		found := false
		for _, val := range v.Vals {
			if reflect.DeepEqual(item, refEval(t, val, r)) {
				found = true
				break
			}
		}
		return found != v.Negate
	case *nodes.InfixNode:
		l := refEval(t, v.Left, r)
		rr := refEval(t, v.Right, r)
		if v.Op == nodes.OpConcat {
			// Value-semantics concatenation treats NULL as empty string.
			ls, _ := l.(string)
			rs, _ := rr.(string)
			return ls + rs
		}
		if l == nil || rr == nil {
			return nil
		}
		switch v.Op {
		case nodes.OpPlus:
			return asInt(t, l) + asInt(t, rr)
		case nodes.OpMinus:
			return asInt(t, l) - asInt(t, rr)
		default:
			t.Fatalf("refEval: unsupported infix op %d", v.Op)
			return nil
		}
	case *nodes.NamedFunctionNode:
		if v.Name != "COALESCE" {
			t.Fatalf("refEval: unsupported function %q", v.Name)
		}
		for _, arg := range v.Args {
			if val := refEval(t, arg, r); val != nil {
				return val
			}
		}
		return nil
	default:
		t.Fatalf("refEval: unsupported node %T", n)
		return nil
	}
}

func asInt(t *testing.T, val any) int {
	t.Helper()
	i, ok := val.(int)
	if !ok {
		t.Fatalf("expected int value, got %T (%v)", val, val)
	}
	return i
}
