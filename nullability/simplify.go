package nullability

import (
	"strings"

	"github.com/bawdo/sqlnull/nodes"
)

// Small constructors and pattern helpers shared by the rewrite rules.
// Emitted OR nodes are grouping-wrapped so the SQL visitors never need to
// reason about AND/OR precedence.

func andOf(l, r nodes.Node) nodes.Node {
	return nodes.NewAndNode(l, r)
}

func orOf(l, r nodes.Node) nodes.Node {
	return nodes.NewGrouping(nodes.NewOrNode(l, r))
}

func notOf(n nodes.Node) nodes.Node {
	return nodes.NewNotNode(n)
}

func isNullOf(n nodes.Node) nodes.Node {
	return nodes.NewUnaryNode(n, nodes.OpIsNull)
}

func isNotNullOf(n nodes.Node) nodes.Node {
	return nodes.NewUnaryNode(n, nodes.OpIsNotNull)
}

// strip removes grouping parens.
func strip(n nodes.Node) nodes.Node {
	for {
		g, ok := n.(*nodes.GroupingNode)
		if !ok {
			return n
		}
		n = g.Expr
	}
}

func boolLiteral(n nodes.Node) (bool, bool) {
	lit, ok := strip(n).(*nodes.LiteralNode)
	if !ok {
		return false, false
	}
	b, ok := lit.Value.(bool)
	return b, ok
}

func isNullLiteral(n nodes.Node) bool {
	lit, ok := strip(n).(*nodes.LiteralNode)
	return ok && lit.IsNullLiteral()
}

// isBooleanShaped reports whether a node is structurally known to produce a
// boolean. Used to gate `x = TRUE` collapses: rewriting a non-boolean x
// would change the expression's type.
func isBooleanShaped(n nodes.Node) bool {
	switch v := strip(n).(type) {
	case *nodes.ComparisonNode, *nodes.AndNode, *nodes.OrNode, *nodes.NotNode,
		*nodes.UnaryNode, *nodes.InNode, *nodes.BetweenNode, *nodes.ExistsNode:
		return true
	case *nodes.LiteralNode:
		_, ok := v.Value.(bool)
		return ok
	case *nodes.Attribute:
		return strings.Contains(strings.ToLower(v.TypeName), "bool")
	default:
		return false
	}
}

// collapseNullTestPair simplifies a conjunction (isAnd) or disjunction of
// two null tests over the same expression:
//
//	x IS NULL AND x IS NULL      ->  x IS NULL
//	x IS NULL AND x IS NOT NULL  ->  FALSE
//	x IS NULL OR  x IS NOT NULL  ->  TRUE
func collapseNullTestPair(left, right nodes.Node, isAnd bool) (nodes.Node, bool, bool) {
	lt, lok := strip(left).(*nodes.UnaryNode)
	rt, rok := strip(right).(*nodes.UnaryNode)
	if !lok || !rok || !nodes.Equal(lt.Expr, rt.Expr) {
		return nil, false, false
	}
	if lt.Op == rt.Op {
		return left, false, true
	}
	return nodes.Literal(!isAnd), false, true
}

// nonNullIfFalse returns the columns that must be non-null at any position
// where n evaluated FALSE. Only pure IS NULL guards (and OR chains of them)
// qualify: they are two-valued, so a sibling OR arm is only decisive when
// the guard was strictly FALSE and the proof is exact.
func nonNullIfFalse(n nodes.Node) colSet {
	switch v := strip(n).(type) {
	case *nodes.UnaryNode:
		if v.Op == nodes.OpIsNull {
			if attr, ok := strip(v.Expr).(*nodes.Attribute); ok {
				return single(attr.Key())
			}
		}
	case *nodes.OrNode:
		l := nonNullIfFalse(v.Left)
		r := nonNullIfFalse(v.Right)
		if l != nil && r != nil {
			return l.union(r)
		}
	}
	return nil
}

// isCompensatedEquality recognizes the licensed equality form
//
//	a = b OR (a IS NULL AND b IS NULL)
//
// (in either arm order). The form already carries its null compensation;
// re-expanding the inner equality would nest the compensation again on
// every rewrite pass.
func isCompensatedEquality(n *nodes.OrNode) bool {
	cmp, cok := strip(n.Left).(*nodes.ComparisonNode)
	guard, gok := strip(n.Right).(*nodes.AndNode)
	if !cok || !gok {
		cmp, cok = strip(n.Right).(*nodes.ComparisonNode)
		guard, gok = strip(n.Left).(*nodes.AndNode)
		if !cok || !gok {
			return false
		}
	}
	if cmp.Op != nodes.OpEq {
		return false
	}
	lt, lok := strip(guard.Left).(*nodes.UnaryNode)
	rt, rok := strip(guard.Right).(*nodes.UnaryNode)
	if !lok || !rok || lt.Op != nodes.OpIsNull || rt.Op != nodes.OpIsNull {
		return false
	}
	return (nodes.Equal(cmp.Left, lt.Expr) && nodes.Equal(cmp.Right, rt.Expr)) ||
		(nodes.Equal(cmp.Left, rt.Expr) && nodes.Equal(cmp.Right, lt.Expr))
}
