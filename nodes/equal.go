package nodes

import "reflect"

// Equal reports whether two nodes are structurally equal expressions.
//
// The comparison is exact for scalar expression nodes (columns, literals,
// parameters, comparisons, logical connectives, function calls, and the
// other operand shapes the nullability optimizer pattern-matches on).
// Composite query nodes (selects, joins, set operations) compare by pointer
// identity: reporting false for equivalent-but-distinct subqueries is always
// safe, since callers only use a true result to justify a collapse.
//
// Grouping nodes are transparent: (a) compares equal to a.
func Equal(a, b Node) bool {
	if g, ok := a.(*GroupingNode); ok {
		return Equal(g.Expr, b)
	}
	if g, ok := b.(*GroupingNode); ok {
		return Equal(a, g.Expr)
	}
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}

	switch an := a.(type) {
	case *Attribute:
		bn, ok := b.(*Attribute)
		return ok && an.Key() == bn.Key()
	case *LiteralNode:
		bn, ok := b.(*LiteralNode)
		return ok && reflect.DeepEqual(an.Value, bn.Value)
	case *BindParamNode:
		bn, ok := b.(*BindParamNode)
		return ok && an.Name != "" && an.Name == bn.Name
	case *SqlLiteral:
		bn, ok := b.(*SqlLiteral)
		return ok && an.Raw == bn.Raw && len(an.Binds) == 0 && len(bn.Binds) == 0
	case *ComparisonNode:
		bn, ok := b.(*ComparisonNode)
		return ok && an.Op == bn.Op && Equal(an.Left, bn.Left) && Equal(an.Right, bn.Right)
	case *UnaryNode:
		bn, ok := b.(*UnaryNode)
		return ok && an.Op == bn.Op && Equal(an.Expr, bn.Expr)
	case *AndNode:
		bn, ok := b.(*AndNode)
		return ok && Equal(an.Left, bn.Left) && Equal(an.Right, bn.Right)
	case *OrNode:
		bn, ok := b.(*OrNode)
		return ok && Equal(an.Left, bn.Left) && Equal(an.Right, bn.Right)
	case *NotNode:
		bn, ok := b.(*NotNode)
		return ok && Equal(an.Expr, bn.Expr)
	case *InNode:
		bn, ok := b.(*InNode)
		return ok && an.Negate == bn.Negate && Equal(an.Expr, bn.Expr) &&
			an.Subquery == bn.Subquery && nodeSlicesEqual(an.Vals, bn.Vals)
	case *BetweenNode:
		bn, ok := b.(*BetweenNode)
		return ok && an.Negate == bn.Negate && Equal(an.Expr, bn.Expr) &&
			Equal(an.Low, bn.Low) && Equal(an.High, bn.High)
	case *CastedNode:
		bn, ok := b.(*CastedNode)
		return ok && an.TypeName == bn.TypeName && Equal(an.Expr, bn.Expr)
	case *UnaryMathNode:
		bn, ok := b.(*UnaryMathNode)
		return ok && an.Op == bn.Op && Equal(an.Expr, bn.Expr)
	case *InfixNode:
		bn, ok := b.(*InfixNode)
		return ok && an.Op == bn.Op && Equal(an.Left, bn.Left) && Equal(an.Right, bn.Right)
	case *NamedFunctionNode:
		bn, ok := b.(*NamedFunctionNode)
		return ok && an.Name == bn.Name && an.Distinct == bn.Distinct &&
			nodeSlicesEqual(an.Args, bn.Args)
	case *AliasNode:
		bn, ok := b.(*AliasNode)
		return ok && an.Name == bn.Name && Equal(an.Expr, bn.Expr)
	case *ExtractNode:
		bn, ok := b.(*ExtractNode)
		return ok && an.Field == bn.Field && Equal(an.Expr, bn.Expr)
	case *AggregateNode:
		bn, ok := b.(*AggregateNode)
		return ok && an.Func == bn.Func && an.Distinct == bn.Distinct &&
			Equal(an.Expr, bn.Expr) && Equal(an.Filter, bn.Filter)
	case *CaseNode:
		bn, ok := b.(*CaseNode)
		if !ok || len(an.Whens) != len(bn.Whens) {
			return false
		}
		if !Equal(an.Operand, bn.Operand) || !Equal(an.ElseVal, bn.ElseVal) {
			return false
		}
		for i := range an.Whens {
			if !Equal(an.Whens[i].Condition, bn.Whens[i].Condition) ||
				!Equal(an.Whens[i].Result, bn.Whens[i].Result) {
				return false
			}
		}
		return true
	default:
		// Composite query nodes: pointer identity only (handled above).
		return false
	}
}

func nodeSlicesEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
