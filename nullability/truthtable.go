package nullability

import "github.com/bawdo/sqlnull/nodes"

// visitComparison rewrites comparison predicates. Equality and inequality
// over nullable operands are the crux: SQL's `a = b` yields UNKNOWN when
// either side is NULL, while the query builder's equality treats NULL as an
// ordinary comparable value (NULL equals NULL, NULL differs from anything
// else). The truth-table expansion closes that gap with explicit null
// tests.
func (r *rewriter) visitComparison(n *nodes.ComparisonNode, c ctx) (nodes.Node, bool, colSet, error) {
	left, lNullable, _, err := r.visit(n.Left, c.value())
	if err != nil {
		return nil, false, nil, err
	}
	right, rNullable, _, err := r.visit(n.Right, c.value())
	if err != nil {
		return nil, false, nil, err
	}

	if !n.Op.IsEquality() {
		nullable := lNullable || rNullable
		if n.Op == nodes.OpDistinctFrom || n.Op == nodes.OpNotDistinctFrom {
			// IS [NOT] DISTINCT FROM is already null-safe and two-valued.
			nullable = false
		}
		if left == n.Left && right == n.Right {
			return n, nullable, nil, nil
		}
		return nodes.NewComparisonNode(left, right, n.Op), nullable, nil, nil
	}

	// A literal NULL operand turns the comparison into a null test on the
	// other side: NULL never equals a value, and equals another NULL.
	if isNullLiteral(left) || isNullLiteral(right) {
		other := left
		if isNullLiteral(left) {
			other = right
		}
		testOp := nodes.OpIsNull
		if n.Op == nodes.OpNotEq {
			testOp = nodes.OpIsNotNull
		}
		return r.visit(nodes.NewUnaryNode(other, testOp), c)
	}

	if r.relationalNulls {
		if left == n.Left && right == n.Right {
			return n, lNullable || rNullable, nil, nil
		}
		return nodes.NewComparisonNode(left, right, n.Op), lNullable || rNullable, nil, nil
	}

	// `x = TRUE` is x itself and `x = FALSE` is NOT x, provided x cannot be
	// NULL (a NULL x would make the comparison UNKNOWN but the collapsed
	// form NULL-propagating in a different shape).
	if b, ok := boolLiteral(left); ok && !rNullable && isBooleanShaped(right) {
		return r.collapseBoolLiteral(b, right, n.Op, c)
	}
	if b, ok := boolLiteral(right); ok && !lNullable && isBooleanShaped(left) {
		return r.collapseBoolLiteral(b, left, n.Op, c)
	}

	if !lNullable && !rNullable {
		if nodes.Equal(left, right) {
			return nodes.Literal(n.Op == nodes.OpEq), false, nil, nil
		}
		// NOT wrappers can migrate into the operator once both sides are
		// known two-valued: !a = b is a <> b.
		l2, lneg := unwrapNot(left)
		r2, rneg := unwrapNot(right)
		op := n.Op
		if lneg != rneg {
			op, _ = op.Inverse()
		}
		if l2 == left && r2 == right {
			if left == n.Left && right == n.Right {
				return n, false, nil, nil
			}
			return nodes.NewComparisonNode(left, right, n.Op), false, nil, nil
		}
		return nodes.NewComparisonNode(l2, r2, op), false, nil, nil
	}

	out, proven := r.expandEquality(n, left, lNullable, right, rNullable, c.licensed)
	return out, false, proven, nil
}

func (r *rewriter) collapseBoolLiteral(b bool, x nodes.Node, op nodes.ComparisonOp, c ctx) (nodes.Node, bool, colSet, error) {
	if b == (op == nodes.OpEq) {
		return r.visit(x, c)
	}
	return r.visit(nodes.NewNotNode(x), c)
}

// expandEquality emits the two-valued expansion of `left op right` where at
// least one side is nullable and op is Equal or NotEqual.
//
// NOT wrappers are stripped off both sides first; a surviving parity
// difference folds into the bare comparison operator (!a = b compares as
// a <> b). The expansion for Equal:
//
//	both nullable:  (a IS NOT NULL AND b IS NOT NULL AND a ~ b)
//	                  OR (a IS NULL AND b IS NULL)
//	one nullable:   a IS NOT NULL AND a ~ b
//
// and for NotEqual the De Morgan duals:
//
//	both nullable:  (a IS NULL OR b IS NULL OR a ~ b)
//	                  AND (a IS NOT NULL OR b IS NOT NULL)
//	one nullable:   a IS NULL OR a ~ b
//
// where ~ is the parity-adjusted operator. Null guards come before the bare
// comparison in every conjunct and disjunct chain: a later rewrite pass then
// sees the comparison operands under proof and leaves the form alone instead
// of expanding it again.
//
// In licensed positions, where UNKNOWN collapses to FALSE anyway, Equal with
// matching parity uses the cheaper forms `a = b OR (a IS NULL AND b IS NULL)`
// (both nullable) and bare `a = b` (one side nullable).
//
// When stripping and parity folding change nothing, the inner comparison is
// the original node, so feeding rewrite output back through the rewriter is
// a fixed point.
func (r *rewriter) expandEquality(orig *nodes.ComparisonNode, left nodes.Node, lNullable bool, right nodes.Node, rNullable bool, licensed bool) (nodes.Node, colSet) {
	op := orig.Op
	l, lneg := unwrapNot(left)
	rn, rneg := unwrapNot(right)
	sameParity := lneg == rneg
	cmpOp := op
	if !sameParity {
		cmpOp, _ = cmpOp.Inverse()
	}
	var cmp nodes.Node = orig
	if l != orig.Left || rn != orig.Right || cmpOp != orig.Op {
		cmp = nodes.NewComparisonNode(l, rn, cmpOp)
	}

	if op == nodes.OpEq {
		switch {
		case lNullable && rNullable:
			bothNull := andOf(isNullOf(l), isNullOf(rn))
			if licensed && sameParity {
				return orOf(cmp, bothNull), nil
			}
			guarded := andOf(andOf(isNotNullOf(l), isNotNullOf(rn)), cmp)
			return orOf(guarded, bothNull), nil
		case lNullable:
			if licensed && sameParity {
				return cmp, provenColumn(l)
			}
			return andOf(isNotNullOf(l), cmp), provenColumn(l)
		default:
			if licensed && sameParity {
				return cmp, provenColumn(rn)
			}
			return andOf(isNotNullOf(rn), cmp), provenColumn(rn)
		}
	}

	switch {
	case lNullable && rNullable:
		anyNull := orOf(orOf(isNullOf(l), isNullOf(rn)), cmp)
		anyValue := orOf(isNotNullOf(l), isNotNullOf(rn))
		return andOf(anyNull, anyValue), nil
	case lNullable:
		return orOf(isNullOf(l), cmp), nil
	default:
		return orOf(isNullOf(rn), cmp), nil
	}
}

// provenColumn returns the singleton proof set when the guarded operand is a
// plain column; the emitted form only evaluates TRUE where it is non-null.
func provenColumn(n nodes.Node) colSet {
	if attr, ok := strip(n).(*nodes.Attribute); ok {
		return single(attr.Key())
	}
	return nil
}

// unwrapNot strips NOT wrappers (and grouping parens) off a boolean
// expression and reports whether an odd number of negations was removed.
func unwrapNot(n nodes.Node) (nodes.Node, bool) {
	neg := false
	for {
		switch v := n.(type) {
		case *nodes.GroupingNode:
			n = v.Expr
		case *nodes.NotNode:
			n = v.Expr
			neg = !neg
		default:
			return n, neg
		}
	}
}
