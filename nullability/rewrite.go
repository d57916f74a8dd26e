// Package nullability rewrites SQL predicate trees written under SQL's
// three-valued NULL logic into equivalent two-valued boolean form.
//
// The rewrite is a single recursive pass. Per node it computes whether the
// node's runtime value can be NULL and a possibly-simplified replacement
// node, carrying two pieces of positional state: the set of columns proven
// non-null at the current position, and whether the position licenses
// two-valued collapse (predicate positions, where a consumer cannot tell
// NULL from FALSE).
//
// The pass is a pure function of (tree, parameter values, mode flags): a
// rewriter instance holds no state that survives a Rewrite call, and input
// nodes are never mutated — unchanged subtrees come back pointer-identical.
package nullability

import (
	"fmt"

	"github.com/bawdo/sqlnull/nodes"
)

// Options configures a rewrite.
type Options struct {
	// Parameters maps bind-parameter names to their runtime values for this
	// execution. A nil value is SQL NULL. Parameters absent from the map are
	// treated as opaque and conservatively nullable.
	Parameters map[string]any

	// UseRelationalNulls leaves comparisons under the database engine's
	// native three-valued semantics: no truth-table expansion, no IN-list
	// augmentation, no concat null guards. Boolean simplification and
	// constant folding still apply.
	UseRelationalNulls bool
}

// Rewrite walks root and returns the rewritten tree plus a cache-validity
// flag. The flag is false when the rewritten shape depends on the concrete
// parameter values supplied in opts; such a tree must not be reused for an
// execution with different parameter values.
//
// A root that is not a composite query node is treated as sitting in a
// predicate (WHERE) position.
func Rewrite(root nodes.Node, opts Options) (nodes.Node, bool, error) {
	r := &rewriter{
		params:          opts.Parameters,
		relationalNulls: opts.UseRelationalNulls,
		canCache:        true,
	}
	out, _, _, err := r.visit(root, ctx{licensed: true})
	if err != nil {
		return nil, false, err
	}
	return out, r.canCache, nil
}

// rewriter carries the per-call accumulators. Positional state lives in ctx
// values instead; a rewriter must not be shared across concurrent calls.
type rewriter struct {
	params          map[string]any
	relationalNulls bool
	canCache        bool
}

// ctx is the position-dependent state threaded down the walk by value.
type ctx struct {
	// licensed is true only in predicate positions reached through AND/OR
	// chains, where collapsing NULL to FALSE is unobservable.
	licensed bool

	// nonNull is the set of column keys proven non-null at this position.
	nonNull colSet
}

// value returns the context for a value-position child: collapse is not
// licensed, but non-null proofs still hold.
func (c ctx) value() ctx {
	return ctx{nonNull: c.nonNull}
}

// predicate returns the context for a predicate-position child.
func (c ctx) predicate() ctx {
	return ctx{licensed: true, nonNull: c.nonNull}
}

// with returns the context extended by additional proven columns.
func (c ctx) with(proven colSet) ctx {
	return ctx{licensed: c.licensed, nonNull: c.nonNull.union(proven)}
}

// colSet is a set of column identity keys (see nodes.Attribute.Key).
// Sets are treated as immutable; union copies.
type colSet map[string]struct{}

func (s colSet) has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s colSet) union(o colSet) colSet {
	if len(o) == 0 {
		return s
	}
	if len(s) == 0 {
		return o
	}
	out := make(colSet, len(s)+len(o))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range o {
		out[k] = struct{}{}
	}
	return out
}

func (s colSet) intersect(o colSet) colSet {
	if len(s) == 0 || len(o) == 0 {
		return nil
	}
	var out colSet
	for k := range s {
		if o.has(k) {
			if out == nil {
				out = make(colSet)
			}
			out[k] = struct{}{}
		}
	}
	return out
}

func single(key string) colSet {
	return colSet{key: {}}
}

// visit dispatches on the node kind. It returns the rewritten node, whether
// its runtime value can be NULL, and the set of columns proven non-null
// whenever the rewritten node evaluates to TRUE (consumed by enclosing
// conjunction chains).
func (r *rewriter) visit(n nodes.Node, c ctx) (nodes.Node, bool, colSet, error) {
	switch v := n.(type) {
	case nil:
		return nil, false, nil, nil
	case *nodes.Attribute:
		return v, v.Nullable && !c.nonNull.has(v.Key()), nil, nil
	case *nodes.LiteralNode:
		return v, v.Value == nil, nil, nil
	case *nodes.BindParamNode:
		return r.visitBindParam(v)
	case *nodes.StarNode, *nodes.Table:
		return n, false, nil, nil
	case *nodes.SqlLiteral:
		// Raw SQL is opaque; assume it can produce NULL.
		return v, true, nil, nil
	case *nodes.GroupingNode:
		inner, nullable, proven, err := r.visit(v.Expr, c)
		if err != nil {
			return nil, false, nil, err
		}
		if inner == v.Expr {
			return v, nullable, proven, nil
		}
		// A rewrite may have replaced the grouped expression with a literal
		// or another self-delimiting node; keep the parens only when the
		// replacement still needs them.
		switch inner.(type) {
		case *nodes.LiteralNode, *nodes.UnaryNode, *nodes.GroupingNode:
			return inner, nullable, proven, nil
		}
		return nodes.NewGrouping(inner), nullable, proven, nil
	case *nodes.NotNode:
		return r.visitNot(v, c)
	case *nodes.UnaryNode:
		return r.visitNullTest(v, c)
	case *nodes.AndNode:
		return r.visitAnd(v, c)
	case *nodes.OrNode:
		return r.visitOr(v, c)
	case *nodes.ComparisonNode:
		return r.visitComparison(v, c)
	case *nodes.InfixNode:
		return r.visitInfix(v, c)
	case *nodes.UnaryMathNode:
		expr, nullable, _, err := r.visit(v.Expr, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if expr == v.Expr {
			return v, nullable, nil, nil
		}
		return nodes.NewUnaryMathNode(expr, v.Op), nullable, nil, nil
	case *nodes.CastedNode:
		expr, nullable, _, err := r.visit(v.Expr, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if expr == v.Expr {
			return v, nullable, nil, nil
		}
		return nodes.NewCasted(expr, v.TypeName), nullable, nil, nil
	case *nodes.NamedFunctionNode:
		return r.visitNamedFunction(v, c)
	case *nodes.CaseNode:
		return r.visitCase(v, c)
	case *nodes.InNode:
		return r.visitIn(v, c)
	case *nodes.BetweenNode:
		return r.visitBetween(v, c)
	case *nodes.ExistsNode:
		sub, _, _, err := r.visit(v.Subquery, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if sub == v.Subquery {
			return v, false, nil, nil
		}
		out := nodes.Exists(sub)
		out.Negated = v.Negated
		return out, false, nil, nil
	case *nodes.AliasNode:
		expr, nullable, _, err := r.visit(v.Expr, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if expr == v.Expr {
			return v, nullable, nil, nil
		}
		return nodes.NewAliasNode(expr, v.Name), nullable, nil, nil
	case *nodes.OrderingNode:
		expr, _, _, err := r.visit(v.Expr, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if expr == v.Expr {
			return v, false, nil, nil
		}
		out := &nodes.OrderingNode{Expr: expr, Direction: v.Direction, Nulls: v.Nulls}
		return out, false, nil, nil
	case *nodes.AggregateNode:
		return r.visitAggregate(v, c)
	case *nodes.ExtractNode:
		expr, nullable, _, err := r.visit(v.Expr, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if expr == v.Expr {
			return v, nullable, nil, nil
		}
		return nodes.NewExtractNode(v.Field, expr), nullable, nil, nil
	case *nodes.SelectCore:
		out, err := r.visitSelect(v, c)
		return out, true, nil, err
	case *nodes.SetOperationNode:
		left, _, _, err := r.visit(v.Left, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		right, _, _, err := r.visit(v.Right, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		orders, err := r.visitValueSlice(v.Orders, c)
		if err != nil {
			return nil, false, nil, err
		}
		limit, _, _, err := r.visit(v.Limit, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		offset, _, _, err := r.visit(v.Offset, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if left == v.Left && right == v.Right && orders == nil && limit == v.Limit && offset == v.Offset {
			return v, true, nil, nil
		}
		out := &nodes.SetOperationNode{Left: left, Right: right, Type: v.Type, Orders: v.Orders, Limit: limit, Offset: offset}
		if orders != nil {
			out.Orders = orders
		}
		return out, true, nil, nil
	case *nodes.TableAlias:
		rel, _, _, err := r.visit(v.Relation, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if rel == v.Relation {
			return v, false, nil, nil
		}
		return &nodes.TableAlias{Relation: rel, AliasName: v.AliasName}, false, nil, nil
	case *nodes.CTENode:
		q, _, _, err := r.visit(v.Query, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if q == v.Query {
			return v, false, nil, nil
		}
		return &nodes.CTENode{Name: v.Name, Query: q, Recursive: v.Recursive, Columns: v.Columns}, false, nil, nil
	default:
		// Unspecialized node shapes (window functions, grouping sets, ...)
		// pass through unrewritten and are conservatively nullable.
		return n, true, nil, nil
	}
}

// visitBindParam resolves a named parameter against the parameter map.
// A parameter currently bound to NULL is replaced by a literal NULL so that
// downstream folding sees a nullable constant; that substitution ties the
// rewritten shape to this execution's values, so caching is disabled.
func (r *rewriter) visitBindParam(p *nodes.BindParamNode) (nodes.Node, bool, colSet, error) {
	if p.Name == "" {
		// Anonymous parameters carry a build-time value and are never
		// re-bound, so inspecting the value does not affect cacheability.
		return p, p.Value == nil, nil, nil
	}
	val, bound := r.params[p.Name]
	if !bound {
		return p, true, nil, nil
	}
	if val == nil {
		r.canCache = false
		return nodes.Null(), true, nil, nil
	}
	// Refresh the carried value so generation sees this execution's binding.
	// The placeholder shape is unchanged, so the SQL stays cacheable.
	return nodes.NewNamedBindParam(p.Name, val), false, nil, nil
}

// visitAnd applies constant short-circuiting and null-test collapses after
// visiting both operands. Columns proven non-null by the left operand are
// proven for the right operand; the proofs of both sides merge going out.
func (r *rewriter) visitAnd(n *nodes.AndNode, c ctx) (nodes.Node, bool, colSet, error) {
	left, lNullable, lProven, err := r.visit(n.Left, c)
	if err != nil {
		return nil, false, nil, err
	}
	right, rNullable, rProven, err := r.visit(n.Right, c.with(lProven))
	if err != nil {
		return nil, false, nil, err
	}
	proven := lProven.union(rProven)

	if b, ok := boolLiteral(left); ok {
		if b {
			return right, rNullable, rProven, nil
		}
		return nodes.False(), false, nil, nil
	}
	if b, ok := boolLiteral(right); ok {
		if b {
			return left, lNullable, lProven, nil
		}
		return nodes.False(), false, nil, nil
	}
	if out, nullable, ok := collapseNullTestPair(left, right, true); ok {
		return out, nullable, proven, nil
	}
	if nodes.Equal(left, right) {
		return left, lNullable, proven, nil
	}
	if left == n.Left && right == n.Right {
		return n, lNullable || rNullable, proven, nil
	}
	return nodes.NewAndNode(left, right), lNullable || rNullable, proven, nil
}

// visitOr intersects the proofs of both arms: a disjunction only proves a
// column non-null when every arm does. Arms also feed each other negatively:
// when an earlier arm is a pure IS NULL guard, later arms are only decisive
// where that guard was false, i.e. where the guarded column is non-null.
func (r *rewriter) visitOr(n *nodes.OrNode, c ctx) (nodes.Node, bool, colSet, error) {
	if c.licensed && isCompensatedEquality(n) {
		// Already carries its own null compensation from a previous rewrite;
		// expanding the equality again would grow the tree without bound.
		return n, true, nil, nil
	}

	left, lNullable, lProven, err := r.visit(n.Left, c)
	if err != nil {
		return nil, false, nil, err
	}
	right, rNullable, rProven, err := r.visit(n.Right, c.with(nonNullIfFalse(left)))
	if err != nil {
		return nil, false, nil, err
	}
	proven := lProven.intersect(rProven)

	if b, ok := boolLiteral(left); ok {
		if b {
			return nodes.True(), false, nil, nil
		}
		return right, rNullable, rProven, nil
	}
	if b, ok := boolLiteral(right); ok {
		if b {
			return nodes.True(), false, nil, nil
		}
		return left, lNullable, lProven, nil
	}
	if out, nullable, ok := collapseNullTestPair(left, right, false); ok {
		return out, nullable, proven, nil
	}
	if nodes.Equal(left, right) {
		return left, lNullable, proven, nil
	}
	if left == n.Left && right == n.Right {
		return n, lNullable || rNullable, proven, nil
	}
	return nodes.NewOrNode(left, right), lNullable || rNullable, proven, nil
}

// visitNot implements the NOT rules: constant folding, IN/NOT IN and null
// test polarity flips, double-negation elimination, De Morgan's laws for
// provably non-nullable conjunctions, and comparison operator negation
// where two-valued logic makes it sound.
func (r *rewriter) visitNot(n *nodes.NotNode, c ctx) (nodes.Node, bool, colSet, error) {
	// Polarity flips that keep the operand at this tree position run before
	// the operand is visited, so licensing is preserved.
	switch inner := strip(n.Expr).(type) {
	case *nodes.NotNode:
		return r.visit(inner.Expr, c)
	case *nodes.UnaryNode:
		return r.visit(nodes.NewUnaryNode(inner.Expr, inner.Op.Opposite()), c)
	case *nodes.InNode:
		return r.visit(inner.Negated(), c)
	case *nodes.ExistsNode:
		flipped := nodes.Exists(inner.Subquery)
		flipped.Negated = !inner.Negated
		return r.visit(flipped, c)
	}

	operand, nullable, _, err := r.visit(n.Expr, c.value())
	if err != nil {
		return nil, false, nil, err
	}

	if b, ok := boolLiteral(operand); ok {
		return nodes.Literal(!b), false, nil, nil
	}
	// The flips above may become applicable only after the operand rewrote.
	switch inner := strip(operand).(type) {
	case *nodes.NotNode:
		return inner.Expr, nullable, nil, nil
	case *nodes.UnaryNode:
		return r.visit(nodes.NewUnaryNode(inner.Expr, inner.Op.Opposite()), c)
	case *nodes.InNode:
		return r.visit(inner.Negated(), c)
	}

	if !nullable {
		// De Morgan's laws need exactly-two-valued operands.
		switch inner := strip(operand).(type) {
		case *nodes.AndNode:
			return r.visit(orOf(notOf(inner.Left), notOf(inner.Right)), c)
		case *nodes.OrNode:
			return r.visit(andOf(notOf(inner.Left), notOf(inner.Right)), c)
		}
	}
	if cmp, ok := strip(operand).(*nodes.ComparisonNode); ok {
		if inv, ok := cmp.Op.Inverse(); ok && (!nullable || !r.relationalNulls) {
			return r.visit(nodes.NewComparisonNode(cmp.Left, cmp.Right, inv), c)
		}
	}

	if operand == n.Expr {
		return n, nullable, nil, nil
	}
	return nodes.NewNotNode(operand), nullable, nil, nil
}

// visitNullTest handles IS NULL / IS NOT NULL. The test's own result is
// never NULL, so the returned nullability is always false.
func (r *rewriter) visitNullTest(n *nodes.UnaryNode, c ctx) (nodes.Node, bool, colSet, error) {
	operand, nullable, _, err := r.visit(n.Expr, c.value())
	if err != nil {
		return nil, false, nil, err
	}

	// A bound parameter folds by its concrete value; the fold inspects the
	// value, so the resulting shape cannot be cached across executions.
	if p, ok := operand.(*nodes.BindParamNode); ok && p.Name != "" {
		if val, bound := r.params[p.Name]; bound {
			r.canCache = false
			return nodes.Literal((val == nil) == (n.Op == nodes.OpIsNull)), false, nil, nil
		}
	}

	if !nullable {
		return nodes.Literal(n.Op == nodes.OpIsNotNull), false, nil, nil
	}

	switch inner := operand.(type) {
	case *nodes.LiteralNode:
		return nodes.Literal(inner.IsNullLiteral() == (n.Op == nodes.OpIsNull)), false, nil, nil
	case *nodes.UnaryNode:
		// A null test over a null test: the inner result is never null.
		return nodes.Literal(n.Op == nodes.OpIsNotNull), false, nil, nil
	case *nodes.NotNode:
		return r.visit(nodes.NewUnaryNode(inner.Expr, n.Op), c)
	case *nodes.CastedNode:
		return r.visit(nodes.NewUnaryNode(inner.Expr, n.Op), c)
	case *nodes.UnaryMathNode:
		return r.visit(nodes.NewUnaryNode(inner.Expr, n.Op), c)
	case *nodes.NamedFunctionNode:
		if isCoalesce(inner) && len(inner.Args) > 0 {
			// COALESCE is null only when every alternative is null, so the
			// test distributes with AND (and OR for IS NOT NULL).
			return r.visit(distributeNullTest(inner.Args, n.Op, n.Op == nodes.OpIsNull), c)
		}
	case *nodes.InfixNode:
		// Ordinary binary operators are null when either operand is null.
		return r.visit(distributeNullTest([]nodes.Node{inner.Left, inner.Right}, n.Op, n.Op == nodes.OpIsNotNull), c)
	case *nodes.ComparisonNode:
		if inner.Op.IsEquality() {
			return r.visit(distributeNullTest([]nodes.Node{inner.Left, inner.Right}, n.Op, n.Op == nodes.OpIsNotNull), c)
		}
	}

	var out nodes.Node = n
	if operand != n.Expr {
		out = nodes.NewUnaryNode(operand, n.Op)
	}
	var proven colSet
	if attr, ok := operand.(*nodes.Attribute); ok && n.Op == nodes.OpIsNotNull {
		proven = single(attr.Key())
	}
	return out, false, proven, nil
}

// distributeNullTest builds `a IS [NOT] NULL <conn> b IS [NOT] NULL ...`
// with conn = AND when asAnd, OR otherwise.
func distributeNullTest(args []nodes.Node, op nodes.UnaryOp, asAnd bool) nodes.Node {
	out := nodes.Node(nodes.NewUnaryNode(args[0], op))
	for _, arg := range args[1:] {
		test := nodes.NewUnaryNode(arg, op)
		if asAnd {
			out = andOf(out, test)
		} else {
			out = orOf(out, test)
		}
	}
	return out
}

// visitInfix visits arithmetic, bitwise and concat operators. Under
// three-valued rewriting, string concatenation compensates nullable
// operands with COALESCE(x, '') so that NULL contributes an empty string
// instead of annulling the whole result.
func (r *rewriter) visitInfix(n *nodes.InfixNode, c ctx) (nodes.Node, bool, colSet, error) {
	left, lNullable, _, err := r.visit(n.Left, c.value())
	if err != nil {
		return nil, false, nil, err
	}
	right, rNullable, _, err := r.visit(n.Right, c.value())
	if err != nil {
		return nil, false, nil, err
	}

	if n.Op == nodes.OpConcat && !r.relationalNulls {
		nullable := false
		left = guardConcatOperand(left, lNullable)
		right = guardConcatOperand(right, rNullable)
		if left == n.Left && right == n.Right {
			return n, nullable, nil, nil
		}
		return nodes.NewInfixNode(left, right, n.Op), nullable, nil, nil
	}

	if left == n.Left && right == n.Right {
		return n, lNullable || rNullable, nil, nil
	}
	return nodes.NewInfixNode(left, right, n.Op), lNullable || rNullable, nil, nil
}

// guardConcatOperand compensates one concat operand. Literal NULLs become
// empty strings outright; anything else nullable needs the runtime check.
func guardConcatOperand(operand nodes.Node, nullable bool) nodes.Node {
	if !nullable {
		return operand
	}
	if lit, ok := operand.(*nodes.LiteralNode); ok && lit.IsNullLiteral() {
		return nodes.Literal("")
	}
	return nodes.Coalesce(operand, nodes.Literal(""))
}

// visitNamedFunction treats COALESCE specially (null only when every
// argument is null); all other function results are opaque to the optimizer
// and conservatively nullable.
func (r *rewriter) visitNamedFunction(n *nodes.NamedFunctionNode, c ctx) (nodes.Node, bool, colSet, error) {
	args := n.Args
	changed := false
	allNullable := true
	for i, arg := range n.Args {
		out, nullable, _, err := r.visit(arg, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if !nullable {
			allNullable = false
		}
		if out != arg {
			if !changed {
				args = make([]nodes.Node, len(n.Args))
				copy(args, n.Args)
				changed = true
			}
			args[i] = out
		}
	}

	nullable := true
	if isCoalesce(n) && len(n.Args) > 0 {
		nullable = allNullable
	}
	if !changed {
		return n, nullable, nil, nil
	}
	out := nodes.NewNamedFunction(n.Name, args...)
	out.Distinct = n.Distinct
	return out, nullable, nil, nil
}

// visitCase visits a CASE expression. Searched-case WHEN conditions are
// predicate positions (an untaken unknown branch is indistinguishable from
// a false one); simple-case tests and all results are value positions.
func (r *rewriter) visitCase(n *nodes.CaseNode, c ctx) (nodes.Node, bool, colSet, error) {
	operand, _, _, err := r.visit(n.Operand, c.value())
	if err != nil {
		return nil, false, nil, err
	}
	condCtx := c.value()
	if n.Operand == nil {
		condCtx = c.predicate()
	}

	whens := n.Whens
	changed := operand != n.Operand
	nullable := false
	copied := false
	for i := range n.Whens {
		cond, _, _, err := r.visit(n.Whens[i].Condition, condCtx)
		if err != nil {
			return nil, false, nil, err
		}
		result, resNullable, _, err := r.visit(n.Whens[i].Result, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		nullable = nullable || resNullable
		if cond != n.Whens[i].Condition || result != n.Whens[i].Result {
			if !copied {
				whens = make([]nodes.CaseWhen, len(n.Whens))
				copy(whens, n.Whens)
				copied = true
				changed = true
			}
			whens[i] = nodes.CaseWhen{Condition: cond, Result: result}
		}
	}

	elseVal, elseNullable, _, err := r.visit(n.ElseVal, c.value())
	if err != nil {
		return nil, false, nil, err
	}
	changed = changed || elseVal != n.ElseVal
	// A missing ELSE yields NULL when no branch matches.
	nullable = nullable || elseVal == nil || elseNullable

	if n.Operand == nil {
		if out, ok := pruneSearchedCase(whens, elseVal); ok {
			if out == nil {
				return nodes.Null(), true, nil, nil
			}
			return out, nullable, nil, nil
		}
	}
	if !changed {
		return n, nullable, nil, nil
	}
	out := nodes.NewCase()
	out.Operand = operand
	out.Whens = whens
	out.ElseVal = elseVal
	return out, nullable, nil, nil
}

// pruneSearchedCase drops branches with literal-false conditions and cuts
// the branch list at the first literal-true condition. It reports whether
// the whole CASE reduced to a single expression (possibly nil for a missing
// ELSE).
func pruneSearchedCase(whens []nodes.CaseWhen, elseVal nodes.Node) (nodes.Node, bool) {
	kept := whens[:0:0]
	tail := elseVal
	for _, w := range whens {
		if b, ok := boolLiteral(w.Condition); ok {
			if !b {
				continue
			}
			tail = w.Result
			break
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return tail, true
	}
	return nil, false
}

// visitAggregate visits an aggregate call. The FILTER clause is a predicate
// position. COUNT never yields NULL; every other aggregate does over an
// empty group.
func (r *rewriter) visitAggregate(n *nodes.AggregateNode, c ctx) (nodes.Node, bool, colSet, error) {
	expr, _, _, err := r.visit(n.Expr, c.value())
	if err != nil {
		return nil, false, nil, err
	}
	filter, _, _, err := r.visit(n.Filter, c.predicate())
	if err != nil {
		return nil, false, nil, err
	}
	nullable := n.Func != nodes.AggCount
	if expr == n.Expr && filter == n.Filter {
		return n, nullable, nil, nil
	}
	out := nodes.NewAggregateNode(n.Func, expr)
	out.Distinct = n.Distinct
	out.Filter = filter
	return out, nullable, nil, nil
}

// visitBetween visits a range predicate; no null compensation is attempted,
// the result is conservatively nullable when any part is.
func (r *rewriter) visitBetween(n *nodes.BetweenNode, c ctx) (nodes.Node, bool, colSet, error) {
	expr, eNullable, _, err := r.visit(n.Expr, c.value())
	if err != nil {
		return nil, false, nil, err
	}
	low, lNullable, _, err := r.visit(n.Low, c.value())
	if err != nil {
		return nil, false, nil, err
	}
	high, hNullable, _, err := r.visit(n.High, c.value())
	if err != nil {
		return nil, false, nil, err
	}
	nullable := eNullable || lNullable || hNullable
	if expr == n.Expr && low == n.Low && high == n.High {
		return n, nullable, nil, nil
	}
	return nodes.NewBetweenNode(expr, low, high, n.Negate), nullable, nil, nil
}

// visitSelect walks a SELECT. WHERE and HAVING are predicate positions and
// behave as one conjunction chain each: proofs established by one condition
// hold for the conditions after it. Everything else is a value position.
func (r *rewriter) visitSelect(n *nodes.SelectCore, c ctx) (*nodes.SelectCore, error) {
	out := n
	changed := func() *nodes.SelectCore {
		if out == n {
			cp := *n
			out = &cp
		}
		return out
	}

	from, _, _, err := r.visit(n.From, c.value())
	if err != nil {
		return nil, err
	}
	if from != n.From {
		changed().From = from
	}

	for i, join := range n.Joins {
		newJoin, err := r.visitJoin(join, c)
		if err != nil {
			return nil, err
		}
		if newJoin != join {
			if out == n || &out.Joins[0] == &n.Joins[0] {
				joins := make([]*nodes.JoinNode, len(n.Joins))
				copy(joins, n.Joins)
				changed().Joins = joins
			}
			out.Joins[i] = newJoin
		}
	}

	wheres, err := r.visitConjuncts(n.Wheres, c)
	if err != nil {
		return nil, err
	}
	if wheres != nil {
		changed().Wheres = wheres
	}
	havings, err := r.visitConjuncts(n.Havings, c)
	if err != nil {
		return nil, err
	}
	if havings != nil {
		changed().Havings = havings
	}

	if projections, err := r.visitValueSlice(n.Projections, c); err != nil {
		return nil, err
	} else if projections != nil {
		changed().Projections = projections
	}
	if groups, err := r.visitValueSlice(n.Groups, c); err != nil {
		return nil, err
	} else if groups != nil {
		changed().Groups = groups
	}
	if orders, err := r.visitValueSlice(n.Orders, c); err != nil {
		return nil, err
	} else if orders != nil {
		changed().Orders = orders
	}

	limit, _, _, err := r.visit(n.Limit, c.value())
	if err != nil {
		return nil, err
	}
	if limit != n.Limit {
		changed().Limit = limit
	}
	offset, _, _, err := r.visit(n.Offset, c.value())
	if err != nil {
		return nil, err
	}
	if offset != n.Offset {
		changed().Offset = offset
	}

	for i, cte := range n.CTEs {
		newCTE, _, _, err := r.visit(cte, c.value())
		if err != nil {
			return nil, err
		}
		if newCTE != nodes.Node(cte) {
			if out == n || len(out.CTEs) == 0 || &out.CTEs[0] == &n.CTEs[0] {
				ctes := make([]*nodes.CTENode, len(n.CTEs))
				copy(ctes, n.CTEs)
				changed().CTEs = ctes
			}
			out.CTEs[i] = newCTE.(*nodes.CTENode)
		}
	}

	return out, nil
}

// visitConjuncts rewrites a condition slice combined with AND, threading
// non-null proofs left to right and dropping conditions that folded to
// literal TRUE. A condition folding to literal FALSE collapses the whole
// chain. Returns nil when nothing changed.
func (r *rewriter) visitConjuncts(conds []nodes.Node, c ctx) ([]nodes.Node, error) {
	if len(conds) == 0 {
		return nil, nil
	}
	pc := c.predicate()
	var rewritten []nodes.Node
	changed := false
	for i, cond := range conds {
		out, _, proven, err := r.visit(cond, pc)
		if err != nil {
			return nil, err
		}
		pc = pc.with(proven)
		if b, ok := boolLiteral(out); ok {
			if b {
				// A trivially true condition adds nothing to the chain.
				if !changed {
					rewritten = append([]nodes.Node(nil), conds[:i]...)
					changed = true
				}
				continue
			}
			return []nodes.Node{nodes.False()}, nil
		}
		if out != cond && !changed {
			rewritten = append([]nodes.Node(nil), conds[:i]...)
			changed = true
		}
		if changed {
			rewritten = append(rewritten, out)
		}
	}
	if !changed {
		return nil, nil
	}
	return rewritten, nil
}

func (r *rewriter) visitValueSlice(items []nodes.Node, c ctx) ([]nodes.Node, error) {
	var rewritten []nodes.Node
	changed := false
	for i, item := range items {
		out, _, _, err := r.visit(item, c.value())
		if err != nil {
			return nil, err
		}
		if out != item && !changed {
			rewritten = make([]nodes.Node, len(items))
			copy(rewritten, items)
			changed = true
		}
		if changed {
			rewritten[i] = out
		}
	}
	if !changed {
		return nil, nil
	}
	return rewritten, nil
}

// visitJoin validates the join condition shape before rewriting it. The
// upstream builder only produces equality comparisons or AND chains of
// comparisons; any other shape is an invariant violation and aborts the
// rewrite.
func (r *rewriter) visitJoin(n *nodes.JoinNode, c ctx) (*nodes.JoinNode, error) {
	right, _, _, err := r.visit(n.Right, c.value())
	if err != nil {
		return nil, err
	}
	if n.On != nil {
		if err := validateJoinPredicate(n.On); err != nil {
			return nil, err
		}
	}
	on, _, _, err := r.visit(n.On, c.predicate())
	if err != nil {
		return nil, err
	}
	if right == n.Right && on == n.On {
		return n, nil
	}
	return &nodes.JoinNode{Left: n.Left, Right: right, Type: n.Type, On: on, Lateral: n.Lateral}, nil
}

func validateJoinPredicate(on nodes.Node) error {
	switch v := strip(on).(type) {
	case *nodes.ComparisonNode:
		return nil
	case *nodes.AndNode:
		if err := validateJoinPredicate(v.Left); err != nil {
			return err
		}
		return validateJoinPredicate(v.Right)
	default:
		return fmt.Errorf("nullability: join condition contains %T; only equality comparisons and AND chains of comparisons are supported", v)
	}
}

func isCoalesce(n *nodes.NamedFunctionNode) bool {
	return n.Name == "COALESCE"
}
