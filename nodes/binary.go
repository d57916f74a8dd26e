package nodes

// ComparisonOp represents a binary comparison operator.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota
	OpNotEq
	OpGt
	OpGtEq
	OpLt
	OpLtEq
	OpLike
	OpNotLike
	OpRegexp
	OpNotRegexp
	OpDistinctFrom
	OpNotDistinctFrom
	OpCaseSensitiveEq
	OpCaseInsensitiveEq
	OpContains
	OpOverlaps
)

// Inverse returns the operator equivalent to NOT (a op b) and true, when one
// exists. The inversion is only sound in exactly-two-valued logic: under SQL
// null semantics NOT (a > b) and a <= b differ when either side is NULL, so
// the caller must prove non-nullability (or be in two-valued mode) first.
func (op ComparisonOp) Inverse() (ComparisonOp, bool) {
	switch op {
	case OpEq:
		return OpNotEq, true
	case OpNotEq:
		return OpEq, true
	case OpGt:
		return OpLtEq, true
	case OpGtEq:
		return OpLt, true
	case OpLt:
		return OpGtEq, true
	case OpLtEq:
		return OpGt, true
	case OpLike:
		return OpNotLike, true
	case OpNotLike:
		return OpLike, true
	case OpRegexp:
		return OpNotRegexp, true
	case OpNotRegexp:
		return OpRegexp, true
	case OpDistinctFrom:
		return OpNotDistinctFrom, true
	case OpNotDistinctFrom:
		return OpDistinctFrom, true
	default:
		return op, false
	}
}

// Flip returns the operator for the comparison with its operands swapped
// (a op b == b op.Flip() a). Equality ops are symmetric; ordering ops mirror.
func (op ComparisonOp) Flip() ComparisonOp {
	switch op {
	case OpGt:
		return OpLt
	case OpGtEq:
		return OpLtEq
	case OpLt:
		return OpGt
	case OpLtEq:
		return OpGtEq
	default:
		return op
	}
}

// IsEquality reports whether the operator is plain = or !=, the two
// comparisons the null-semantics truth-table expansion applies to.
func (op ComparisonOp) IsEquality() bool {
	return op == OpEq || op == OpNotEq
}

// ComparisonNode represents a binary comparison: Left Op Right.
type ComparisonNode struct {
	Combinable
	Left  Node
	Right Node
	Op    ComparisonOp
}

func (n *ComparisonNode) Accept(v Visitor) string { return v.VisitComparison(n) }

// NewComparisonNode creates a ComparisonNode with properly initialised embedded structs.
func NewComparisonNode(left, right Node, op ComparisonOp) *ComparisonNode {
	n := &ComparisonNode{Left: left, Right: right, Op: op}
	n.self = n
	return n
}
