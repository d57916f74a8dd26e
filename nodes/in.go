package nodes

// InNode represents an IN or NOT IN set predicate. The right-hand side is
// either a literal value list (Vals) or a subquery (Subquery); exactly one
// of the two is set.
type InNode struct {
	Combinable
	Expr     Node
	Vals     []Node
	Subquery Node // *SelectCore or *GroupingNode wrapping one
	Negate   bool
}

func (n *InNode) Accept(v Visitor) string { return v.VisitIn(n) }

// NewInNode creates an InNode over a value list.
func NewInNode(expr Node, vals []Node, negate bool) *InNode {
	n := &InNode{Expr: expr, Vals: vals, Negate: negate}
	n.self = n
	return n
}

// Negated returns the IN predicate with its polarity flipped, sharing the
// same item and value list.
func (n *InNode) Negated() *InNode {
	out := &InNode{Expr: n.Expr, Vals: n.Vals, Subquery: n.Subquery, Negate: !n.Negate}
	out.self = out
	return out
}

// InSubquery creates expr IN (subquery).
func InSubquery(expr, subquery Node) *InNode {
	n := &InNode{Expr: expr, Subquery: subquery}
	n.self = n
	return n
}

// BetweenNode represents a BETWEEN or NOT BETWEEN range predicate.
type BetweenNode struct {
	Combinable
	Expr   Node
	Low    Node
	High   Node
	Negate bool
}

func (n *BetweenNode) Accept(v Visitor) string { return v.VisitBetween(n) }

// NewBetweenNode creates a BetweenNode.
func NewBetweenNode(expr, low, high Node, negate bool) *BetweenNode {
	n := &BetweenNode{Expr: expr, Low: low, High: high, Negate: negate}
	n.self = n
	return n
}
