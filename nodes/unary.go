package nodes

// UnaryOp represents a unary postfix null-test operator.
type UnaryOp int

const (
	OpIsNull UnaryOp = iota
	OpIsNotNull
)

// Opposite returns the other null test: IS NULL <-> IS NOT NULL.
func (op UnaryOp) Opposite() UnaryOp {
	if op == OpIsNull {
		return OpIsNotNull
	}
	return OpIsNull
}

// UnaryNode represents a unary predicate: Expr IS NULL / IS NOT NULL.
// The result of a null test is itself never NULL.
type UnaryNode struct {
	Combinable
	Expr Node
	Op   UnaryOp
}

func (n *UnaryNode) Accept(v Visitor) string { return v.VisitUnary(n) }

// NewUnaryNode creates a UnaryNode with properly initialised embedded structs.
func NewUnaryNode(expr Node, op UnaryOp) *UnaryNode {
	n := &UnaryNode{Expr: expr, Op: op}
	n.self = n
	return n
}
