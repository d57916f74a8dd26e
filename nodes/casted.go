package nodes

// CastedNode represents an explicit type conversion of an expression:
// CAST(expr AS type). Conversion is transparent to null tests — the cast of
// a value is NULL exactly when the value is NULL — which the nullability
// optimizer relies on when unwrapping operands.
type CastedNode struct {
	Predications
	Arithmetics
	Combinable
	Expr     Node
	TypeName string
}

func (n *CastedNode) Accept(v Visitor) string { return v.VisitCasted(n) }

// NewCasted creates a CastedNode with properly initialised embedded structs.
func NewCasted(expr Node, typeName string) *CastedNode {
	n := &CastedNode{Expr: expr, TypeName: typeName}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}
