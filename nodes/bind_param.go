package nodes

// BindParamNode represents a named bind parameter placeholder.
//
// The Name identifies the parameter in the parameter-value map supplied to
// the nullability optimizer at rewrite time; the tree itself never knows the
// runtime value. Value holds a default used by visitors when rendering the
// query directly.
type BindParamNode struct {
	Predications
	Combinable
	Name  string
	Value any
}

func (n *BindParamNode) Accept(v Visitor) string { return v.VisitBindParam(n) }

// NewBindParam creates an anonymous BindParamNode carrying a value.
func NewBindParam(value any) *BindParamNode {
	n := &BindParamNode{Value: value}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

// NewNamedBindParam creates a BindParamNode whose runtime value is resolved
// by name from the optimizer's parameter map.
func NewNamedBindParam(name string, value any) *BindParamNode {
	n := NewBindParam(value)
	n.Name = name
	return n
}
