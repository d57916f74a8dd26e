package nodes

// Attribute represents a column reference bound to a table or table alias.
//
// Nullable records the schema-declared nullability of the column and is the
// ground truth consumed by the nullability optimizer. A column created with
// Table.Col is non-nullable; use AsNullable (or Table.NullableCol) for
// columns that may hold NULL.
type Attribute struct {
	Predications
	Arithmetics
	Combinable
	Name     string
	Relation Node   // *Table or *TableAlias
	TypeName string // SQL type for coercion (e.g. "integer", "text")
	Nullable bool   // schema-declared: the column may hold NULL
}

// NewAttribute creates an Attribute with Predications and Combinable
// properly initialized to reference the new Attribute as self.
func NewAttribute(relation Node, name string) *Attribute {
	a := &Attribute{Name: name, Relation: relation}
	a.Predications.self = a
	a.Arithmetics.self = a
	a.Combinable.self = a
	return a
}

func (a *Attribute) Accept(v Visitor) string { return v.VisitAttribute(a) }

// Key returns the identity of the column as "relation.name". Two attributes
// with equal keys refer to the same column; the optimizer's non-null-proof
// set is keyed on this value.
func (a *Attribute) Key() string {
	return RelationName(a.Relation) + "." + a.Name
}

// copy returns a field-for-field copy with its own self pointers.
func (a *Attribute) copy() *Attribute {
	c := &Attribute{Name: a.Name, Relation: a.Relation, TypeName: a.TypeName, Nullable: a.Nullable}
	c.Predications.self = c
	c.Arithmetics.self = c
	c.Combinable.self = c
	return c
}

// AsNullable returns a copy of the Attribute marked schema-nullable.
func (a *Attribute) AsNullable() *Attribute {
	c := a.copy()
	c.Nullable = true
	return c
}

// Typed returns a copy of the Attribute with TypeName set.
func (a *Attribute) Typed(typeName string) *Attribute {
	c := a.copy()
	c.TypeName = typeName
	return c
}

// Coerce wraps val using the attribute's type. If TypeName is set,
// returns a CastedNode; otherwise returns a plain Literal.
func (a *Attribute) Coerce(val any) Node {
	if a.TypeName != "" {
		return NewCasted(Literal(val), a.TypeName)
	}
	return Literal(val)
}
