// Package nodes defines the AST node types used to represent SQL query elements.
//
// Nodes are immutable by convention: rewriting passes (see the nullability
// package) never modify a node in place; they either return the original
// pointer or build a replacement. Pointer comparison is therefore a reliable
// "did anything change" test for rewriters.
package nodes

// Node is the interface that all AST nodes implement.
type Node interface {
	Accept(visitor Visitor) string
}

// Visitor defines the interface for walking the AST and producing output.
// Concrete visitors (e.g., Postgres, MySQL) implement this interface.
type Visitor interface {
	VisitTable(node *Table) string
	VisitTableAlias(node *TableAlias) string
	VisitAttribute(node *Attribute) string
	VisitLiteral(node *LiteralNode) string
	VisitStar(node *StarNode) string
	VisitSqlLiteral(node *SqlLiteral) string
	VisitComparison(node *ComparisonNode) string
	VisitUnary(node *UnaryNode) string
	VisitAnd(node *AndNode) string
	VisitOr(node *OrNode) string
	VisitNot(node *NotNode) string
	VisitIn(node *InNode) string
	VisitBetween(node *BetweenNode) string
	VisitGrouping(node *GroupingNode) string
	VisitJoin(node *JoinNode) string
	VisitOrdering(node *OrderingNode) string
	VisitSelectCore(node *SelectCore) string
	VisitInfix(node *InfixNode) string
	VisitUnaryMath(node *UnaryMathNode) string
	VisitAggregate(node *AggregateNode) string
	VisitExtract(node *ExtractNode) string
	VisitWindowFunction(node *WindowFuncNode) string
	VisitOver(node *OverNode) string
	VisitExists(node *ExistsNode) string
	VisitSetOperation(node *SetOperationNode) string
	VisitCTE(node *CTENode) string
	VisitNamedFunction(node *NamedFunctionNode) string
	VisitCase(node *CaseNode) string
	VisitGroupingSet(node *GroupingSetNode) string
	VisitAlias(node *AliasNode) string
	VisitBindParam(node *BindParamNode) string
	VisitCasted(node *CastedNode) string
}

// Parameterizer is implemented by visitors that support parameterized queries.
// Callers use type assertion to extract collected parameters after SQL generation.
type Parameterizer interface {
	Params() []any
	Reset()
}

// Literal wraps a raw Go value into a LiteralNode. If val already
// implements Node, it is returned as-is. A nil val is the SQL NULL literal.
func Literal(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	lit := &LiteralNode{Value: val}
	lit.Predications.self = lit
	lit.Combinable.self = lit
	return lit
}
