package managers

import (
	"github.com/bawdo/sqlnull/nodes"
	"github.com/bawdo/sqlnull/nullability"
)

// treeManager is the shared base for manager types. It holds the nullability
// rewrite configuration applied to the tree before SQL generation.
type treeManager struct {
	optimize bool
	opts     nullability.Options
	noCache  bool
}

func (tm *treeManager) enableOptimize(opts nullability.Options) {
	tm.optimize = true
	tm.opts = opts
}

// CanCache reports whether the SQL produced by the most recent ToSQL call may
// be cached and reused for executions with different bind-parameter values.
// It returns false once a rewrite has folded a concrete parameter value into
// the query shape.
func (tm *treeManager) CanCache() bool {
	return !tm.noCache
}

// toSQLParams is a helper that resets a parameterizer (if present), calls
// the provided generate function, and returns SQL + params.
func toSQLParams(v nodes.Visitor, generate func(nodes.Visitor) (string, error)) (string, []any, error) {
	p, _ := v.(nodes.Parameterizer)
	if p != nil {
		p.Reset()
	}

	sql, err := generate(v)
	if err != nil {
		return "", nil, err
	}

	if p != nil {
		return sql, p.Params(), nil
	}
	return sql, nil, nil
}
