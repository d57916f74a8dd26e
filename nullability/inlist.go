package nullability

import (
	"reflect"

	"github.com/bawdo/sqlnull/nodes"
)

// visitIn rewrites IN / NOT IN over a value list. A parameter bound to a
// slice is inlined into literal elements first (which ties the shape to the
// parameter's current length and disables caching). NULL elements are then
// useless to the membership test itself and are stripped; when the tested
// item is nullable, the filtered predicate gets an explicit null test so
// that a NULL item behaves like a comparable value: contained exactly when
// the original list held a NULL.
func (r *rewriter) visitIn(n *nodes.InNode, c ctx) (nodes.Node, bool, colSet, error) {
	if n.Subquery != nil {
		item, _, _, err := r.visit(n.Expr, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		sub, _, _, err := r.visit(n.Subquery, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if item == n.Expr && sub == n.Subquery {
			return n, true, nil, nil
		}
		out := nodes.InSubquery(item, sub)
		out.Negate = n.Negate
		return out, true, nil, nil
	}

	item, itemNullable, _, err := r.visit(n.Expr, c.value())
	if err != nil {
		return nil, false, nil, err
	}

	vals := make([]nodes.Node, 0, len(n.Vals))
	changed := item != n.Expr
	opaque := false
	anyNullable := false
	for _, v := range n.Vals {
		out, nullable, _, err := r.visit(v, c.value())
		if err != nil {
			return nil, false, nil, err
		}
		if out != v {
			changed = true
		}
		if p, ok := out.(*nodes.BindParamNode); ok && p.Name != "" {
			if bound, isBound := r.params[p.Name]; isBound {
				if elems, isList := expandListValue(bound); isList {
					r.canCache = false
					changed = true
					for _, e := range elems {
						vals = append(vals, nodes.Literal(e))
					}
					continue
				}
			}
			// Unbound or scalar-bound parameter: contents unknown.
			opaque = true
			vals = append(vals, out)
			continue
		}
		if _, isLit := out.(*nodes.LiteralNode); !isLit {
			opaque = true
		}
		anyNullable = anyNullable || nullable
		vals = append(vals, out)
	}

	if r.relationalNulls || opaque {
		if !changed {
			return n, itemNullable || anyNullable, nil, nil
		}
		return nodes.NewInNode(item, vals, n.Negate), itemNullable || anyNullable, nil, nil
	}

	// Literal-only list from here on.
	filtered := vals[:0:0]
	hasNull := false
	for _, v := range vals {
		if isNullLiteral(v) {
			hasNull = true
			changed = true
			continue
		}
		filtered = append(filtered, v)
	}

	if len(filtered) == 0 {
		if hasNull && itemNullable {
			op := nodes.OpIsNull
			if n.Negate {
				op = nodes.OpIsNotNull
			}
			return r.visit(nodes.NewUnaryNode(item, op), c)
		}
		// Membership in the empty list is vacuously false.
		return nodes.Literal(n.Negate), false, nil, nil
	}

	core := nodes.Node(n)
	if changed {
		core = nodes.NewInNode(item, filtered, n.Negate)
	}

	if !itemNullable {
		return core, false, nil, nil
	}
	if c.licensed && !n.Negate && !hasNull {
		// UNKNOWN from a NULL item collapses to FALSE here, which is
		// already the wanted answer for a list without NULLs.
		return core, true, nil, nil
	}

	// Null guards come first so a later pass sees the item under proof.
	if n.Negate == hasNull {
		return andOf(isNotNullOf(item), core), false, provenColumn(item), nil
	}
	return orOf(isNullOf(item), core), false, nil, nil
}

// expandListValue flattens a parameter value into list elements. Strings
// and byte slices are scalars even though they are slices underneath.
func expandListValue(val any) ([]any, bool) {
	switch v := val.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		return v, true
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
