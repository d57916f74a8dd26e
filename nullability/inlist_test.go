package nullability

import (
	"testing"

	"github.com/bawdo/sqlnull/nodes"
)

func TestInListBoundaries(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	a := users.Col("a").AsNullable()
	x := users.Col("x")

	t.Run("empty list is vacuously false", func(t *testing.T) {
		t.Parallel()
		out := rewriteWhere(t, a.In(), Options{})
		if b, ok := boolLiteral(out); !ok || b {
			t.Fatalf("expected literal FALSE, got %#v", out)
		}
		out = rewriteWhere(t, a.NotIn(), Options{})
		if b, ok := boolLiteral(out); !ok || !b {
			t.Fatalf("expected literal TRUE, got %#v", out)
		}
	})
	t.Run("all-null list becomes a null test", func(t *testing.T) {
		t.Parallel()
		out := rewriteWhere(t, a.In(nil), Options{})
		test, ok := strip(out).(*nodes.UnaryNode)
		if !ok || test.Op != nodes.OpIsNull {
			t.Fatalf("expected IS NULL, got %#v", out)
		}
		out = rewriteWhere(t, a.NotIn(nil), Options{})
		test, ok = strip(out).(*nodes.UnaryNode)
		if !ok || test.Op != nodes.OpIsNotNull {
			t.Fatalf("expected IS NOT NULL, got %#v", out)
		}
	})
	t.Run("all-null list over non-nullable item folds", func(t *testing.T) {
		t.Parallel()
		out := rewriteWhere(t, x.In(nil), Options{})
		if b, ok := boolLiteral(out); !ok || b {
			t.Fatalf("expected literal FALSE, got %#v", out)
		}
	})
	t.Run("null elements filtered for non-nullable item", func(t *testing.T) {
		t.Parallel()
		out := rewriteWhere(t, x.In(1, nil, 2), Options{})
		in, ok := strip(out).(*nodes.InNode)
		if !ok {
			t.Fatalf("expected a bare IN, got %#v", out)
		}
		if len(in.Vals) != 2 {
			t.Fatalf("expected the NULL element dropped, got %d values", len(in.Vals))
		}
	})
	t.Run("clean list in a filter position is untouched", func(t *testing.T) {
		t.Parallel()
		pred := a.In(1, 2)
		out := rewriteWhere(t, pred, Options{})
		if out != nodes.Node(pred) {
			t.Fatalf("expected the IN unchanged, got %#v", out)
		}
	})
	t.Run("clean list in a projected position gets a guard", func(t *testing.T) {
		t.Parallel()
		out := rewriteProjection(t, a.In(1, 2), Options{})
		and, ok := strip(out).(*nodes.AndNode)
		if !ok {
			t.Fatalf("expected a guarded AND, got %#v", out)
		}
		if test, ok := strip(and.Left).(*nodes.UnaryNode); !ok || test.Op != nodes.OpIsNotNull {
			t.Fatalf("expected an IS NOT NULL guard first, got %#v", and.Left)
		}
	})
	t.Run("relational nulls leaves the list alone", func(t *testing.T) {
		t.Parallel()
		pred := a.In(1, nil, 2)
		out := rewriteWhere(t, pred, Options{UseRelationalNulls: true})
		if out != nodes.Node(pred) {
			t.Fatalf("expected the IN unchanged, got %#v", out)
		}
	})
}

func TestInListParameterExpansion(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	a := users.Col("a").AsNullable()

	t.Run("bound slice inlines and disables caching", func(t *testing.T) {
		t.Parallel()
		pred := a.In(nodes.NewNamedBindParam("ids", nil))
		out, canCache, err := Rewrite(pred, Options{Parameters: map[string]any{"ids": []int{1, 2, 3}}})
		if err != nil {
			t.Fatalf("rewrite failed: %v", err)
		}
		if canCache {
			t.Error("expected list expansion to disable caching")
		}
		in, ok := strip(out).(*nodes.InNode)
		if !ok {
			t.Fatalf("expected an IN over literals, got %#v", out)
		}
		if len(in.Vals) != 3 {
			t.Fatalf("expected 3 inlined elements, got %d", len(in.Vals))
		}
		for i, v := range in.Vals {
			if _, ok := v.(*nodes.LiteralNode); !ok {
				t.Fatalf("element %d is %T, want a literal", i, v)
			}
		}
	})
	t.Run("bound slice with null element gets the guard", func(t *testing.T) {
		t.Parallel()
		pred := a.In(nodes.NewNamedBindParam("ids", nil))
		out, _, err := Rewrite(pred, Options{Parameters: map[string]any{"ids": []any{1, nil}}})
		if err != nil {
			t.Fatalf("rewrite failed: %v", err)
		}
		or, ok := strip(out).(*nodes.OrNode)
		if !ok {
			t.Fatalf("expected IS NULL OR IN, got %#v", out)
		}
		if test, ok := strip(or.Left).(*nodes.UnaryNode); !ok || test.Op != nodes.OpIsNull {
			t.Fatalf("expected the IS NULL guard first, got %#v", or.Left)
		}
	})
	t.Run("unbound parameter stays opaque and cacheable", func(t *testing.T) {
		t.Parallel()
		pred := a.In(nodes.NewNamedBindParam("ids", nil))
		out, canCache, err := Rewrite(pred, Options{})
		if err != nil {
			t.Fatalf("rewrite failed: %v", err)
		}
		if !canCache {
			t.Error("expected an unbound parameter to keep the tree cacheable")
		}
		if out != nodes.Node(pred) {
			t.Fatalf("expected the IN unchanged, got %#v", out)
		}
	})
}

func TestInSubqueryPassthrough(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	orders := nodes.NewTable("orders")
	a := users.Col("a").AsNullable()

	sub := &nodes.SelectCore{
		From:        orders,
		Projections: []nodes.Node{orders.Col("user_id")},
	}
	pred := nodes.InSubquery(a, sub)
	out, _, err := Rewrite(pred, Options{})
	if err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	if out != nodes.Node(pred) {
		t.Fatalf("expected the subquery IN unchanged, got %#v", out)
	}

	// A rewriteable predicate inside the subquery rebuilds the IN around it.
	sub2 := &nodes.SelectCore{
		From:        orders,
		Projections: []nodes.Node{orders.Col("user_id")},
		Wheres:      []nodes.Node{orders.Col("note").AsNullable().Eq(nil)},
	}
	pred2 := nodes.InSubquery(a, sub2)
	pred2.Negate = true
	out2, _, err := Rewrite(pred2, Options{})
	if err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	in, ok := out2.(*nodes.InNode)
	if !ok || !in.Negate {
		t.Fatalf("expected a rebuilt NOT IN, got %#v", out2)
	}
	where := in.Subquery.(*nodes.SelectCore).Wheres[0]
	if test, ok := strip(where).(*nodes.UnaryNode); !ok || test.Op != nodes.OpIsNull {
		t.Fatalf("expected the inner comparison rewritten to IS NULL, got %#v", where)
	}
}

// TestInListRowEquivalence checks the rewritten membership predicates against
// value semantics, where a NULL item is an ordinary value: it is contained
// exactly when the list holds a NULL.
func TestInListRowEquivalence(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	a := users.Col("a").AsNullable()

	lists := []struct {
		name string
		pos  *nodes.InNode
		neg  *nodes.InNode
	}{
		{"plain", a.In(1, 2), a.NotIn(1, 2)},
		{"with null", a.In(1, nil), a.NotIn(1, nil)},
		{"only null", a.In(nil), a.NotIn(nil)},
	}
	for _, l := range lists {
		for _, polarity := range []struct {
			name string
			pred *nodes.InNode
		}{{"in", l.pos}, {"not in", l.neg}} {
			for _, projected := range []bool{false, true} {
				projected := projected
				name := l.name + "/" + polarity.name + "/where"
				if projected {
					name = l.name + "/" + polarity.name + "/projection"
				}
				pred := polarity.pred
				t.Run(name, func(t *testing.T) {
					t.Parallel()
					var rewritten nodes.Node
					if projected {
						rewritten = rewriteProjection(t, pred, Options{})
					} else {
						rewritten = rewriteWhere(t, pred, Options{})
					}
					for _, av := range []any{nil, 1, 3} {
						r := row{"users.a": av}
						want := refEval(t, pred, r).(bool)
						got := sqlEval(t, rewritten, r)
						if projected && got == truthUnknown {
							t.Fatalf("a=%v: rewritten form yielded UNKNOWN", av)
						}
						if got.collapse() != want {
							t.Errorf("a=%v: original %v, rewritten %v", av, want, got)
						}
					}
				})
			}
		}
	}
}
