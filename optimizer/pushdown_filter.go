package optimizer

import (
	"vdbms/expr"
	"vdbms/plan"
)

// PushdownFilter moves a Filter below a pass-through Projection, so any
// later rule that folds filters into scans or joins (MergeFilterScan,
// MergeFilterNLJ) sees the Filter sitting directly on top of them. It only
// handles the case where every projected expression the predicate touches
// is itself a bare column reference — a projection that computes a derived
// column can't have a predicate over that column pushed past it without
// re-deriving the expression, which this rule does not attempt.
type PushdownFilter struct{}

func (r *PushdownFilter) Apply(n plan.Node) (plan.Node, bool) {
	f, ok := n.(*plan.Filter)
	if !ok {
		return nil, false
	}
	proj, ok := f.Children()[0].(*plan.Projection)
	if !ok {
		return nil, false
	}
	remapped, ok := remapThroughProjection(f.Predicate, proj.Exprs)
	if !ok {
		return nil, false
	}
	inner := plan.NewFilter(proj.Children()[0], remapped)
	return plan.NewProjection(proj.OutSchema(), inner, proj.Exprs), true
}

// remapThroughProjection rewrites e's column references from proj's output
// indexes to proj's input indexes, failing if any referenced output column
// is a computed expression rather than a straight column passthrough.
func remapThroughProjection(e expr.Expression, exprs []expr.Expression) (expr.Expression, bool) {
	switch v := e.(type) {
	case *expr.ColumnValue:
		if v.ColIdx < 0 || v.ColIdx >= len(exprs) {
			return nil, false
		}
		src, ok := exprs[v.ColIdx].(*expr.ColumnValue)
		if !ok {
			return nil, false
		}
		return src, true
	case *expr.Constant:
		return v, true
	case *expr.Comparison:
		lhs, ok := remapThroughProjection(v.Lhs, exprs)
		if !ok {
			return nil, false
		}
		rhs, ok := remapThroughProjection(v.Rhs, exprs)
		if !ok {
			return nil, false
		}
		return expr.NewComparison(v.Op, lhs, rhs), true
	default:
		return nil, false
	}
}
