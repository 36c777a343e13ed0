package optimizer

import (
	"vdbms/expr"
	"vdbms/plan"
	"vdbms/types"
)

// MergeProjection eliminates a Projection whose expression list is exactly
// (column_0, column_1, …) over its single child with matching column types
// — a no-op projection the planner emits for uniformity but the executor
// needn't pay for.
type MergeProjection struct{}

func (r *MergeProjection) Apply(n plan.Node) (plan.Node, bool) {
	p, ok := n.(*plan.Projection)
	if !ok {
		return nil, false
	}
	child := p.Children()[0]
	if !types.EqualForProjection(p.OutSchema(), child.OutSchema()) {
		return nil, false
	}
	for i, e := range p.Exprs {
		cv, ok := e.(*expr.ColumnValue)
		if !ok || cv.TupleIdx != 0 || cv.ColIdx != i {
			return nil, false
		}
	}
	return child, true
}
