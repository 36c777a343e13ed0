package optimizer

import (
	"vdbms/expr"
	"vdbms/plan"
)

// NLJAsHashJoin rewrites a NestedLoopJoin whose predicate is a single
// equality between one column from each side into a HashJoin, which probes
// a hash table instead of rescanning the inner side per outer row.
type NLJAsHashJoin struct{}

func (r *NLJAsHashJoin) Apply(n plan.Node) (plan.Node, bool) {
	nlj, ok := n.(*plan.NestedLoopJoin)
	if !ok || nlj.Predicate == nil {
		return nil, false
	}
	leftKey, rightKey, ok := equiJoinKeys(nlj.Predicate)
	if !ok {
		return nil, false
	}
	return plan.NewHashJoin(nlj.OutSchema(), nlj.Left(), nlj.Right(), leftKey, rightKey, nlj.Kind), true
}

// equiJoinKeys recognizes `left.col = right.col` (in either operand order)
// and returns the left- and right-side key expressions.
func equiJoinKeys(predicate expr.Expression) (left, right expr.Expression, ok bool) {
	cmp, ok := predicate.(*expr.Comparison)
	if !ok || cmp.Op != expr.Eq {
		return nil, nil, false
	}
	lc, lok := cmp.Lhs.(*expr.ColumnValue)
	rc, rok := cmp.Rhs.(*expr.ColumnValue)
	if !lok || !rok {
		return nil, nil, false
	}
	switch {
	case lc.TupleIdx == 0 && rc.TupleIdx == 1:
		return lc, rc, true
	case lc.TupleIdx == 1 && rc.TupleIdx == 0:
		return rc, lc, true
	default:
		return nil, nil, false
	}
}
