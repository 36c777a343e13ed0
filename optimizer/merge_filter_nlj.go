package optimizer

import "vdbms/plan"

// MergeFilterNLJ folds a Filter directly above a predicate-less
// NestedLoopJoin into the join's own Predicate, so the join rejects
// non-matching pairs itself instead of materializing every cross-product
// row for a Filter above it to discard.
type MergeFilterNLJ struct{}

func (r *MergeFilterNLJ) Apply(n plan.Node) (plan.Node, bool) {
	f, ok := n.(*plan.Filter)
	if !ok {
		return nil, false
	}
	nlj, ok := f.Children()[0].(*plan.NestedLoopJoin)
	if !ok || nlj.Predicate != nil {
		return nil, false
	}
	return plan.NewNestedLoopJoin(nlj.OutSchema(), nlj.Left(), nlj.Right(), f.Predicate, nlj.Kind), true
}
