package optimizer

import "vdbms/plan"

// SortLimitAsTopN fuses `Limit(Sort(child))` into a single TopN node, which
// yields the same N smallest rows. The TopN executor still buffers and
// sorts the whole input, so the fusion replaces two operators with one
// without avoiding the full sort.
type SortLimitAsTopN struct{}

func (r *SortLimitAsTopN) Apply(n plan.Node) (plan.Node, bool) {
	limit, ok := n.(*plan.Limit)
	if !ok {
		return nil, false
	}
	sort, ok := limit.Children()[0].(*plan.Sort)
	if !ok {
		return nil, false
	}
	return plan.NewTopN(sort.Children()[0], sort.Keys, limit.N), true
}
