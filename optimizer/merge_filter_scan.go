package optimizer

import "vdbms/plan"

// MergeFilterScan folds a Filter directly above a bare SeqScan into the
// scan's own Predicate, letting the scan reject rows before they are even
// reconstructed into a Tuple. It only fires when the scan has no predicate
// of its own yet — plan.Expression has no logical-AND variant, so a scan
// that already carries a pushed-down predicate is left for a later pass
// (or, if two predicates never merge, is evaluated by the surviving Filter
// on top). See DESIGN.md for this simplification.
type MergeFilterScan struct{}

func (r *MergeFilterScan) Apply(n plan.Node) (plan.Node, bool) {
	f, ok := n.(*plan.Filter)
	if !ok {
		return nil, false
	}
	scan, ok := f.Children()[0].(*plan.SeqScan)
	if !ok || scan.Predicate != nil {
		return nil, false
	}
	return plan.NewSeqScan(scan.OutSchema(), scan.Table, f.Predicate), true
}
