package optimizer

import (
	"vdbms/catalog"
	"vdbms/expr"
	"vdbms/plan"
)

// NLJAsIndexJoin rewrites a NestedLoopJoin whose inner side is a bare
// SeqScan into a NestedIndexJoin when the join predicate is an equality on
// an indexed inner column, so each outer row probes the index instead of
// rescanning the inner table.
type NLJAsIndexJoin struct {
	Lookup IndexLookup
}

func (r *NLJAsIndexJoin) Apply(n plan.Node) (plan.Node, bool) {
	nlj, ok := n.(*plan.NestedLoopJoin)
	if !ok || nlj.Predicate == nil || r.Lookup == nil {
		return nil, false
	}
	scan, ok := nlj.Right().(*plan.SeqScan)
	if !ok {
		return nil, false
	}
	cmp, ok := nlj.Predicate.(*expr.Comparison)
	if !ok || cmp.Op != expr.Eq {
		return nil, false
	}
	lc, lok := cmp.Lhs.(*expr.ColumnValue)
	rc, rok := cmp.Rhs.(*expr.ColumnValue)
	if !lok || !rok {
		return nil, false
	}
	var outerKey expr.Expression
	var innerColIdx int
	switch {
	case lc.TupleIdx == 0 && rc.TupleIdx == 1:
		outerKey, innerColIdx = lc, rc.ColIdx
	case lc.TupleIdx == 1 && rc.TupleIdx == 0:
		outerKey, innerColIdx = rc, lc.ColIdx
	default:
		return nil, false
	}
	idx, ok := r.Lookup.IndexOnColumn(scan.Table, innerColIdx, catalog.BTreeMethod, true)
	if !ok || idx.Index == nil {
		return nil, false
	}
	return plan.NewNestedIndexJoin(nlj.OutSchema(), nlj.Left(), scan.Table, idx.OID, outerKey, scan.Predicate, nlj.Kind), true
}
