package optimizer

import (
	"vdbms/catalog"
	"vdbms/expr"
	"vdbms/plan"
)

// OrderByIndex replaces `Sort(SeqScan)` ascending on a single indexed
// column with an unbounded IndexScan over that column's B+Tree, which
// already yields rows in key order and so needs no separate sort step.
type OrderByIndex struct {
	Lookup IndexLookup
}

func (r *OrderByIndex) Apply(n plan.Node) (plan.Node, bool) {
	sort, ok := n.(*plan.Sort)
	if !ok || len(sort.Keys) != 1 || sort.Keys[0].Desc || r.Lookup == nil {
		return nil, false
	}
	scan, ok := sort.Children()[0].(*plan.SeqScan)
	if !ok {
		return nil, false
	}
	col, ok := sort.Keys[0].Expr.(*expr.ColumnValue)
	if !ok {
		return nil, false
	}
	idx, ok := r.Lookup.IndexOnColumn(scan.Table, col.ColIdx, catalog.BTreeMethod, false)
	if !ok {
		return nil, false
	}
	return plan.NewIndexRangeScan(scan.OutSchema(), scan.Table, idx.OID, nil, nil, true, true, scan.Predicate), true
}
