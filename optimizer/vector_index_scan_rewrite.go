package optimizer

import (
	"vdbms/catalog"
	"vdbms/expr"
	"vdbms/index/vector"
	"vdbms/plan"
	"vdbms/types"
)

// VectorIndexScanRewrite replaces `TopN(SeqScan)` ordered by a
// VectorDistance against a constant query vector with a VectorIndexScan,
// when a vector index of the matching kind exists on the compared column.
// It runs after SortLimitAsTopN has already fused the Sort+Limit pair that
// a `ORDER BY vector_distance(col, $1) LIMIT k` query plans as.
type VectorIndexScanRewrite struct {
	Lookup IndexLookup
}

func (r *VectorIndexScanRewrite) Apply(n plan.Node) (plan.Node, bool) {
	top, ok := n.(*plan.TopN)
	if !ok || len(top.Keys) != 1 || top.Keys[0].Desc || r.Lookup == nil {
		return nil, false
	}
	vd, ok := top.Keys[0].Expr.(*expr.VectorDistance)
	if !ok {
		return nil, false
	}
	scan, ok := top.Children()[0].(*plan.SeqScan)
	if !ok {
		return nil, false
	}
	col, query, ok := splitVectorDistance(vd)
	if !ok {
		return nil, false
	}
	idx, ok := findVectorIndex(r.Lookup, scan.Table, col.ColIdx, vd.Kind)
	if !ok {
		return nil, false
	}
	return plan.NewVectorIndexScan(scan.OutSchema(), scan.Table, idx.OID, query.AsVector(), top.N, vd.Kind), true
}

// splitVectorDistance recognizes `vector_distance(column, constant)` (in
// either operand order) and returns the column operand and query vector.
func splitVectorDistance(vd *expr.VectorDistance) (*expr.ColumnValue, types.Value, bool) {
	if col, ok := vd.Lhs.(*expr.ColumnValue); ok {
		if c, ok := vd.Rhs.(*expr.Constant); ok {
			return col, c.Value, true
		}
	}
	if col, ok := vd.Rhs.(*expr.ColumnValue); ok {
		if c, ok := vd.Lhs.(*expr.Constant); ok {
			return col, c.Value, true
		}
	}
	return nil, types.Value{}, false
}

func findVectorIndex(lookup IndexLookup, table plan.TableRef, colIdx int, kind vector.Kind) (*catalog.IndexInfo, bool) {
	idx, ok := lookup.IndexOnColumn(table, colIdx, catalog.HNSWMethod, true)
	if !ok || idx.VectorIndex == nil || idx.DistKind != kind {
		return nil, false
	}
	return idx, true
}
