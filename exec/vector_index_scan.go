package exec

import (
	"fmt"

	"vdbms/catalog"
	"vdbms/plan"
	"vdbms/types"
)

// VectorIndexScan delegates to a vector index's top-k search and then
// reconstructs each returned RID's tuple through MVCC like SeqScan. Unlike
// IndexScan, its RID list is only ever approximately ordered by distance
// (HNSW/IVFFlat are approximate-nearest-neighbor structures), and a small
// number of results may be filtered out by MVCC visibility, so the result
// set can come back shorter than K.
type VectorIndexScan struct {
	base
	plan  *plan.VectorIndexScan
	table *catalog.TableInfo
	rids  []types.RID
	pos   int
}

func NewVectorIndexScan(ctx *ExecutorContext, p *plan.VectorIndexScan) *VectorIndexScan {
	return &VectorIndexScan{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p}
}

func (e *VectorIndexScan) Init() error {
	t, ok := e.ctx.Catalog.GetTableByOID(e.plan.Table)
	if !ok {
		return fmt.Errorf("exec: vector index scan on unknown table oid %d", e.plan.Table)
	}
	e.table = t

	info, ok := e.ctx.Catalog.GetIndexByOID(e.plan.IndexOID)
	if !ok || info.VectorIndex == nil {
		return fmt.Errorf("exec: unknown or non-vector index oid %d", e.plan.IndexOID)
	}
	if e.ctx.Config != nil {
		if simd, ok := info.VectorIndex.(interface{ SetSimdEnabled(bool) }); ok {
			simd.SetSimdEnabled(e.ctx.Config.SimdEnabled())
		}
	}
	rids, err := info.VectorIndex.ScanVectorKey(e.plan.Query, e.plan.K)
	if err != nil {
		return err
	}
	e.rids = rids
	return nil
}

func (e *VectorIndexScan) Next() (*types.Tuple, types.RID, error) {
	for e.pos < len(e.rids) {
		rid := e.rids[e.pos]
		e.pos++

		meta, raw, err := e.table.Heap.GetTuple(rid)
		if err != nil {
			return nil, types.RID{}, err
		}
		tup, ok := visible(e.ctx, e.plan.Table, e.table.Schema, meta, raw, rid)
		if !ok {
			continue
		}
		return tup, rid, nil
	}
	return nil, types.RID{}, ErrDone
}

var _ Executor = &VectorIndexScan{}
