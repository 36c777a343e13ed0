package exec

import (
	"fmt"

	"vdbms/catalog"
	"vdbms/index"
	"vdbms/plan"
	"vdbms/types"
)

// IndexScan probes an ordered or hash index for either an exact key or a
// range, then reconstructs each matching RID's tuple through MVCC exactly
// like SeqScan.
//
// IndexScan handles both point lookups and range scans, since IndexScan
// itself merges both plan node shapes.
type IndexScan struct {
	base
	plan  *plan.IndexScan
	table *catalog.TableInfo
	rids  []types.RID
	pos   int
}

func NewIndexScan(ctx *ExecutorContext, p *plan.IndexScan) *IndexScan {
	return &IndexScan{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p}
}

func (e *IndexScan) Init() error {
	t, ok := e.ctx.Catalog.GetTableByOID(e.plan.Table)
	if !ok {
		return fmt.Errorf("exec: index scan on unknown table oid %d", e.plan.Table)
	}
	e.table = t

	info, ok := e.ctx.Catalog.GetIndexByOID(e.plan.IndexOID)
	if !ok || info.Index == nil {
		return fmt.Errorf("exec: unknown or non-scalar index oid %d", e.plan.IndexOID)
	}

	if e.plan.Key != nil {
		key := e.plan.Key.Evaluate(nil, nil)
		rids, err := info.Index.ScanKey(key)
		if err != nil {
			return err
		}
		e.rids = rids
		return nil
	}

	ranged, ok := info.Index.(index.Ranged)
	if !ok {
		return fmt.Errorf("exec: index oid %d does not support range scans", e.plan.IndexOID)
	}
	keyKind := info.KeySchema.Column(0).Kind
	lo, hi := types.NullValue(keyKind), types.NullValue(keyKind)
	if e.plan.Lo != nil {
		lo = e.plan.Lo.Evaluate(nil, nil)
	}
	if e.plan.Hi != nil {
		hi = e.plan.Hi.Evaluate(nil, nil)
	}
	rids, err := ranged.Range(lo, hi, e.plan.LoIncl, e.plan.HiIncl)
	if err != nil {
		return err
	}
	e.rids = rids
	return nil
}

func (e *IndexScan) Next() (*types.Tuple, types.RID, error) {
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
		if !evalPredTrue(e.plan.Predicate, tup, e.table.Schema) {
			continue
		}
		return tup, rid, nil
	}
	return nil, types.RID{}, ErrDone
}

var _ Executor = &IndexScan{}
