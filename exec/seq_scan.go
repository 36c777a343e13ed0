package exec

import (
	"fmt"

	"vdbms/catalog"
	"vdbms/plan"
	"vdbms/storage/heap"
	"vdbms/types"
)

// SeqScan walks a table's heap in physical order, skipping tuples that are
// not visible to the running transaction's snapshot and, once a version is
// visible, any that fail the pushed-down predicate.
//
type SeqScan struct {
	base
	plan  *plan.SeqScan
	table *catalog.TableInfo
	it    *heap.TableIterator
}

func NewSeqScan(ctx *ExecutorContext, p *plan.SeqScan) *SeqScan {
	return &SeqScan{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p}
}

func (e *SeqScan) Init() error {
	t, ok := e.ctx.Catalog.GetTableByOID(e.plan.Table)
	if !ok {
		return fmt.Errorf("exec: seq scan on unknown table oid %d", e.plan.Table)
	}
	e.table = t
	it, err := t.Heap.Iterator()
	if err != nil {
		return err
	}
	e.it = it
	return nil
}

func (e *SeqScan) Next() (*types.Tuple, types.RID, error) {
	for {
		rid, meta, data, ok, err := e.it.Next()
		if err != nil {
			return nil, types.RID{}, err
		}
		if !ok {
			return nil, types.RID{}, ErrDone
		}
		raw := types.WrapTuple(data, rid)
		tup, ok := visible(e.ctx, e.plan.Table, e.table.Schema, meta, raw, rid)
		if !ok {
			continue
		}
		if !evalPredTrue(e.plan.Predicate, tup, e.table.Schema) {
			continue
		}
		return tup, rid, nil
	}
}

var _ Executor = &SeqScan{}
