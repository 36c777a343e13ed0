package exec

import (
	"fmt"

	"vdbms/catalog"
	"vdbms/plan"
	"vdbms/txn"
	"vdbms/types"
)

// Insert appends each incoming row (literal VALUES rows, or rows pulled
// from a child executor such as a Projection over a SELECT) to the target
// table's heap, records the write for MVCC/undo, and maintains every index
// on the table.
//
type Insert struct {
	base
	plan   *plan.Insert
	table  *catalog.TableInfo
	child  Executor
	rawIdx int
}

func NewInsert(ctx *ExecutorContext, p *plan.Insert, child Executor) *Insert {
	return &Insert{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *Insert) Init() error {
	t, ok := e.ctx.Catalog.GetTableByOID(e.plan.Table)
	if !ok {
		return fmt.Errorf("exec: insert into unknown table oid %d", e.plan.Table)
	}
	e.table = t
	if !e.plan.IsRawInsert() {
		return e.child.Init()
	}
	return nil
}

func (e *Insert) Next() (*types.Tuple, types.RID, error) {
	if e.plan.IsRawInsert() {
		if e.rawIdx >= len(e.plan.Values) {
			return nil, types.RID{}, ErrDone
		}
		vals := e.plan.Values[e.rawIdx]
		e.rawIdx++
		return e.insertRow(vals)
	}

	tup, _, err := e.child.Next()
	if err != nil {
		return nil, types.RID{}, err
	}
	return e.insertRow(tup.Values(e.table.Schema))
}

func (e *Insert) insertRow(vals []types.Value) (*types.Tuple, types.RID, error) {
	tup, err := types.NewTuple(vals, e.table.Schema)
	if err != nil {
		return nil, types.RID{}, err
	}
	meta := types.TupleMeta{TS: uint64(e.ctx.Txn.ID()) | types.InFlightBit}
	rid, err := e.table.Heap.InsertTuple(meta, tup.Data())
	if err != nil {
		return nil, types.RID{}, err
	}
	e.ctx.TxnMgr.RecordWrite(e.ctx.Txn, e.plan.Table, rid, true, txn.UndoLog{})

	placed := types.WrapTuple(tup.Data(), rid)
	if err := e.ctx.Catalog.IndexTuple(e.table.Name, e.table.Schema, placed, rid); err != nil {
		return nil, types.RID{}, err
	}
	return placed, rid, nil
}

var _ Executor = &Insert{}
