package exec

import (
	"fmt"

	"vdbms/catalog"
	"vdbms/plan"
	"vdbms/txn"
	"vdbms/types"
)

// Delete tombstones each row Child produces (setting IsDeleted rather than
// physically removing it, so concurrent readers on an older snapshot can
// still reconstruct it), removes it from every scalar index, and records
// an undo entry so Abort can un-delete it.
type Delete struct {
	base
	plan  *plan.Delete
	table *catalog.TableInfo
	child Executor
}

func NewDelete(ctx *ExecutorContext, p *plan.Delete, child Executor) *Delete {
	return &Delete{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *Delete) Init() error {
	t, ok := e.ctx.Catalog.GetTableByOID(e.plan.Table)
	if !ok {
		return fmt.Errorf("exec: delete from unknown table oid %d", e.plan.Table)
	}
	e.table = t
	return e.child.Init()
}

func (e *Delete) Next() (*types.Tuple, types.RID, error) {
	tup, rid, err := e.child.Next()
	if err != nil {
		return nil, types.RID{}, err
	}

	meta, cur, err := e.table.Heap.GetTuple(rid)
	if err != nil {
		return nil, types.RID{}, err
	}
	if err := e.ctx.TxnMgr.CheckWriteConflict(meta, e.ctx.Txn); err != nil {
		return nil, types.RID{}, err
	}

	prevLink, hasPrev := e.ctx.TxnMgr.GetUndoLink(rid)
	if !hasPrev {
		prevLink = txn.InvalidLink
	}
	undo := txn.UndoLog{
		IsDeleted: meta.IsDeleted,
		Ts:        meta.TS,
		Prev:      prevLink,
	}

	newMeta := types.TupleMeta{TS: uint64(e.ctx.Txn.ID()) | types.InFlightBit, IsDeleted: true}
	if err := e.table.Heap.UpdateTupleMeta(newMeta, rid); err != nil {
		return nil, types.RID{}, err
	}
	e.ctx.TxnMgr.RecordWrite(e.ctx.Txn, e.plan.Table, rid, false, undo)

	if err := e.ctx.Catalog.DeindexTuple(e.table.Name, e.table.Schema, cur, rid); err != nil {
		return nil, types.RID{}, err
	}
	return tup, rid, nil
}

var _ Executor = &Delete{}
