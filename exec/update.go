package exec

import (
	"fmt"

	"vdbms/catalog"
	"vdbms/plan"
	"vdbms/txn"
	"vdbms/types"
)

// Update rewrites each row Child produces by evaluating Assignments (nil
// entries leave the column unchanged) against it, then writes the new
// version in place and appends a partial-column undo entry so Abort can
// restore the prior version.
//
// The undo bookkeeping follows txn.Manager's RecordWrite/GetUndoLink
// contract directly.
//
// Simplification: this assumes at most one UPDATE touches a given row per
// transaction. A second update to the same row within the same
// transaction appends a second undo entry, whose Ts is the row's currently
// in-flight meta rather than the true prior committed version, instead of
// folding into the first entry. Abort replays the writes in reverse, so it
// still ends at the original version.
// See DESIGN.md.
type Update struct {
	base
	plan  *plan.Update
	table *catalog.TableInfo
	child Executor
}

func NewUpdate(ctx *ExecutorContext, p *plan.Update, child Executor) *Update {
	return &Update{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *Update) Init() error {
	t, ok := e.ctx.Catalog.GetTableByOID(e.plan.Table)
	if !ok {
		return fmt.Errorf("exec: update on unknown table oid %d", e.plan.Table)
	}
	e.table = t
	return e.child.Init()
}

func (e *Update) Next() (*types.Tuple, types.RID, error) {
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

	oldValues := cur.Values(e.table.Schema)
	newValues := make([]types.Value, len(oldValues))
	for i, a := range e.plan.Assignments {
		if a == nil {
			newValues[i] = oldValues[i]
			continue
		}
		newValues[i] = a.Evaluate(tup, e.table.Schema)
	}
	modified := txn.DiffModified(oldValues, newValues)

	prevLink, hasPrev := e.ctx.TxnMgr.GetUndoLink(rid)
	if !hasPrev {
		prevLink = txn.InvalidLink
	}
	undo := txn.UndoLog{
		ModifiedFields: modified,
		Tuple:          txn.PackPartial(oldValues, e.table.Schema, modified),
		Ts:             meta.TS,
		Prev:           prevLink,
	}

	newTup, err := types.NewTuple(newValues, e.table.Schema)
	if err != nil {
		return nil, types.RID{}, err
	}
	newMeta := types.TupleMeta{TS: uint64(e.ctx.Txn.ID()) | types.InFlightBit}
	ok, err := e.table.Heap.UpdateTupleInPlace(newMeta, newTup.Data(), rid, nil)
	if err != nil {
		return nil, types.RID{}, err
	}
	if !ok {
		return nil, types.RID{}, fmt.Errorf("exec: update rid %v rejected", rid)
	}
	e.ctx.TxnMgr.RecordWrite(e.ctx.Txn, e.plan.Table, rid, false, undo)

	placed := types.WrapTuple(newTup.Data(), rid)
	if err := e.ctx.Catalog.IndexTuple(e.table.Name, e.table.Schema, placed, rid); err != nil {
		return nil, types.RID{}, err
	}
	return placed, rid, nil
}

var _ Executor = &Update{}
