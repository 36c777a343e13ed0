package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vdbms/storage/buffer"
	"vdbms/storage/disk"
	"vdbms/storage/heap"
	"vdbms/types"
)

// fakeCatalog adapts a single in-memory table to the HeapAccessor contract,
// standing in for what the catalog+storage/heap packages will provide once
// wired through engine.Instance.
type fakeCatalog struct {
	schema *types.Schema
	heap   *heap.TableHeap
}

func (f *fakeCatalog) Schema(TableOID) *types.Schema { return f.schema }
func (f *fakeCatalog) GetTuple(_ TableOID, rid types.RID) (types.TupleMeta, *types.Tuple, error) {
	return f.heap.GetTuple(rid)
}
func (f *fakeCatalog) UpdateTupleMeta(_ TableOID, rid types.RID, meta types.TupleMeta) error {
	return f.heap.UpdateTupleMeta(meta, rid)
}
func (f *fakeCatalog) UpdateTupleInPlace(_ TableOID, rid types.RID, meta types.TupleMeta, data []byte) error {
	_, err := f.heap.UpdateTupleInPlace(meta, data, rid, nil)
	return err
}

const testOID TableOID = 1

func newFakeCatalog(t *testing.T) *fakeCatalog {
	pool := buffer.NewBufferPool(8, disk.NewMemManager(), buffer.NewClockReplacer(8))
	h, err := heap.New(pool)
	assert.NoError(t, err)
	schema := types.NewSchema([]types.Column{{Name: "v", Kind: types.Integer}})
	return &fakeCatalog{schema: schema, heap: h}
}

func insertRow(t *testing.T, m *Manager, cat *fakeCatalog, txn *Transaction, v int32) types.RID {
	tup, err := types.NewTuple([]types.Value{types.NewInteger(v)}, cat.schema)
	assert.NoError(t, err)
	meta := types.TupleMeta{TS: uint64(txn.ID())}
	rid, err := cat.heap.InsertTuple(meta, tup.Data())
	assert.NoError(t, err)
	m.RecordWrite(txn, testOID, rid, true, UndoLog{IsDeleted: true})
	return rid
}

func updateRow(t *testing.T, m *Manager, cat *fakeCatalog, txn *Transaction, rid types.RID, v int32) error {
	meta, oldTup, err := cat.heap.GetTuple(rid)
	assert.NoError(t, err)
	if err := m.CheckWriteConflict(meta, txn); err != nil {
		return err
	}

	oldValues := oldTup.Values(cat.schema)
	newValues := []types.Value{types.NewInteger(v)}
	modified := DiffModified(oldValues, newValues)

	prevTs := meta.TS
	if meta.IsInFlight() {
		prevTs = 0
	}
	link, linkOK := m.GetUndoLink(rid)
	if !linkOK {
		link = InvalidLink
	}
	undo := UndoLog{
		IsDeleted:      meta.IsDeleted,
		ModifiedFields: modified,
		Tuple:          PackPartial(oldValues, cat.schema, modified),
		Ts:             prevTs,
		Prev:           link,
	}

	newTup, err := types.NewTuple(newValues, cat.schema)
	assert.NoError(t, err)
	newMeta := types.TupleMeta{TS: uint64(txn.ID())}
	_, err = cat.heap.UpdateTupleInPlace(newMeta, newTup.Data(), rid, nil)
	assert.NoError(t, err)

	m.RecordWrite(txn, testOID, rid, false, undo)
	return nil
}

func TestInsertCommitVisibleAcrossSnapshots(t *testing.T) {
	cat := newFakeCatalog(t)
	m := NewManager(SnapshotIsolation, nil)

	writer := m.Begin()
	rid := insertRow(t, m, cat, writer, 42)
	assert.NoError(t, m.Commit(writer, cat))

	reader := m.Begin()
	meta, tup, err := cat.heap.GetTuple(rid)
	assert.NoError(t, err)
	visible, ok := m.ReconstructTuple(cat.schema, tup, meta, rid, reader.ReadTS(), reader.ID())
	assert.True(t, ok)
	assert.Equal(t, int64(42), visible.GetValue(cat.schema, 0).AsInt())
}

func TestUncommittedInsertInvisibleToOtherTxn(t *testing.T) {
	cat := newFakeCatalog(t)
	m := NewManager(SnapshotIsolation, nil)

	writer := m.Begin()
	rid := insertRow(t, m, cat, writer, 1)

	reader := m.Begin()
	meta, tup, err := cat.heap.GetTuple(rid)
	assert.NoError(t, err)
	_, ok := m.ReconstructTuple(cat.schema, tup, meta, rid, reader.ReadTS(), reader.ID())
	assert.False(t, ok)
}

func TestUpdateInPlacePreservesOldSnapshotViaUndoLog(t *testing.T) {
	cat := newFakeCatalog(t)
	m := NewManager(SnapshotIsolation, nil)

	writer := m.Begin()
	rid := insertRow(t, m, cat, writer, 1)
	assert.NoError(t, m.Commit(writer, cat))

	oldReader := m.Begin()

	updater := m.Begin()
	assert.NoError(t, updateRow(t, m, cat, updater, rid, 2))
	assert.NoError(t, m.Commit(updater, cat))

	newReader := m.Begin()

	meta, tup, err := cat.heap.GetTuple(rid)
	assert.NoError(t, err)

	oldVisible, ok := m.ReconstructTuple(cat.schema, tup, meta, rid, oldReader.ReadTS(), oldReader.ID())
	assert.True(t, ok)
	assert.Equal(t, int64(1), oldVisible.GetValue(cat.schema, 0).AsInt())

	newVisible, ok := m.ReconstructTuple(cat.schema, tup, meta, rid, newReader.ReadTS(), newReader.ID())
	assert.True(t, ok)
	assert.Equal(t, int64(2), newVisible.GetValue(cat.schema, 0).AsInt())
}

func TestWriteWriteConflictTaintsLaterWriter(t *testing.T) {
	cat := newFakeCatalog(t)
	m := NewManager(SnapshotIsolation, nil)

	writer := m.Begin()
	rid := insertRow(t, m, cat, writer, 1)
	assert.NoError(t, m.Commit(writer, cat))

	txnA := m.Begin()
	txnB := m.Begin()

	assert.NoError(t, updateRow(t, m, cat, txnA, rid, 10))
	assert.NoError(t, m.Commit(txnA, cat))

	err := updateRow(t, m, cat, txnB, rid, 20)
	assert.Error(t, err)
	assert.True(t, txnB.IsTainted())
}

func TestAbortReplaysPriorVersion(t *testing.T) {
	cat := newFakeCatalog(t)
	m := NewManager(SnapshotIsolation, nil)

	writer := m.Begin()
	rid := insertRow(t, m, cat, writer, 1)
	assert.NoError(t, m.Commit(writer, cat))

	updater := m.Begin()
	assert.NoError(t, updateRow(t, m, cat, updater, rid, 99))
	assert.NoError(t, m.Abort(updater, cat))

	meta, tup, err := cat.heap.GetTuple(rid)
	assert.NoError(t, err)
	assert.False(t, meta.IsInFlight())
	assert.Equal(t, int64(1), tup.GetValue(cat.schema, 0).AsInt())
}

func TestGarbageCollectionReclaimsBelowWatermark(t *testing.T) {
	cat := newFakeCatalog(t)
	m := NewManager(SnapshotIsolation, nil)

	writer := m.Begin()
	rid := insertRow(t, m, cat, writer, 1)
	assert.NoError(t, m.Commit(writer, cat))

	updater := m.Begin()
	assert.NoError(t, updateRow(t, m, cat, updater, rid, 2))
	assert.NoError(t, m.Commit(updater, cat))

	_, hadLink := m.GetUndoLink(rid)
	assert.True(t, hadLink)

	// no live reader older than the update's commit remains.
	m.GarbageCollection(cat)

	link, ok := m.GetUndoLink(rid)
	if ok {
		_, found := m.getUndoLog(link)
		assert.False(t, found)
	}
}

// TestGarbageCollectionKeepsEntryStillWithinReaderWindow reproduces the
// scenario from the reviewed bug report: the original row commits at ts=1,
// then two updates commit at ts=4 and ts=5 while a reader's snapshot is
// taken at ts=3. The chain is head(Ts=4) -> (Ts=1). GC must not cut the
// Ts=1 entry just because 1 < 3 — its end-of-visibility is 4, not 1, and
// the reader at read_ts=3 must still be able to reconstruct it.
func TestGarbageCollectionKeepsEntryStillWithinReaderWindow(t *testing.T) {
	cat := newFakeCatalog(t)
	m := NewManager(SnapshotIsolation, nil)

	writer := m.Begin()
	rid := insertRow(t, m, cat, writer, 1) // commits at ts=1
	assert.NoError(t, m.Commit(writer, cat))

	// two unrelated commits advance lastCommitTS to 3 before the reader
	// takes its snapshot, so read_ts lands exactly between 1 and 4.
	for i := 0; i < 2; i++ {
		filler := m.Begin()
		insertRow(t, m, cat, filler, 0)
		assert.NoError(t, m.Commit(filler, cat))
	}

	reader := m.Begin() // read_ts = 3

	firstUpdater := m.Begin()
	assert.NoError(t, updateRow(t, m, cat, firstUpdater, rid, 2)) // commits at ts=4, entry Ts=1
	assert.NoError(t, m.Commit(firstUpdater, cat))

	secondUpdater := m.Begin()
	assert.NoError(t, updateRow(t, m, cat, secondUpdater, rid, 3)) // commits at ts=5, entry Ts=4
	assert.NoError(t, m.Commit(secondUpdater, cat))

	m.GarbageCollection(cat)

	meta, tup, err := cat.heap.GetTuple(rid)
	assert.NoError(t, err)
	visible, ok := m.ReconstructTuple(cat.schema, tup, meta, rid, reader.ReadTS(), reader.ID())
	assert.True(t, ok, "reader's version must survive GC even though its own entry's Ts predates the watermark")
	assert.Equal(t, int64(1), visible.GetValue(cat.schema, 0).AsInt())
}

// TestReclaimChainFromLeavesOtherIndicesOfSharedLogIntact reproduces the
// undo log sharing failure directly: one transaction appends entries for two
// different rids into its single private log (index 0 for A, index 1 for
// B). Reclaiming A's chain — which ends at index 0 — must nil only that
// index, leaving B's still-live entry at index 1 readable, rather than
// truncating the shared slice from index 0 onward.
func TestReclaimChainFromLeavesOtherIndicesOfSharedLogIntact(t *testing.T) {
	m := NewManager(SnapshotIsolation, nil)

	shared := m.Begin()
	linkA := shared.appendUndoLog(UndoLog{Ts: 1, Prev: InvalidLink})  // index 0, rid A's chain
	linkB := shared.appendUndoLog(UndoLog{Ts: 2, Prev: InvalidLink})  // index 1, rid B's chain

	m.reclaimChainFrom(linkA)

	_, foundA := shared.undoLogAt(linkA.LogIndex)
	assert.False(t, foundA, "A's entry should have been reclaimed")

	entryB, foundB := shared.undoLogAt(linkB.LogIndex)
	assert.True(t, foundB, "B's entry must survive reclaiming A's chain in the same shared log")
	assert.Equal(t, uint64(2), entryB.Ts)
}
