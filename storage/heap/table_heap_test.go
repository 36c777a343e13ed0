package heap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"vdbms/storage/buffer"
	"vdbms/storage/disk"
	"vdbms/types"
)

func newTestHeap(t *testing.T, poolSize int) *TableHeap {
	pool := buffer.NewBufferPool(poolSize, disk.NewMemManager(), buffer.NewClockReplacer(poolSize))
	h, err := New(pool)
	assert.NoError(t, err)
	return h
}

func TestInsertAndGetTupleRoundTrip(t *testing.T) {
	h := newTestHeap(t, 4)

	data := []byte("row-payload")
	rid, err := h.InsertTuple(types.TupleMeta{TS: 1}, data)
	assert.NoError(t, err)

	meta, tup, err := h.GetTuple(rid)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), meta.TS)
	assert.Equal(t, data, tup.Data())
}

func TestInsertManyTuplesSpansPages(t *testing.T) {
	h := newTestHeap(t, 2)

	rids := make([]types.RID, 0, 3000)
	for i := 0; i < 3000; i++ {
		rid, err := h.InsertTuple(types.TupleMeta{TS: 1}, []byte(fmt.Sprintf("row-%d", i)))
		assert.NoError(t, err)
		rids = append(rids, rid)
	}

	for i, rid := range rids {
		_, tup, err := h.GetTuple(rid)
		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("row-%d", i), string(tup.Data()))
	}
}

func TestHalloweenSafeIteratorBound(t *testing.T) {
	h := newTestHeap(t, 4)

	for i := 0; i < 5; i++ {
		_, err := h.InsertTuple(types.TupleMeta{TS: 1}, []byte(fmt.Sprintf("row-%d", i)))
		assert.NoError(t, err)
	}

	it, err := h.Iterator()
	assert.NoError(t, err)

	// insert more tuples after the iterator snapshot; they must not appear.
	for i := 5; i < 8; i++ {
		_, err := h.InsertTuple(types.TupleMeta{TS: 1}, []byte(fmt.Sprintf("row-%d", i)))
		assert.NoError(t, err)
	}

	count := 0
	for {
		_, _, _, ok, err := it.Next()
		assert.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 5, count)
}

func TestUpdateTupleInPlaceRespectsCheck(t *testing.T) {
	h := newTestHeap(t, 4)

	rid, err := h.InsertTuple(types.TupleMeta{TS: 1}, []byte("original"))
	assert.NoError(t, err)

	ok, err := h.UpdateTupleInPlace(types.TupleMeta{TS: 2}, []byte("updated!"), rid, func(old types.TupleMeta, data []byte, r types.RID) bool {
		return old.TS == 1
	})
	assert.NoError(t, err)
	assert.True(t, ok)

	meta, tup, err := h.GetTuple(rid)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), meta.TS)
	assert.Equal(t, "updated!", string(tup.Data()))

	ok, err = h.UpdateTupleInPlace(types.TupleMeta{TS: 3}, []byte("nope"), rid, func(old types.TupleMeta, data []byte, r types.RID) bool {
		return old.TS == 1 // now stale, should reject
	})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateTupleMetaTombstones(t *testing.T) {
	h := newTestHeap(t, 4)
	rid, err := h.InsertTuple(types.TupleMeta{TS: 1}, []byte("row"))
	assert.NoError(t, err)

	err = h.UpdateTupleMeta(types.TupleMeta{TS: 1, IsDeleted: true}, rid)
	assert.NoError(t, err)

	meta, err := h.GetTupleMeta(rid)
	assert.NoError(t, err)
	assert.True(t, meta.IsDeleted)
}
