package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vdbms/types"
)

func TestBTreeInsertAndScanRoundTrip(t *testing.T) {
	bt := NewBTree(true)
	for i := int32(0); i < 10; i++ {
		assert.NoError(t, bt.InsertEntry(types.NewInteger(i), types.RID{PageID: uint32(i), SlotID: 0}))
	}
	for i := int32(0); i < 10; i++ {
		rids, err := bt.ScanKey(types.NewInteger(i))
		assert.NoError(t, err)
		assert.Equal(t, []types.RID{{PageID: uint32(i), SlotID: 0}}, rids)
	}
}

func TestBTreeForcesMultipleSplits(t *testing.T) {
	bt := NewBTree(false)
	const n = 5000
	for i := int32(0); i < n; i++ {
		assert.NoError(t, bt.InsertEntry(types.NewInteger(i), types.RID{PageID: uint32(i), SlotID: 0}))
	}
	assert.False(t, bt.root.leaf, "root should have split into an internal node")

	rids, err := bt.Range(types.NewInteger(0), types.NewInteger(n-1), true, true)
	assert.NoError(t, err)
	assert.Len(t, rids, n)
}

func TestBTreeNonUniqueAccumulatesRIDs(t *testing.T) {
	bt := NewBTree(false)
	key := types.NewVarchar("dup")
	for i := uint32(0); i < 4; i++ {
		assert.NoError(t, bt.InsertEntry(key, types.RID{PageID: i, SlotID: 0}))
	}
	rids, err := bt.ScanKey(key)
	assert.NoError(t, err)
	assert.Len(t, rids, 4)
}

func TestBTreeRangeInclusiveExclusiveBounds(t *testing.T) {
	bt := NewBTree(true)
	for i := int32(0); i < 20; i++ {
		assert.NoError(t, bt.InsertEntry(types.NewInteger(i), types.RID{PageID: uint32(i), SlotID: 0}))
	}

	inclusive, err := bt.Range(types.NewInteger(5), types.NewInteger(10), true, true)
	assert.NoError(t, err)
	assert.Len(t, inclusive, 6)

	exclusive, err := bt.Range(types.NewInteger(5), types.NewInteger(10), false, false)
	assert.NoError(t, err)
	assert.Len(t, exclusive, 4)
}

func TestBTreeDeleteRemovesRID(t *testing.T) {
	bt := NewBTree(true)
	key := types.NewInteger(7)
	rid := types.RID{PageID: 7, SlotID: 0}
	assert.NoError(t, bt.InsertEntry(key, rid))
	assert.NoError(t, bt.DeleteEntry(key, rid))
	rids, err := bt.ScanKey(key)
	assert.NoError(t, err)
	assert.Empty(t, rids)
}

func TestBTreeScanMissingKey(t *testing.T) {
	bt := NewBTree(true)
	rids, err := bt.ScanKey(types.NewInteger(1))
	assert.NoError(t, err)
	assert.Nil(t, rids)
}
