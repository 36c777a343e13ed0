package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"vdbms/types"
)

func TestExtendibleHashInsertAndScan(t *testing.T) {
	h := NewExtendibleHash()
	for i := int32(0); i < 500; i++ {
		assert.NoError(t, h.InsertEntry(types.NewInteger(i), types.RID{PageID: uint32(i), SlotID: 0}))
	}
	for i := int32(0); i < 500; i++ {
		rids, err := h.ScanKey(types.NewInteger(i))
		assert.NoError(t, err)
		assert.Equal(t, []types.RID{{PageID: uint32(i), SlotID: 0}}, rids)
	}
	assert.Greater(t, h.globalDepth, 1)
}

func TestExtendibleHashDuplicateKeysAccumulate(t *testing.T) {
	h := NewExtendibleHash()
	key := types.NewVarchar("dup")
	for i := uint32(0); i < 5; i++ {
		assert.NoError(t, h.InsertEntry(key, types.RID{PageID: i, SlotID: 0}))
	}
	rids, err := h.ScanKey(key)
	assert.NoError(t, err)
	assert.Len(t, rids, 5)
}

func TestExtendibleHashDelete(t *testing.T) {
	h := NewExtendibleHash()
	key := types.NewVarchar("k")
	rid := types.RID{PageID: 1, SlotID: 2}
	assert.NoError(t, h.InsertEntry(key, rid))
	assert.NoError(t, h.DeleteEntry(key, rid))
	rids, err := h.ScanKey(key)
	assert.NoError(t, err)
	assert.Empty(t, rids)
}

func TestExtendibleHashMissingKey(t *testing.T) {
	h := NewExtendibleHash()
	rids, err := h.ScanKey(types.NewInteger(1))
	assert.NoError(t, err)
	assert.Nil(t, rids)
}

func TestExtendibleHashVarcharKeys(t *testing.T) {
	h := NewExtendibleHash()
	for i := 0; i < 200; i++ {
		k := types.NewVarchar(fmt.Sprintf("key-%d", i))
		assert.NoError(t, h.InsertEntry(k, types.RID{PageID: uint32(i), SlotID: 0}))
	}
	for i := 0; i < 200; i++ {
		k := types.NewVarchar(fmt.Sprintf("key-%d", i))
		rids, err := h.ScanKey(k)
		assert.NoError(t, err)
		assert.Equal(t, uint32(i), rids[0].PageID)
	}
}
