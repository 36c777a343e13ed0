package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vdbms/types"
)

func TestHNSWReturnsExactNeighborForIdenticalPoint(t *testing.T) {
	h := NewHNSW(L2, DefaultHNSWConfig(), nil)
	for i := 0; i < 100; i++ {
		v := []float64{float64(i), float64(i)}
		h.InsertEntry(v, types.RID{PageID: uint32(i), SlotID: 0})
	}

	got, err := h.ScanVectorKey([]float64{50, 50}, 1)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, uint32(50), got[0].PageID)
}

func TestHNSWReturnsKResults(t *testing.T) {
	h := NewHNSW(L2, DefaultHNSWConfig(), nil)
	for i := 0; i < 50; i++ {
		h.InsertEntry([]float64{float64(i)}, types.RID{PageID: uint32(i), SlotID: 0})
	}
	got, err := h.ScanVectorKey([]float64{0}, 5)
	assert.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestHNSWEmptyIndexReturnsNoResults(t *testing.T) {
	h := NewHNSW(L2, DefaultHNSWConfig(), nil)
	got, err := h.ScanVectorKey([]float64{1, 2}, 3)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestHNSWWithMemoizationCache(t *testing.T) {
	cache := NewCache(1024)
	h := NewHNSW(Cosine, DefaultHNSWConfig(), cache)
	for i := 0; i < 30; i++ {
		h.InsertEntry([]float64{float64(i + 1), 1}, types.RID{PageID: uint32(i), SlotID: 0})
	}
	got, err := h.ScanVectorKey([]float64{1, 1}, 3)
	assert.NoError(t, err)
	assert.Len(t, got, 3)
}
