package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatermarkAdvancesWithLiveness(t *testing.T) {
	const n = 20
	w := NewWatermark(0)

	for i := uint64(0); i < n; i++ {
		w.AddTxn(i)
	}
	assert.Equal(t, uint64(0), w.GetWatermark())

	// remove and commit out of order; watermark must still land on n once
	// every earlier snapshot is gone.
	order := []uint64{5, 0, 3, 1, 2, 4, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	for _, i := range order {
		w.RemoveTxn(i)
		w.UpdateCommitTs(i + 1)
	}

	assert.Equal(t, uint64(n), w.GetWatermark())
}

func TestWatermarkTracksMinLiveOverCommitted(t *testing.T) {
	w := NewWatermark(0)
	w.AddTxn(1)
	w.AddTxn(5)
	w.UpdateCommitTs(10)

	// two live readers at ts 1 and 5; watermark must not exceed the older one
	// even though a newer commit has landed.
	assert.Equal(t, uint64(1), w.GetWatermark())

	w.RemoveTxn(1)
	assert.Equal(t, uint64(5), w.GetWatermark())

	w.RemoveTxn(5)
	assert.Equal(t, uint64(10), w.GetWatermark())
}

func TestWatermarkDuplicateReadTimestamps(t *testing.T) {
	w := NewWatermark(0)
	w.AddTxn(3)
	w.AddTxn(3)
	// a later commit lands while both readers are live.
	w.UpdateCommitTs(4)
	w.RemoveTxn(3)
	// one of the two txns at ts=3 is still live.
	assert.Equal(t, uint64(3), w.GetWatermark())
	w.RemoveTxn(3)
	w.UpdateCommitTs(4)
	assert.Equal(t, uint64(4), w.GetWatermark())
}
