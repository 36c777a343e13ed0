package txn

import "container/heap"

// Watermark tracks the oldest snapshot any live transaction might still
// need: min(every live ReadTS, the highest committed CommitTS). Garbage
// collection may reclaim any version chain entry whose end-of-visibility
// falls strictly below it.
//
// Implemented as a counted multiset of live read timestamps backed by a
// min-heap with lazy deletion (a timestamp is popped once its count drops
// to zero), giving AddTxn/RemoveTxn/UpdateCommitTs/GetWatermark all O(log n)
// amortized.
type Watermark struct {
	counts   map[uint64]int
	live     *tsHeap
	commitTS uint64
}

func NewWatermark(initialCommitTS uint64) *Watermark {
	h := &tsHeap{}
	heap.Init(h)
	return &Watermark{counts: make(map[uint64]int), live: h, commitTS: initialCommitTS}
}

// AddTxn registers ts as a live snapshot, called once per Begin.
func (w *Watermark) AddTxn(ts uint64) {
	if w.counts[ts] == 0 {
		heap.Push(w.live, ts)
	}
	w.counts[ts]++
}

// RemoveTxn unregisters ts, called once per Commit/Abort.
func (w *Watermark) RemoveTxn(ts uint64) {
	if w.counts[ts] == 0 {
		return
	}
	w.counts[ts]--
	w.evictDead()
}

// UpdateCommitTs records a newly-assigned commit timestamp as the new
// ceiling once no transaction is reading an older snapshot.
func (w *Watermark) UpdateCommitTs(ts uint64) {
	if ts > w.commitTS {
		w.commitTS = ts
	}
}

// GetWatermark returns the current watermark.
func (w *Watermark) GetWatermark() uint64 {
	w.evictDead()
	if w.live.Len() == 0 {
		return w.commitTS
	}
	min := (*w.live)[0]
	if min < w.commitTS {
		return min
	}
	return w.commitTS
}

func (w *Watermark) evictDead() {
	for w.live.Len() > 0 && w.counts[(*w.live)[0]] == 0 {
		heap.Pop(w.live)
	}
}

type tsHeap []uint64

func (h tsHeap) Len() int            { return len(h) }
func (h tsHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h tsHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *tsHeap) Push(x interface{}) { *h = append(*h, x.(uint64)) }
func (h *tsHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
