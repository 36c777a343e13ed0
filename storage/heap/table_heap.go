// Package heap implements the page-chained tuple store: TableHeap threads
// inserts and in-place updates through the buffer pool, and TableIterator
// walks the resulting page chain.
//
// Every tuple carries a types.TupleMeta alongside it, and the iterator is
// Halloween-safe (bounded to the page count at iterator creation) for
// SeqScan correctness under concurrent inserts.
package heap

import (
	"fmt"
	"sync"

	"vdbms/storage/buffer"
	"vdbms/storage/page"
	"vdbms/types"
)

// CheckFunc is invoked by UpdateTupleInPlace, under the page write-latch,
// before the overwrite is applied. Returning false aborts the update
// without modifying the page — the caller (typically the txn manager) uses
// this to re-validate a write-conflict check atomically with the write.
type CheckFunc func(oldMeta types.TupleMeta, oldData []byte, rid types.RID) bool

// TableHeap is a doubly-keyed singly-linked list of TablePages rooted at
// firstPageID, with a cached lastPageID for O(1) appends.
type TableHeap struct {
	pool buffer.Pool

	mu           sync.Mutex // guards lastPageID only; released before descending into page latches
	firstPageID  page.ID
	lastPageID   page.ID
}

// New allocates the heap's first page and returns the heap.
func New(pool buffer.Pool) (*TableHeap, error) {
	g, err := pool.NewPage()
	if err != nil {
		return nil, err
	}
	id := g.Page().ID()
	g.Release(true)

	return &TableHeap{pool: pool, firstPageID: id, lastPageID: id}, nil
}

func (h *TableHeap) FirstPageID() page.ID { return h.firstPageID }

// InsertTuple appends data to the current last page, allocating and
// chaining a new page if it does not fit. Fails only when data alone
// exceeds what a fresh empty page can ever hold.
func (h *TableHeap) InsertTuple(meta types.TupleMeta, data []byte) (types.RID, error) {
	h.mu.Lock()
	lastID := h.lastPageID
	h.mu.Unlock()

	for {
		g, err := h.pool.FetchPageWrite(lastID)
		if err != nil {
			return types.RID{}, err
		}
		tp := g.TablePage()

		if tp.FreeSpace() >= len(data)+page.SlotSize {
			slot, err := tp.InsertTuple(meta, data)
			g.Release(true)
			if err != nil {
				return types.RID{}, err
			}
			return types.RID{PageID: uint32(lastID), SlotID: uint32(slot)}, nil
		}

		next := tp.NextPageID()
		if next != page.InvalidID {
			g.Release(false)
			lastID = next
			continue
		}

		if tp.NumTuples() == 0 {
			// an empty last page could not take it; a fresh one cannot either.
			g.Release(false)
			return types.RID{}, fmt.Errorf("heap: tuple of %d bytes does not fit on an empty page", len(data))
		}

		// allocate a new page and chain it in.
		ng, err := h.pool.NewPage()
		if err != nil {
			g.Release(false)
			return types.RID{}, err
		}
		newID := ng.Page().ID()
		tp.SetNextPageID(newID)
		g.Release(true)
		ng.Release(true)

		h.mu.Lock()
		h.lastPageID = newID
		h.mu.Unlock()

		lastID = newID
	}
}

// UpdateTupleInPlace overwrites the payload and meta of rid's slot, subject
// to check succeeding (or check being nil). The new payload must not be
// larger than the slot's current capacity.
func (h *TableHeap) UpdateTupleInPlace(meta types.TupleMeta, data []byte, rid types.RID, check CheckFunc) (bool, error) {
	g, err := h.pool.FetchPageWrite(page.ID(rid.PageID))
	if err != nil {
		return false, err
	}
	defer g.Release(true)

	tp := g.TablePage()
	if check != nil {
		oldMeta, oldData, err := tp.GetTuple(int(rid.SlotID))
		if err != nil {
			return false, err
		}
		if !check(oldMeta, oldData, rid) {
			return false, nil
		}
	}

	if err := tp.UpdateTupleInPlace(int(rid.SlotID), meta, data); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateTupleMeta updates only rid's meta header (used for tombstoning and
// for commit-ts stamping).
func (h *TableHeap) UpdateTupleMeta(meta types.TupleMeta, rid types.RID) error {
	g, err := h.pool.FetchPageWrite(page.ID(rid.PageID))
	if err != nil {
		return err
	}
	defer g.Release(true)
	return g.TablePage().UpdateTupleMeta(int(rid.SlotID), meta)
}

// GetTuple reads rid's meta and payload under the page's read-latch.
func (h *TableHeap) GetTuple(rid types.RID) (types.TupleMeta, *types.Tuple, error) {
	g, err := h.pool.FetchPageRead(page.ID(rid.PageID))
	if err != nil {
		return types.TupleMeta{}, nil, err
	}
	defer g.Release(false)

	meta, data, err := g.TablePage().GetTuple(int(rid.SlotID))
	if err != nil {
		return types.TupleMeta{}, nil, err
	}
	return meta, types.WrapTuple(data, rid), nil
}

// GetTupleMeta reads just rid's meta header.
func (h *TableHeap) GetTupleMeta(rid types.RID) (types.TupleMeta, error) {
	g, err := h.pool.FetchPageRead(page.ID(rid.PageID))
	if err != nil {
		return types.TupleMeta{}, err
	}
	defer g.Release(false)
	return g.TablePage().GetTupleMeta(int(rid.SlotID))
}

// Iterator returns a Halloween-safe cursor: it snapshots lastPageID and
// that page's tuple count at call time, and scans exactly that prefix of
// the chain, so tuples inserted by the same statement after the scan began
// are never revisited.
func (h *TableHeap) Iterator() (*TableIterator, error) {
	h.mu.Lock()
	lastID := h.lastPageID
	h.mu.Unlock()

	g, err := h.pool.FetchPageRead(lastID)
	if err != nil {
		return nil, err
	}
	bound := g.TablePage().NumTuples()
	g.Release(false)

	return &TableIterator{
		heap:        h,
		curPageID:   h.firstPageID,
		curSlot:     0,
		boundPageID: lastID,
		boundSlots:  bound,
	}, nil
}

// EagerIterator scans the whole chain as it stands at each step, following
// pages allocated even after the iterator was constructed.
func (h *TableHeap) EagerIterator() *TableIterator {
	return &TableIterator{heap: h, curPageID: h.firstPageID, curSlot: 0, eager: true}
}

// TableIterator walks a TableHeap's page chain slot by slot.
type TableIterator struct {
	heap *TableHeap

	curPageID page.ID
	curSlot   int

	eager       bool
	boundPageID page.ID
	boundSlots  int
}

// Next returns the next slot's rid, meta, and payload, in physical order
// (including tombstoned slots — callers that need MVCC visibility filter
// those out themselves). ok is false once the iterator is exhausted.
func (it *TableIterator) Next() (rid types.RID, meta types.TupleMeta, data []byte, ok bool, err error) {
	for {
		if it.curPageID == page.InvalidID {
			return types.RID{}, types.TupleMeta{}, nil, false, nil
		}

		g, ferr := it.heap.pool.FetchPageRead(it.curPageID)
		if ferr != nil {
			return types.RID{}, types.TupleMeta{}, nil, false, ferr
		}
		tp := g.TablePage()

		limit := tp.NumTuples()
		if !it.eager && it.curPageID == it.boundPageID {
			limit = it.boundSlots
		}

		if it.curSlot < limit {
			slot := it.curSlot
			it.curSlot++
			m, d, gerr := tp.GetTuple(slot)
			g.Release(false)
			if gerr != nil {
				return types.RID{}, types.TupleMeta{}, nil, false, gerr
			}
			return types.RID{PageID: uint32(it.curPageID), SlotID: uint32(slot)}, m, d, true, nil
		}

		if !it.eager && it.curPageID == it.boundPageID {
			g.Release(false)
			return types.RID{}, types.TupleMeta{}, nil, false, nil
		}

		next := tp.NextPageID()
		g.Release(false)
		it.curPageID = next
		it.curSlot = 0
	}
}
