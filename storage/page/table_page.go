package page

import (
	"encoding/binary"
	"fmt"

	"vdbms/types"
)

// header layout: [next_page_id:4][num_tuples:2][num_deleted_tuples:2]
const headerSize = 8

// slot layout: [offset:2][size:2][meta:16]
const slotSize = 4 + types.MetaSize

// SlotSize is the per-tuple directory entry overhead InsertTuple charges on
// top of the payload itself; callers deciding whether a tuple fits on the
// current page (TableHeap.InsertTuple) must budget for it too.
const SlotSize = slotSize

// TablePage is a slotted-page view over a Raw frame's bytes: a header, a
// growing per-slot (offset, size) directory from the head, and tuple
// payloads growing from the tail. Each slot carries a TupleMeta alongside
// its payload, and deletes are tombstone-preserving rather than hard
// deletes so MVCC readers can still see prior versions.
type TablePage struct {
	raw *Raw
}

func NewTablePage(raw *Raw) *TablePage { return &TablePage{raw: raw} }

func (t *TablePage) data() []byte { return t.raw.Data() }

func (t *TablePage) NextPageID() ID {
	return ID(binary.BigEndian.Uint32(t.data()[0:4]))
}

func (t *TablePage) SetNextPageID(id ID) {
	binary.BigEndian.PutUint32(t.data()[0:4], uint32(id))
	t.raw.SetDirty()
}

func (t *TablePage) NumTuples() int {
	return int(binary.BigEndian.Uint16(t.data()[4:6]))
}

func (t *TablePage) setNumTuples(n int) {
	binary.BigEndian.PutUint16(t.data()[4:6], uint16(n))
}

func (t *TablePage) NumDeletedTuples() int {
	return int(binary.BigEndian.Uint16(t.data()[6:8]))
}

func (t *TablePage) setNumDeletedTuples(n int) {
	binary.BigEndian.PutUint16(t.data()[6:8], uint16(n))
}

func (t *TablePage) slotOffset(slotID int) int { return headerSize + slotID*slotSize }

func (t *TablePage) slotEntry(slotID int) (offset, size int) {
	so := t.slotOffset(slotID)
	d := t.data()
	return int(binary.BigEndian.Uint16(d[so : so+2])), int(binary.BigEndian.Uint16(d[so+2 : so+4]))
}

func (t *TablePage) setSlotEntry(slotID, offset, size int) {
	so := t.slotOffset(slotID)
	d := t.data()
	binary.BigEndian.PutUint16(d[so:so+2], uint16(offset))
	binary.BigEndian.PutUint16(d[so+2:so+4], uint16(size))
}

func (t *TablePage) slotMeta(slotID int) types.TupleMeta {
	so := t.slotOffset(slotID) + 4
	return types.DeserializeMeta(t.data()[so : so+types.MetaSize])
}

func (t *TablePage) setSlotMeta(slotID int, meta types.TupleMeta) {
	so := t.slotOffset(slotID) + 4
	meta.Serialize(t.data()[so : so+types.MetaSize])
}

// tupleRegionStart returns the lowest occupied payload offset, or Size if
// the page holds no tuples yet.
func (t *TablePage) tupleRegionStart() int {
	start := Size
	for i := 0; i < t.NumTuples(); i++ {
		off, size := t.slotEntry(i)
		if size == 0 {
			continue // logically-deleted-with-zero-payload placeholder, never emitted by InsertTuple
		}
		if off < start {
			start = off
		}
	}
	return start
}

// FreeSpace returns the number of bytes available for one more slot entry
// plus its payload.
func (t *TablePage) FreeSpace() int {
	slotDirEnd := headerSize + (t.NumTuples()+1)*slotSize
	return t.tupleRegionStart() - slotDirEnd
}

// Init formats a fresh Raw frame as an empty TablePage.
func Init(raw *Raw) *TablePage {
	tp := &TablePage{raw: raw}
	tp.SetNextPageID(InvalidID)
	tp.setNumTuples(0)
	tp.setNumDeletedTuples(0)
	return tp
}

// InsertTuple appends a new slot for data with the given meta. Returns the
// new slot id, or an error if the page has no room.
func (t *TablePage) InsertTuple(meta types.TupleMeta, data []byte) (int, error) {
	needed := len(data) + slotSize
	if t.FreeSpace() < needed {
		return 0, fmt.Errorf("page: insufficient free space: need %d have %d", needed, t.FreeSpace())
	}

	newOffset := t.tupleRegionStart() - len(data)
	copy(t.data()[newOffset:newOffset+len(data)], data)

	slotID := t.NumTuples()
	t.setSlotEntry(slotID, newOffset, len(data))
	t.setSlotMeta(slotID, meta)
	t.setNumTuples(slotID + 1)
	t.raw.SetDirty()
	return slotID, nil
}

// UpdateTupleInPlace overwrites the payload and meta of an existing slot.
// The caller guarantees len(data) does not exceed the slot's original size.
func (t *TablePage) UpdateTupleInPlace(slotID int, meta types.TupleMeta, data []byte) error {
	if slotID < 0 || slotID >= t.NumTuples() {
		return fmt.Errorf("page: slot %d out of range", slotID)
	}
	offset, size := t.slotEntry(slotID)
	if len(data) > size {
		return fmt.Errorf("page: new tuple size %d exceeds slot capacity %d", len(data), size)
	}
	copy(t.data()[offset:offset+len(data)], data)
	t.setSlotEntry(slotID, offset, len(data))
	t.setSlotMeta(slotID, meta)
	t.raw.SetDirty()
	return nil
}

// UpdateTupleMeta updates only the meta header of a slot (used for
// tombstoning on delete and for commit-ts stamping).
func (t *TablePage) UpdateTupleMeta(slotID int, meta types.TupleMeta) error {
	if slotID < 0 || slotID >= t.NumTuples() {
		return fmt.Errorf("page: slot %d out of range", slotID)
	}
	if meta.IsDeleted && !t.slotMeta(slotID).IsDeleted {
		t.setNumDeletedTuples(t.NumDeletedTuples() + 1)
	}
	t.setSlotMeta(slotID, meta)
	t.raw.SetDirty()
	return nil
}

// GetTuple returns the meta and payload bytes for slotID.
func (t *TablePage) GetTuple(slotID int) (types.TupleMeta, []byte, error) {
	if slotID < 0 || slotID >= t.NumTuples() {
		return types.TupleMeta{}, nil, fmt.Errorf("page: slot %d out of range", slotID)
	}
	offset, size := t.slotEntry(slotID)
	payload := make([]byte, size)
	copy(payload, t.data()[offset:offset+size])
	return t.slotMeta(slotID), payload, nil
}

// GetTupleMeta returns just the meta header for slotID.
func (t *TablePage) GetTupleMeta(slotID int) (types.TupleMeta, error) {
	if slotID < 0 || slotID >= t.NumTuples() {
		return types.TupleMeta{}, fmt.Errorf("page: slot %d out of range", slotID)
	}
	return t.slotMeta(slotID), nil
}
