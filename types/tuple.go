package types

import (
	"encoding/binary"
	"fmt"
)

// Tuple is an immutable packed row matching some Schema, plus the RID it
// was read from (zero-value RID for tuples that were never persisted, e.g.
// join outputs or literal VALUES rows).
//
// Storage layout: a leading null bitmap (one bit per column, LSB-first
// within each byte) precedes the fixed region, followed by the tail.
// Fixed-width columns are stored inline in the fixed region at their
// schema Offset; variable-width columns store a 4-byte offset (relative to
// the start of the tuple's bytes, null bitmap included) to their payload in the
// tuple's tail, which itself is length-prefixed by Value.Serialize. A
// column's own bytes are meaningless once its bitmap bit is set — NULL is
// never inferred from an all-zero region, which is what let a legitimate
// zero value collide with NULL.
type Tuple struct {
	RID  RID
	data []byte
}

func nullBitmapSize(numCols int) uint32 { return uint32((numCols + 7) / 8) }

func setNullBit(bitmap []byte, idx int) { bitmap[idx/8] |= 1 << uint(idx%8) }

func isNullBit(bitmap []byte, idx int) bool { return bitmap[idx/8]&(1<<uint(idx%8)) != 0 }

// NewTuple serializes values (which must match schema columnwise) into a
// packed Tuple.
func NewTuple(values []Value, schema *Schema) (*Tuple, error) {
	if len(values) != schema.Len() {
		return nil, fmt.Errorf("value count %d does not match schema column count %d", len(values), schema.Len())
	}

	bitmapSize := nullBitmapSize(schema.Len())
	fixedSize := schema.FixedRegionSize()
	tail := make([]byte, 0, 64)
	fixed := make([]byte, fixedSize)
	nullBitmap := make([]byte, bitmapSize)

	for i, col := range schema.Columns() {
		v := values[i]
		if v.IsNull() {
			setNullBit(nullBitmap, i)
			continue
		}
		if v.Kind() != col.Kind {
			return nil, fmt.Errorf("column %s expects %v, got %v", col.Name, col.Kind, v.Kind())
		}
		if col.Kind.IsFixedWidth() {
			v.Serialize(fixed[col.Offset : col.Offset+col.InlinedSize()])
		} else {
			tailOffset := bitmapSize + fixedSize + uint32(len(tail))
			buf := make([]byte, v.SerializedLen())
			v.Serialize(buf)
			tail = append(tail, buf...)
			binary.BigEndian.PutUint32(fixed[col.Offset:col.Offset+4], tailOffset)
		}
	}

	data := make([]byte, 0, len(nullBitmap)+len(fixed)+len(tail))
	data = append(data, nullBitmap...)
	data = append(data, fixed...)
	data = append(data, tail...)
	return &Tuple{data: data}, nil
}

// WrapTuple wraps already-serialized bytes (e.g. read back from a page)
// into a Tuple, attaching rid.
func WrapTuple(data []byte, rid RID) *Tuple {
	return &Tuple{RID: rid, data: data}
}

func (t *Tuple) Data() []byte { return t.data }
func (t *Tuple) Length() int  { return len(t.data) }

// GetValue decodes the value at column idx per schema.
func (t *Tuple) GetValue(schema *Schema, idx int) Value {
	col := schema.Column(idx)
	if isNullBit(t.data, idx) {
		return NullValue(col.Kind)
	}

	base := nullBitmapSize(schema.Len())
	if col.Kind.IsFixedWidth() {
		width := col.InlinedSize()
		region := t.data[base+col.Offset : base+col.Offset+width]
		return Deserialize(col.Kind, region)
	}

	tailOffset := binary.BigEndian.Uint32(t.data[base+col.Offset : base+col.Offset+4])
	return Deserialize(col.Kind, t.data[tailOffset:])
}

// Values decodes every column, in schema order.
func (t *Tuple) Values(schema *Schema) []Value {
	vals := make([]Value, schema.Len())
	for i := range vals {
		vals[i] = t.GetValue(schema, i)
	}
	return vals
}

// Concat builds a new Tuple whose bitmap+fixed+tail regions are the byte
// concatenation of a and b re-based against the joined schema's offsets.
// Used by NestedLoopJoin to build a combined output row without decoding
// and re-encoding every value.
func Concat(a, b *Tuple, aSchema, bSchema *Schema) *Tuple {
	aBitmap, bBitmap := nullBitmapSize(aSchema.Len()), nullBitmapSize(bSchema.Len())
	aFixed, bFixed := aSchema.FixedRegionSize(), bSchema.FixedRegionSize()
	aTail := a.data[aBitmap+aFixed:]
	bTail := b.data[bBitmap+bFixed:]

	combinedBitmap := make([]byte, nullBitmapSize(aSchema.Len()+bSchema.Len()))
	for i := 0; i < aSchema.Len(); i++ {
		if isNullBit(a.data, i) {
			setNullBit(combinedBitmap, i)
		}
	}
	for i := 0; i < bSchema.Len(); i++ {
		if isNullBit(b.data, i) {
			setNullBit(combinedBitmap, aSchema.Len()+i)
		}
	}

	shiftA := uint32(len(combinedBitmap)) + bFixed - aBitmap
	aFixedShifted := make([]byte, aFixed)
	copy(aFixedShifted, a.data[aBitmap:aBitmap+aFixed])
	for _, col := range aSchema.Columns() {
		if !col.Kind.IsFixedWidth() {
			off := binary.BigEndian.Uint32(aFixedShifted[col.Offset : col.Offset+4])
			binary.BigEndian.PutUint32(aFixedShifted[col.Offset:col.Offset+4], off+shiftA)
		}
	}

	shiftB := uint32(len(combinedBitmap)) + aFixed + uint32(len(aTail)) - bBitmap
	bFixedShifted := make([]byte, bFixed)
	copy(bFixedShifted, b.data[bBitmap:bBitmap+bFixed])
	for _, col := range bSchema.Columns() {
		if !col.Kind.IsFixedWidth() {
			off := binary.BigEndian.Uint32(bFixedShifted[col.Offset : col.Offset+4])
			binary.BigEndian.PutUint32(bFixedShifted[col.Offset:col.Offset+4], off+shiftB)
		}
	}

	data := make([]byte, 0, len(combinedBitmap)+len(aFixedShifted)+len(bFixedShifted)+len(aTail)+len(bTail))
	data = append(data, combinedBitmap...)
	data = append(data, aFixedShifted...)
	data = append(data, bFixedShifted...)
	data = append(data, aTail...)
	data = append(data, bTail...)
	return &Tuple{data: data}
}
