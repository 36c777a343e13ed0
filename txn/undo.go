package txn

import (
	"encoding/binary"

	"vdbms/types"
)

// PackPartial serializes values at the positions modified marks true into a
// self-describing byte string usable as an UndoLog.Tuple. Positions where
// modified is false are skipped entirely; UnpackPartial only ever fills in
// positions the same modified bitmap marks true, so callers must pass the
// identical bitmap back on unpack.
func PackPartial(values []types.Value, schema *types.Schema, modified []bool) []byte {
	var out []byte
	cols := schema.Columns()
	for i, m := range modified {
		if !m {
			continue
		}
		v := values[i]
		if v.IsNull() {
			out = appendUint32(out, 0)
			continue
		}
		buf := make([]byte, v.SerializedLen())
		v.Serialize(buf)
		out = appendUint32(out, uint32(len(buf)))
		out = append(out, buf...)
		_ = cols[i]
	}
	return out
}

// UnpackPartial reverses PackPartial, returning a full-length value slice
// with only the modified positions populated (others are the zero Value).
func UnpackPartial(data []byte, schema *types.Schema, modified []bool) []types.Value {
	out := make([]types.Value, schema.Len())
	off := 0
	for i, m := range modified {
		if !m {
			continue
		}
		n := binary.BigEndian.Uint32(data[off:])
		off += 4
		if n == 0 {
			out[i] = types.NullValue(schema.Column(i).Kind)
			continue
		}
		out[i] = types.Deserialize(schema.Column(i).Kind, data[off:off+int(n)])
		off += int(n)
	}
	return out
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// DiffModified compares oldValues and newValues columnwise and returns the
// bitmap of positions that changed, for building an UndoLog when only some
// columns of a tuple are overwritten by an UPDATE.
func DiffModified(oldValues, newValues []types.Value) []bool {
	modified := make([]bool, len(oldValues))
	for i := range oldValues {
		ov, nv := oldValues[i], newValues[i]
		if ov.IsNull() != nv.IsNull() {
			modified[i] = true
			continue
		}
		if ov.IsNull() {
			continue
		}
		if cmp, ok := ov.Compare(nv); !ok || cmp != 0 {
			modified[i] = true
		}
	}
	return modified
}
