// Package types implements the typed value system, tuple layout, and schema
// model shared by every other package: the storage heap, the index
// substrate, the expression tree, and the executors all speak types.Value.
//
// Value covers TINYINT/SMALLINT/INTEGER/BIGINT/DECIMAL/VARCHAR/BOOL/
// TIMESTAMP/VECTOR kinds, plus three-valued NULL handling.
package types

import (
	"encoding/binary"
	"fmt"
	"math"

	"vdbms/common"
)

// Kind identifies the runtime tag of a Value.
type Kind uint8

const (
	Invalid Kind = iota
	Boolean
	TinyInt
	SmallInt
	Integer
	BigInt
	Decimal
	Varchar
	Timestamp
	Vector
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "BOOLEAN"
	case TinyInt:
		return "TINYINT"
	case SmallInt:
		return "SMALLINT"
	case Integer:
		return "INTEGER"
	case BigInt:
		return "BIGINT"
	case Decimal:
		return "DECIMAL"
	case Varchar:
		return "VARCHAR"
	case Timestamp:
		return "TIMESTAMP"
	case Vector:
		return "VECTOR"
	default:
		return "INVALID"
	}
}

// IsFixedWidth reports whether values of this kind are stored inline in the
// tuple's fixed region rather than referenced by tail offset.
func (k Kind) IsFixedWidth() bool {
	switch k {
	case Varchar, Vector:
		return false
	default:
		return true
	}
}

// FixedWidth returns the inline byte width for a fixed-width kind.
func (k Kind) FixedWidth() uint32 {
	switch k {
	case Boolean, TinyInt:
		return 1
	case SmallInt:
		return 2
	case Integer:
		return 4
	case BigInt, Decimal, Timestamp:
		return 8
	default:
		return 0
	}
}

// Value is a typed, possibly-NULL cell. The zero Value is INVALID/NULL.
type Value struct {
	kind    Kind
	isNull  bool
	num     int64   // Boolean/TinyInt/SmallInt/Integer/BigInt/Timestamp payload
	decimal float64 // Decimal payload
	str     string  // Varchar payload
	vec     []float64
}

func NullValue(k Kind) Value { return Value{kind: k, isNull: true} }

func NewBoolean(v bool) Value {
	var n int64
	if v {
		n = 1
	}
	return Value{kind: Boolean, num: n}
}

func NewInteger(v int32) Value  { return Value{kind: Integer, num: int64(v)} }
func NewBigInt(v int64) Value   { return Value{kind: BigInt, num: v} }
func NewSmallInt(v int16) Value { return Value{kind: SmallInt, num: int64(v)} }
func NewTinyInt(v int8) Value   { return Value{kind: TinyInt, num: int64(v)} }
func NewDecimal(v float64) Value { return Value{kind: Decimal, decimal: v} }
func NewVarchar(v string) Value { return Value{kind: Varchar, str: v} }
func NewTimestamp(v int64) Value { return Value{kind: Timestamp, num: v} }
func NewVector(v []float64) Value {
	cp := make([]float64, len(v))
	copy(cp, v)
	return Value{kind: Vector, vec: cp}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNull() bool  { return v.isNull }
func (v Value) AsBool() bool  { return v.num != 0 }
func (v Value) AsInt() int64  { return v.num }
func (v Value) AsFloat() float64 {
	if v.kind == Decimal {
		return v.decimal
	}
	return float64(v.num)
}
func (v Value) AsString() string    { return v.str }
func (v Value) AsVector() []float64 { return v.vec }

// Dim returns the vector's dimensionality, or 0 for non-vector values.
func (v Value) Dim() int { return len(v.vec) }

// Compare returns -1/0/1 for lhs<rhs/lhs==rhs/lhs>rhs. The second return
// value is false when either operand is NULL (three-valued logic: the
// caller must treat the comparison result as NULL/unknown) or the kinds are
// incompatible.
func (v Value) Compare(other Value) (int, bool) {
	if v.isNull || other.isNull {
		return 0, false
	}
	if v.kind != other.kind {
		return 0, false
	}
	switch v.kind {
	case Boolean, TinyInt, SmallInt, Integer, BigInt, Timestamp:
		switch {
		case v.num < other.num:
			return -1, true
		case v.num > other.num:
			return 1, true
		default:
			return 0, true
		}
	case Decimal:
		switch {
		case v.decimal < other.decimal:
			return -1, true
		case v.decimal > other.decimal:
			return 1, true
		default:
			return 0, true
		}
	case Varchar:
		switch {
		case v.str < other.str:
			return -1, true
		case v.str > other.str:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// Add implements arithmetic addition for the numeric kinds shared by both
// operands; it panics for incompatible or non-numeric kinds (arithmetic is
// only ever invoked by expressions that have already type-checked their
// operands at bind time).
func (v Value) Add(other Value) Value {
	if v.kind != other.kind {
		panic(fmt.Sprintf("Add: mismatched kinds %v and %v", v.kind, other.kind))
	}
	switch v.kind {
	case TinyInt, SmallInt, Integer, BigInt, Timestamp:
		return Value{kind: v.kind, num: v.num + other.num}
	case Decimal:
		return Value{kind: Decimal, decimal: v.decimal + other.decimal}
	case Varchar:
		return Value{kind: Varchar, str: v.str + other.str}
	default:
		panic(fmt.Sprintf("Add: unsupported kind %v", v.kind))
	}
}

// Sub, Mul, and Div implement the remaining arithmetic operators over the
// same kind set as Add, with the same mismatched/unsupported-kind panic
// contract (expressions type-check operands before ever evaluating them).
func (v Value) Sub(other Value) Value {
	if v.kind != other.kind {
		panic(fmt.Sprintf("Sub: mismatched kinds %v and %v", v.kind, other.kind))
	}
	switch v.kind {
	case TinyInt, SmallInt, Integer, BigInt, Timestamp:
		return Value{kind: v.kind, num: v.num - other.num}
	case Decimal:
		return Value{kind: Decimal, decimal: v.decimal - other.decimal}
	default:
		panic(fmt.Sprintf("Sub: unsupported kind %v", v.kind))
	}
}

func (v Value) Mul(other Value) Value {
	if v.kind != other.kind {
		panic(fmt.Sprintf("Mul: mismatched kinds %v and %v", v.kind, other.kind))
	}
	switch v.kind {
	case TinyInt, SmallInt, Integer, BigInt, Timestamp:
		return Value{kind: v.kind, num: v.num * other.num}
	case Decimal:
		return Value{kind: Decimal, decimal: v.decimal * other.decimal}
	default:
		panic(fmt.Sprintf("Mul: unsupported kind %v", v.kind))
	}
}

// Div panics with a common.ErrExecution-compatible error on a zero divisor,
// for both integer kinds and Decimal (which would otherwise silently
// produce ±Inf instead of a runtime failure). Callers that evaluate
// expressions outside a plan (e.g. ExecutePlan's recover) are expected to
// catch this and surface it as the failing statement's error rather than
// let it crash the process.
func (v Value) Div(other Value) Value {
	if v.kind != other.kind {
		panic(fmt.Sprintf("Div: mismatched kinds %v and %v", v.kind, other.kind))
	}
	switch v.kind {
	case TinyInt, SmallInt, Integer, BigInt, Timestamp:
		if other.num == 0 {
			panic(common.Executionf("division by zero"))
		}
		return Value{kind: v.kind, num: v.num / other.num}
	case Decimal:
		if other.decimal == 0 {
			panic(common.Executionf("division by zero"))
		}
		return Value{kind: Decimal, decimal: v.decimal / other.decimal}
	default:
		panic(fmt.Sprintf("Div: unsupported kind %v", v.kind))
	}
}

// Serialize writes v's inline (fixed-width) representation into dest, which
// must be at least FixedWidth() (or, for Varchar/Vector, be pre-sized by the
// caller via SerializedLen).
func (v Value) Serialize(dest []byte) {
	switch v.kind {
	case Boolean, TinyInt:
		dest[0] = byte(v.num)
	case SmallInt:
		binary.BigEndian.PutUint16(dest, uint16(v.num))
	case Integer:
		binary.BigEndian.PutUint32(dest, uint32(v.num))
	case BigInt, Timestamp:
		binary.BigEndian.PutUint64(dest, uint64(v.num))
	case Decimal:
		binary.BigEndian.PutUint64(dest, math.Float64bits(v.decimal))
	case Varchar:
		binary.BigEndian.PutUint32(dest, uint32(len(v.str)))
		copy(dest[4:], v.str)
	case Vector:
		binary.BigEndian.PutUint32(dest, uint32(len(v.vec)))
		off := 4
		for _, f := range v.vec {
			binary.BigEndian.PutUint64(dest[off:], math.Float64bits(f))
			off += 8
		}
	default:
		panic("Serialize: invalid kind")
	}
}

// SerializedLen returns the number of bytes Serialize will write for v.
func (v Value) SerializedLen() int {
	switch v.kind {
	case Varchar:
		return 4 + len(v.str)
	case Vector:
		return 4 + 8*len(v.vec)
	default:
		return int(v.kind.FixedWidth())
	}
}

// Deserialize reads a Value of the given kind from src.
func Deserialize(k Kind, src []byte) Value {
	switch k {
	case Boolean:
		return NewBoolean(src[0] != 0)
	case TinyInt:
		return NewTinyInt(int8(src[0]))
	case SmallInt:
		return NewSmallInt(int16(binary.BigEndian.Uint16(src)))
	case Integer:
		return NewInteger(int32(binary.BigEndian.Uint32(src)))
	case BigInt:
		return NewBigInt(int64(binary.BigEndian.Uint64(src)))
	case Timestamp:
		return NewTimestamp(int64(binary.BigEndian.Uint64(src)))
	case Decimal:
		return NewDecimal(math.Float64frombits(binary.BigEndian.Uint64(src)))
	case Varchar:
		n := binary.BigEndian.Uint32(src)
		return NewVarchar(string(src[4 : 4+n]))
	case Vector:
		n := binary.BigEndian.Uint32(src)
		vec := make([]float64, n)
		off := 4
		for i := range vec {
			vec[i] = math.Float64frombits(binary.BigEndian.Uint64(src[off:]))
			off += 8
		}
		return Value{kind: Vector, vec: vec}
	default:
		panic("Deserialize: invalid kind")
	}
}

func (v Value) String() string {
	if v.isNull {
		return "NULL"
	}
	switch v.kind {
	case Boolean:
		return fmt.Sprintf("%v", v.AsBool())
	case TinyInt, SmallInt, Integer, BigInt, Timestamp:
		return fmt.Sprintf("%d", v.num)
	case Decimal:
		return fmt.Sprintf("%g", v.decimal)
	case Varchar:
		return v.str
	case Vector:
		return fmt.Sprintf("%v", v.vec)
	default:
		return "<invalid>"
	}
}
