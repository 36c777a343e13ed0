package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueSerializeRoundTrip(t *testing.T) {
	cases := []Value{
		NewBoolean(true),
		NewTinyInt(-12),
		NewSmallInt(1234),
		NewInteger(-98765),
		NewBigInt(1 << 40),
		NewDecimal(3.14159),
		NewVarchar("this is a varchar value"),
		NewTimestamp(1710000000),
		NewVector([]float64{1, 2, 3, 4.5}),
	}

	for _, v := range cases {
		dest := make([]byte, v.SerializedLen())
		v.Serialize(dest)
		got := Deserialize(v.Kind(), dest)
		assert.Equal(t, v.String(), got.String())
	}
}

func TestTupleRoundTrip(t *testing.T) {
	schema := NewSchema([]Column{
		{Name: "a", Kind: Integer},
		{Name: "b", Kind: Varchar},
		{Name: "c", Kind: Boolean},
	})

	values := []Value{NewInteger(42), NewVarchar("hello"), NewBoolean(true)}
	tup, err := NewTuple(values, schema)
	assert.NoError(t, err)

	assert.Equal(t, int32(42), int32(tup.GetValue(schema, 0).AsInt()))
	assert.Equal(t, "hello", tup.GetValue(schema, 1).AsString())
	assert.True(t, tup.GetValue(schema, 2).AsBool())

	// byte-for-byte round trip through wrap
	rewrapped := WrapTuple(tup.Data(), RID{PageID: 1, SlotID: 2})
	assert.Equal(t, tup.Data(), rewrapped.Data())
}

func TestTupleConcat(t *testing.T) {
	leftSchema := NewSchema([]Column{{Name: "a", Kind: Integer}, {Name: "s", Kind: Varchar}})
	rightSchema := NewSchema([]Column{{Name: "b", Kind: Integer}, {Name: "t", Kind: Varchar}})

	left, err := NewTuple([]Value{NewInteger(1), NewVarchar("left")}, leftSchema)
	assert.NoError(t, err)
	right, err := NewTuple([]Value{NewInteger(2), NewVarchar("right")}, rightSchema)
	assert.NoError(t, err)

	joined := Concat(left, right, leftSchema, rightSchema)
	joinedSchema := ConcatSchemas(leftSchema, rightSchema)

	assert.Equal(t, int32(1), int32(joined.GetValue(joinedSchema, 0).AsInt()))
	assert.Equal(t, "left", joined.GetValue(joinedSchema, 1).AsString())
	assert.Equal(t, int32(2), int32(joined.GetValue(joinedSchema, 2).AsInt()))
	assert.Equal(t, "right", joined.GetValue(joinedSchema, 3).AsString())
}

func TestTupleFixedWidthNullRoundTrip(t *testing.T) {
	schema := NewSchema([]Column{
		{Name: "id", Kind: Integer},
		{Name: "owner_id", Kind: Integer},
	})

	tup, err := NewTuple([]Value{NewInteger(0), NullValue(Integer)}, schema)
	assert.NoError(t, err)

	// a legitimate zero value in the first column must not be confused with
	// the NULL stored in the second.
	assert.False(t, tup.GetValue(schema, 0).IsNull())
	assert.Equal(t, int32(0), int32(tup.GetValue(schema, 0).AsInt()))
	assert.True(t, tup.GetValue(schema, 1).IsNull())
}

func TestTupleConcatPreservesNullBits(t *testing.T) {
	leftSchema := NewSchema([]Column{{Name: "id", Kind: Integer}, {Name: "name", Kind: Varchar}})
	rightSchema := NewSchema([]Column{{Name: "owner_id", Kind: Integer}})

	left, err := NewTuple([]Value{NewInteger(9), NewVarchar("z")}, leftSchema)
	assert.NoError(t, err)
	rightNull, err := NewTuple([]Value{NullValue(Integer)}, rightSchema)
	assert.NoError(t, err)

	joined := Concat(left, rightNull, leftSchema, rightSchema)
	joinedSchema := ConcatSchemas(leftSchema, rightSchema)

	assert.False(t, joined.GetValue(joinedSchema, 0).IsNull())
	assert.True(t, joined.GetValue(joinedSchema, 2).IsNull())
}

func TestNullValueThreeValuedCompare(t *testing.T) {
	a := NewInteger(1)
	n := NullValue(Integer)
	_, ok := a.Compare(n)
	assert.False(t, ok)
}
