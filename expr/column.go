package expr

import "vdbms/types"

// ColumnValue reads one column out of a tuple. TupleIdx selects which side
// of a join the column comes from when evaluated via EvaluateJoin (0 = left,
// 1 = right); it is ignored by plain Evaluate.
//
type ColumnValue struct {
	base
	TupleIdx int
	ColIdx   int
	Column   types.Column
}

func NewColumnValue(tupleIdx, colIdx int, col types.Column) *ColumnValue {
	return &ColumnValue{TupleIdx: tupleIdx, ColIdx: colIdx, Column: col}
}

func (e *ColumnValue) Evaluate(tuple *types.Tuple, schema *types.Schema) types.Value {
	return tuple.GetValue(schema, e.ColIdx)
}

func (e *ColumnValue) EvaluateJoin(left *types.Tuple, leftSchema *types.Schema, right *types.Tuple, rightSchema *types.Schema) types.Value {
	if e.TupleIdx == 0 {
		return left.GetValue(leftSchema, e.ColIdx)
	}
	return right.GetValue(rightSchema, e.ColIdx)
}

func (e *ColumnValue) GetReturnType() types.Column { return e.Column }

var _ Expression = &ColumnValue{}
