package expr

import "vdbms/types"

// ArithmeticOp names a BinaryArithmetic expression's operator.
type ArithmeticOp int

const (
	AddOp ArithmeticOp = iota
	SubOp
	MulOp
	DivOp
)

// BinaryArithmetic applies one of +,-,*,/ to two same-kind operands,
// propagating NULL if either side is NULL, using the arithmetic contract
// types.Value.Add/Sub/Mul/Div already establish.
type BinaryArithmetic struct {
	base
	Op       ArithmeticOp
	Lhs, Rhs Expression
}

func NewBinaryArithmetic(op ArithmeticOp, lhs, rhs Expression) *BinaryArithmetic {
	return &BinaryArithmetic{Op: op, Lhs: lhs, Rhs: rhs, base: base{children: []Expression{lhs, rhs}}}
}

func apply(op ArithmeticOp, lhs, rhs types.Value) types.Value {
	if lhs.IsNull() || rhs.IsNull() {
		return types.NullValue(lhs.Kind())
	}
	switch op {
	case AddOp:
		return lhs.Add(rhs)
	case SubOp:
		return lhs.Sub(rhs)
	case MulOp:
		return lhs.Mul(rhs)
	case DivOp:
		return lhs.Div(rhs)
	default:
		panic("BinaryArithmetic: unknown op")
	}
}

func (e *BinaryArithmetic) Evaluate(tuple *types.Tuple, schema *types.Schema) types.Value {
	return apply(e.Op, e.Lhs.Evaluate(tuple, schema), e.Rhs.Evaluate(tuple, schema))
}

func (e *BinaryArithmetic) EvaluateJoin(left *types.Tuple, leftSchema *types.Schema, right *types.Tuple, rightSchema *types.Schema) types.Value {
	lhs := e.Lhs.EvaluateJoin(left, leftSchema, right, rightSchema)
	rhs := e.Rhs.EvaluateJoin(left, leftSchema, right, rightSchema)
	return apply(e.Op, lhs, rhs)
}

func (e *BinaryArithmetic) GetReturnType() types.Column {
	return e.Lhs.GetReturnType()
}

var _ Expression = &BinaryArithmetic{}
