package expr

import "vdbms/types"

// CompareOp names a Comparison expression's operator.
type CompareOp int

const (
	Eq CompareOp = iota
	NotEq
	Lt
	LtEq
	Gt
	GtEq
)

// Comparison evaluates Lhs op Rhs to a boolean Value, or NULL if either side
// is NULL, using types.Value.Compare across the full six-operator set.
type Comparison struct {
	base
	Op       CompareOp
	Lhs, Rhs Expression
}

func NewComparison(op CompareOp, lhs, rhs Expression) *Comparison {
	return &Comparison{Op: op, Lhs: lhs, Rhs: rhs, base: base{children: []Expression{lhs, rhs}}}
}

func compare(op CompareOp, lhs, rhs types.Value) types.Value {
	if lhs.IsNull() || rhs.IsNull() {
		return types.NullValue(types.Boolean)
	}
	c, ok := lhs.Compare(rhs)
	if !ok {
		return types.NullValue(types.Boolean)
	}
	var result bool
	switch op {
	case Eq:
		result = c == 0
	case NotEq:
		result = c != 0
	case Lt:
		result = c < 0
	case LtEq:
		result = c <= 0
	case Gt:
		result = c > 0
	case GtEq:
		result = c >= 0
	}
	return types.NewBoolean(result)
}

func (e *Comparison) Evaluate(tuple *types.Tuple, schema *types.Schema) types.Value {
	return compare(e.Op, e.Lhs.Evaluate(tuple, schema), e.Rhs.Evaluate(tuple, schema))
}

func (e *Comparison) EvaluateJoin(left *types.Tuple, leftSchema *types.Schema, right *types.Tuple, rightSchema *types.Schema) types.Value {
	lhs := e.Lhs.EvaluateJoin(left, leftSchema, right, rightSchema)
	rhs := e.Rhs.EvaluateJoin(left, leftSchema, right, rightSchema)
	return compare(e.Op, lhs, rhs)
}

func (e *Comparison) GetReturnType() types.Column { return types.Column{Kind: types.Boolean} }

var _ Expression = &Comparison{}
