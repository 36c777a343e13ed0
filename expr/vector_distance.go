package expr

import (
	"vdbms/index/vector"
	"vdbms/types"
)

// VectorDistance evaluates to the distance between two VECTOR-valued
// operands under Kind, as a DECIMAL. Cache is optional: when non-nil (i.e.
// session.Config's cache_enabled is set) results are memoized by the
// unordered operand pair.
//
type VectorDistance struct {
	base
	Kind     vector.Kind
	Lhs, Rhs Expression
	Cache    *vector.Cache
}

func NewVectorDistance(kind vector.Kind, lhs, rhs Expression, cache *vector.Cache) *VectorDistance {
	return &VectorDistance{Kind: kind, Lhs: lhs, Rhs: rhs, Cache: cache, base: base{children: []Expression{lhs, rhs}}}
}

func (e *VectorDistance) eval(lhs, rhs types.Value) types.Value {
	if lhs.IsNull() || rhs.IsNull() {
		return types.NullValue(types.Decimal)
	}
	d, err := vector.DistanceCached(e.Cache, e.Kind, lhs.AsVector(), rhs.AsVector())
	if err != nil {
		return types.NullValue(types.Decimal)
	}
	return types.NewDecimal(d)
}

func (e *VectorDistance) Evaluate(tuple *types.Tuple, schema *types.Schema) types.Value {
	return e.eval(e.Lhs.Evaluate(tuple, schema), e.Rhs.Evaluate(tuple, schema))
}

func (e *VectorDistance) EvaluateJoin(left *types.Tuple, leftSchema *types.Schema, right *types.Tuple, rightSchema *types.Schema) types.Value {
	lhs := e.Lhs.EvaluateJoin(left, leftSchema, right, rightSchema)
	rhs := e.Rhs.EvaluateJoin(left, leftSchema, right, rightSchema)
	return e.eval(lhs, rhs)
}

func (e *VectorDistance) GetReturnType() types.Column { return types.Column{Kind: types.Decimal} }

var _ Expression = &VectorDistance{}
