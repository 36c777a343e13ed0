package expr

import "vdbms/types"

// Constant always evaluates to the same value, independent of the tuple.
type Constant struct {
	base
	Value types.Value
}

func NewConstant(v types.Value) *Constant { return &Constant{Value: v} }

func (e *Constant) Evaluate(*types.Tuple, *types.Schema) types.Value { return e.Value }

func (e *Constant) EvaluateJoin(*types.Tuple, *types.Schema, *types.Tuple, *types.Schema) types.Value {
	return e.Value
}

func (e *Constant) GetReturnType() types.Column {
	return types.Column{Kind: e.Value.Kind()}
}

var _ Expression = &Constant{}
