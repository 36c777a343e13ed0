package expr

import (
	"strings"

	"vdbms/types"
)

// StringFuncName is the closed set of string builtins the executors expose.
type StringFuncName int

const (
	Upper StringFuncName = iota
	Lower
	Length
	Concat
)

// StringFunction applies a builtin over one or more VARCHAR operands. Concat
// takes any number of Args and joins them; the others take exactly one.
//
// A small closed builtin set kept mainly to exercise VARCHAR handling end
// to end.
type StringFunction struct {
	base
	Name StringFuncName
	Args []Expression
}

func NewStringFunction(name StringFuncName, args ...Expression) *StringFunction {
	return &StringFunction{Name: name, Args: args, base: base{children: args}}
}

func (e *StringFunction) apply(args []types.Value) types.Value {
	for _, a := range args {
		if a.IsNull() {
			return types.NullValue(types.Varchar)
		}
	}
	switch e.Name {
	case Upper:
		return types.NewVarchar(strings.ToUpper(args[0].AsString()))
	case Lower:
		return types.NewVarchar(strings.ToLower(args[0].AsString()))
	case Length:
		return types.NewInteger(int32(len(args[0].AsString())))
	case Concat:
		var sb strings.Builder
		for _, a := range args {
			sb.WriteString(a.AsString())
		}
		return types.NewVarchar(sb.String())
	default:
		panic("StringFunction: unknown builtin")
	}
}

func (e *StringFunction) Evaluate(tuple *types.Tuple, schema *types.Schema) types.Value {
	args := make([]types.Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.Evaluate(tuple, schema)
	}
	return e.apply(args)
}

func (e *StringFunction) EvaluateJoin(left *types.Tuple, leftSchema *types.Schema, right *types.Tuple, rightSchema *types.Schema) types.Value {
	args := make([]types.Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.EvaluateJoin(left, leftSchema, right, rightSchema)
	}
	return e.apply(args)
}

func (e *StringFunction) GetReturnType() types.Column {
	if e.Name == Length {
		return types.Column{Kind: types.Integer}
	}
	return types.Column{Kind: types.Varchar}
}

var _ Expression = &StringFunction{}
