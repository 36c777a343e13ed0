package plan

import "vdbms/types"

// Values yields a fixed literal row set: used for `INSERT ... SELECT` over
// literal rows and as a lightweight source in tests.
type Values struct {
	base
	Rows [][]types.Value
}

func NewValues(outSchema *types.Schema, rows [][]types.Value) *Values {
	return &Values{base: base{outSchema: outSchema}, Rows: rows}
}

func (n *Values) Type() NodeType { return ValuesNode }

var _ Node = &Values{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *Values) shallowClone() Node {
	cp := *n
	return &cp
}
