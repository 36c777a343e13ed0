package plan

import "vdbms/types"

// Insert writes every row it receives to Table, either literal Values (a
// "raw" insert with no child, e.g. `INSERT ... VALUES`) or rows pulled from
// Child (e.g. `INSERT ... SELECT`).
//
// Exactly one of raw values or a child is set: IsRawInsert() reports
// len(Children()) == 0.
type Insert struct {
	base
	Table  TableRef
	Values [][]types.Value
}

func NewRawInsert(table TableRef, values [][]types.Value) *Insert {
	return &Insert{Table: table, Values: values}
}

func NewInsert(table TableRef, child Node) *Insert {
	return &Insert{base: base{children: []Node{child}}, Table: table}
}

func (n *Insert) Type() NodeType   { return InsertNode }
func (n *Insert) IsRawInsert() bool { return len(n.children) == 0 }

var _ Node = &Insert{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *Insert) shallowClone() Node {
	cp := *n
	return &cp
}
