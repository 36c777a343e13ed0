package plan

import "vdbms/expr"

// Update rewrites each row Child produces, evaluating Assignments[i] (one
// expression per output column, evaluated against the row about to be
// replaced) and writing the result back to the same RID.
//
// Update follows Insert's node shape.
type Update struct {
	base
	Table       TableRef
	Assignments []expr.Expression
}

func NewUpdate(table TableRef, child Node, assignments []expr.Expression) *Update {
	return &Update{base: base{children: []Node{child}}, Table: table, Assignments: assignments}
}

func (n *Update) Type() NodeType { return UpdateNode }

var _ Node = &Update{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *Update) shallowClone() Node {
	cp := *n
	return &cp
}
