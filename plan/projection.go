package plan

import (
	"vdbms/expr"
	"vdbms/types"
)

// Projection evaluates Exprs against each row Child produces to compute the
// output row.
type Projection struct {
	base
	Exprs []expr.Expression
}

func NewProjection(outSchema *types.Schema, child Node, exprs []expr.Expression) *Projection {
	return &Projection{base: base{outSchema: outSchema, children: []Node{child}}, Exprs: exprs}
}

func (n *Projection) Type() NodeType { return ProjectionNode }

var _ Node = &Projection{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *Projection) shallowClone() Node {
	cp := *n
	return &cp
}
