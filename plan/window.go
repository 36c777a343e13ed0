package plan

import (
	"vdbms/expr"
	"vdbms/types"
)

// Window computes a single running ROW_NUMBER-style ordinal over Child's
// rows, partitioned by PartitionBy and ordered by OrderBy, appended as the
// last output column. Kept minimal — one function, no frame clauses —
// mainly to exercise the plan variant end to end.
type Window struct {
	base
	PartitionBy []expr.Expression
	OrderBy     []SortKey
}

func NewWindow(outSchema *types.Schema, child Node, partitionBy []expr.Expression, orderBy []SortKey) *Window {
	return &Window{base: base{outSchema: outSchema, children: []Node{child}}, PartitionBy: partitionBy, OrderBy: orderBy}
}

func (n *Window) Type() NodeType { return WindowNode }

var _ Node = &Window{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *Window) shallowClone() Node {
	cp := *n
	return &cp
}
