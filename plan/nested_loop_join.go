package plan

import (
	"vdbms/expr"
	"vdbms/types"
)

// NestedLoopJoin evaluates Predicate between every outer (left) row and
// every inner (right) row. The executor does not buffer the right side: it
// re-initializes and rescans the right child for each outer row. Kind
// selects INNER or LEFT null-padding semantics.
//
// JoinType distinguishes inner joins from left joins with null-padding.
type NestedLoopJoin struct {
	base
	Predicate expr.Expression
	Kind      JoinType
}

func NewNestedLoopJoin(outSchema *types.Schema, left, right Node, predicate expr.Expression, kind JoinType) *NestedLoopJoin {
	return &NestedLoopJoin{base: base{outSchema: outSchema, children: []Node{left, right}}, Predicate: predicate, Kind: kind}
}

func (n *NestedLoopJoin) Type() NodeType  { return NestedLoopJoinNode }
func (n *NestedLoopJoin) Left() Node      { return n.children[0] }
func (n *NestedLoopJoin) Right() Node     { return n.children[1] }

var _ Node = &NestedLoopJoin{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *NestedLoopJoin) shallowClone() Node {
	cp := *n
	return &cp
}
