package plan

import (
	"vdbms/expr"
	"vdbms/types"
)

// HashJoin is the optimizer's equi-join rewrite of a NestedLoopJoin: the
// right side is built into a hash table keyed by RightKey on Init, then each
// left row probes it via LeftKey.
type HashJoin struct {
	base
	LeftKey, RightKey expr.Expression
	Kind              JoinType
}

func NewHashJoin(outSchema *types.Schema, left, right Node, leftKey, rightKey expr.Expression, kind JoinType) *HashJoin {
	return &HashJoin{base: base{outSchema: outSchema, children: []Node{left, right}}, LeftKey: leftKey, RightKey: rightKey, Kind: kind}
}

func (n *HashJoin) Type() NodeType { return HashJoinNode }
func (n *HashJoin) Left() Node     { return n.children[0] }
func (n *HashJoin) Right() Node    { return n.children[1] }

var _ Node = &HashJoin{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *HashJoin) shallowClone() Node {
	cp := *n
	return &cp
}
