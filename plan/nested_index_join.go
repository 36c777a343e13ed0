package plan

import (
	"vdbms/expr"
	"vdbms/types"
)

// NestedIndexJoin is the optimizer's index-assisted rewrite of a
// NestedLoopJoin: for each outer row, IndexKey is evaluated and used to
// probe IndexOID on the (single, implicit) inner table rather than
// materializing and rescanning it.
type NestedIndexJoin struct {
	base
	IndexOID  uint32
	InnerOID  TableRef
	IndexKey  expr.Expression
	Predicate expr.Expression
	Kind      JoinType
}

func NewNestedIndexJoin(outSchema *types.Schema, outer Node, innerOID TableRef, indexOID uint32, indexKey, predicate expr.Expression, kind JoinType) *NestedIndexJoin {
	return &NestedIndexJoin{
		base:      base{outSchema: outSchema, children: []Node{outer}},
		IndexOID:  indexOID,
		InnerOID:  innerOID,
		IndexKey:  indexKey,
		Predicate: predicate,
		Kind:      kind,
	}
}

func (n *NestedIndexJoin) Type() NodeType { return NestedIndexJoinNode }
func (n *NestedIndexJoin) Outer() Node    { return n.children[0] }

var _ Node = &NestedIndexJoin{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *NestedIndexJoin) shallowClone() Node {
	cp := *n
	return &cp
}
