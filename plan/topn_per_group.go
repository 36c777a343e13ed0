package plan

import "vdbms/expr"

// TopNPerGroup partitions Child's rows by GroupBy and keeps, per partition,
// the N smallest rows by Keys — the "best K per group" window-style query
// shape.
type TopNPerGroup struct {
	base
	GroupBy []expr.Expression
	Keys    []SortKey
	N       int
}

func NewTopNPerGroup(child Node, groupBy []expr.Expression, keys []SortKey, n int) *TopNPerGroup {
	return &TopNPerGroup{base: base{outSchema: child.OutSchema(), children: []Node{child}}, GroupBy: groupBy, Keys: keys, N: n}
}

func (n *TopNPerGroup) Type() NodeType { return TopNPerGroupNode }

var _ Node = &TopNPerGroup{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *TopNPerGroup) shallowClone() Node {
	cp := *n
	return &cp
}
