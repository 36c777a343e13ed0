package plan

import "vdbms/expr"

// Filter evaluates Predicate against each row Child produces and skips
// non-matching rows.
type Filter struct {
	base
	Predicate expr.Expression
}

func NewFilter(child Node, predicate expr.Expression) *Filter {
	return &Filter{base: base{outSchema: child.OutSchema(), children: []Node{child}}, Predicate: predicate}
}

func (n *Filter) Type() NodeType { return FilterNode }

var _ Node = &Filter{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *Filter) shallowClone() Node {
	cp := *n
	return &cp
}
