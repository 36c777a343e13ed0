package plan

// Delete tombstones every row Child produces.
type Delete struct {
	base
	Table TableRef
}

func NewDelete(table TableRef, child Node) *Delete {
	return &Delete{base: base{children: []Node{child}}, Table: table}
}

func (n *Delete) Type() NodeType { return DeleteNode }

var _ Node = &Delete{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *Delete) shallowClone() Node {
	cp := *n
	return &cp
}
