package plan

import (
	"vdbms/expr"
	"vdbms/types"
)

// SeqScan iterates a table's heap in physical order, reconstructing each
// slot through MVCC and evaluating an optional pushed-down predicate.
//
type SeqScan struct {
	base
	Table     TableRef
	Predicate expr.Expression // nil if no predicate has been pushed down
}

func NewSeqScan(outSchema *types.Schema, table TableRef, predicate expr.Expression) *SeqScan {
	return &SeqScan{base: base{outSchema: outSchema}, Table: table, Predicate: predicate}
}

func (n *SeqScan) Type() NodeType { return SeqScanNode }

var _ Node = &SeqScan{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *SeqScan) shallowClone() Node {
	cp := *n
	return &cp
}
