package plan

import (
	"vdbms/expr"
	"vdbms/types"
)

// IndexScan probes an ordered or hash index either for an exact key (Key
// non-nil, Lo/Hi nil) or a range (Lo/Hi set, Key nil), reconstructing each
// matching RID's tuple through MVCC. Predicate is any residual filter the
// optimizer could not fold entirely into the index probe.
//
// Point lookups and range scans share this single node type, since both
// share every field but the min/max bounds.
type IndexScan struct {
	base
	Table     TableRef
	IndexOID  uint32
	Key       expr.Expression
	Lo, Hi    expr.Expression
	LoIncl    bool
	HiIncl    bool
	Predicate expr.Expression
}

func NewIndexScan(outSchema *types.Schema, table TableRef, indexOID uint32, key expr.Expression, predicate expr.Expression) *IndexScan {
	return &IndexScan{base: base{outSchema: outSchema}, Table: table, IndexOID: indexOID, Key: key, Predicate: predicate}
}

func NewIndexRangeScan(outSchema *types.Schema, table TableRef, indexOID uint32, lo, hi expr.Expression, loIncl, hiIncl bool, predicate expr.Expression) *IndexScan {
	return &IndexScan{
		base: base{outSchema: outSchema}, Table: table, IndexOID: indexOID,
		Lo: lo, Hi: hi, LoIncl: loIncl, HiIncl: hiIncl, Predicate: predicate,
	}
}

func (n *IndexScan) Type() NodeType { return IndexScanNode }

var _ Node = &IndexScan{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *IndexScan) shallowClone() Node {
	cp := *n
	return &cp
}
