package plan

import (
	"vdbms/index/vector"
	"vdbms/types"
)

// VectorIndexScan delegates to a vector index's top-k search, then
// reconstructs each returned RID's tuple through MVCC like SeqScan.
//
type VectorIndexScan struct {
	base
	Table    TableRef
	IndexOID uint32
	Query    []float64
	K        int
	Kind     vector.Kind
}

func NewVectorIndexScan(outSchema *types.Schema, table TableRef, indexOID uint32, query []float64, k int, kind vector.Kind) *VectorIndexScan {
	return &VectorIndexScan{base: base{outSchema: outSchema}, Table: table, IndexOID: indexOID, Query: query, K: k, Kind: kind}
}

func (n *VectorIndexScan) Type() NodeType { return VectorIndexScanNode }

var _ Node = &VectorIndexScan{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *VectorIndexScan) shallowClone() Node {
	cp := *n
	return &cp
}
