// Package plan implements the immutable plan tree the optimizer rewrites
// and the executors interpret: one node type per physical operator, each
// carrying its own operator-specific fields plus the shared OutSchema/
// Children plumbing every node needs.
//
// Nodes reference tables and indexes by their bare integer OID types
// rather than by value from catalog, so this package never imports catalog
// (plans are built and rewritten before a catalog lookup is needed; the
// executor layer resolves OIDs against the catalog at Init time).
package plan

import (
	"vdbms/expr"
	"vdbms/txn"
	"vdbms/types"
)

// NodeType tags each concrete plan node for type switches in the optimizer
// and executor factory.
type NodeType int

const (
	SeqScanNode NodeType = iota
	IndexScanNode
	VectorIndexScanNode
	InsertNode
	UpdateNode
	DeleteNode
	AggregationNode
	LimitNode
	NestedLoopJoinNode
	NestedIndexJoinNode
	HashJoinNode
	FilterNode
	ValuesNode
	ProjectionNode
	SortNode
	TopNNode
	TopNPerGroupNode
	MockScanNode
	WindowNode
)

// Node is the contract every plan variant satisfies.
type Node interface {
	Type() NodeType
	OutSchema() *types.Schema
	Children() []Node
}

// base supplies the child-list and output-schema plumbing every node
// embeds.
type base struct {
	outSchema *types.Schema
	children  []Node
}

func (b *base) OutSchema() *types.Schema { return b.outSchema }
func (b *base) Children() []Node         { return b.children }
func (b *base) setChildren(c []Node)     { b.children = c }

type childSetter interface {
	setChildren([]Node)
}

type cloner interface {
	shallowClone() Node
}

// WithChildren returns a shallow copy of n with its child list replaced by
// children, leaving n itself untouched. Used by the optimizer to rewrite a
// node's children without mutating the tree another rule might still be
// examining.
func WithChildren(n Node, children []Node) Node {
	cp := n.(cloner).shallowClone()
	cp.(childSetter).setChildren(children)
	return cp
}

// JoinType selects a join's null-padding behavior for unmatched outer rows.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

// SortKey pairs a sort expression with its direction.
type SortKey struct {
	Expr expr.Expression
	Desc bool
}

// AggregateFunc names one of the five supported aggregates.
type AggregateFunc int

const (
	CountStar AggregateFunc = iota
	Count
	Sum
	Min
	Max
)

// AggregateExpr is one output column of an Aggregation node.
type AggregateExpr struct {
	Func AggregateFunc
	Arg  expr.Expression // nil for CountStar
}

// TableRef is the table an Insert/Update/Delete/SeqScan targets, addressed
// by OID rather than by a live *catalog.TableInfo pointer.
type TableRef = txn.TableOID
