package plan

import (
	"vdbms/expr"
	"vdbms/types"
)

// Aggregation groups Child's rows by GroupBy, computes Aggregates per group,
// and emits one row per group once Child is exhausted, applying Having as a
// post-aggregation filter.
type Aggregation struct {
	base
	GroupBy    []expr.Expression
	Aggregates []AggregateExpr
	Having     expr.Expression
}

func NewAggregation(outSchema *types.Schema, child Node, groupBy []expr.Expression, aggregates []AggregateExpr, having expr.Expression) *Aggregation {
	return &Aggregation{
		base:       base{outSchema: outSchema, children: []Node{child}},
		GroupBy:    groupBy,
		Aggregates: aggregates,
		Having:     having,
	}
}

func (n *Aggregation) Type() NodeType { return AggregationNode }

var _ Node = &Aggregation{}

// shallowClone returns a copy of n with its own base, letting the optimizer
// rewrite children without mutating the original tree in place.
func (n *Aggregation) shallowClone() Node {
	cp := *n
	return &cp
}
