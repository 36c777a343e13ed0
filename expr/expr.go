// Package expr implements the expression tree executors evaluate: scalar
// values computed from a tuple (or a pair of tuples, for join predicates)
// down to a single types.Value.
//
// Evaluate and EvaluateJoin are split so join predicates can read columns
// from either side of a pair of tuples; comparisons propagate three-valued
// NULL logic rather than treating NULL as a normal comparable value.
package expr

import "vdbms/types"

// Expression is the node contract every expression variant satisfies.
type Expression interface {
	Evaluate(tuple *types.Tuple, schema *types.Schema) types.Value
	EvaluateJoin(left *types.Tuple, leftSchema *types.Schema, right *types.Tuple, rightSchema *types.Schema) types.Value
	GetReturnType() types.Column
	Children() []Expression
}

// base supplies the child-list plumbing every variant embeds.
type base struct {
	children []Expression
}

func (b *base) Children() []Expression { return b.children }
