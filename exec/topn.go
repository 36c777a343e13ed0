package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// TopN keeps only the N smallest (by plan.Keys) rows Child produces.
// Implemented as materialize-then-sort: it buffers every child row, sorts
// them all with the same sortRows helper Sort uses, and keeps the first N,
// so it does the same buffering and full sort as Sort; there is no bounded
// heap.
type TopN struct {
	base
	plan  *plan.TopN
	child Executor
	rows  []rowRID
	pos   int
}

func NewTopN(ctx *ExecutorContext, p *plan.TopN, child Executor) *TopN {
	return &TopN{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *TopN) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}
	e.rows = nil
	for {
		tup, rid, err := e.child.Next()
		if err == ErrDone {
			break
		}
		if err != nil {
			return err
		}
		e.rows = append(e.rows, rowRID{tup, rid})
	}
	sortRows(e.rows, e.plan.Keys, e.OutSchema())
	if len(e.rows) > e.plan.N {
		e.rows = e.rows[:e.plan.N]
	}
	e.pos = 0
	return nil
}

func (e *TopN) Next() (*types.Tuple, types.RID, error) {
	if e.pos >= len(e.rows) {
		return nil, types.RID{}, ErrDone
	}
	r := e.rows[e.pos]
	e.pos++
	return r.tup, r.rid, nil
}

var _ Executor = &TopN{}
