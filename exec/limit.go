package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// Limit stops pulling from Child after N rows.
type Limit struct {
	base
	plan  *plan.Limit
	child Executor
	seen  int
}

func NewLimit(ctx *ExecutorContext, p *plan.Limit, child Executor) *Limit {
	return &Limit{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *Limit) Init() error { e.seen = 0; return e.child.Init() }

func (e *Limit) Next() (*types.Tuple, types.RID, error) {
	if e.seen >= e.plan.N {
		return nil, types.RID{}, ErrDone
	}
	tup, rid, err := e.child.Next()
	if err != nil {
		return nil, types.RID{}, err
	}
	e.seen++
	return tup, rid, nil
}

var _ Executor = &Limit{}
