package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// Projection evaluates plan.Exprs against each row Child produces to build
// the output row.
type Projection struct {
	base
	plan  *plan.Projection
	child Executor
}

func NewProjection(ctx *ExecutorContext, p *plan.Projection, child Executor) *Projection {
	return &Projection{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *Projection) Init() error { return e.child.Init() }

func (e *Projection) Next() (*types.Tuple, types.RID, error) {
	tup, rid, err := e.child.Next()
	if err != nil {
		return nil, types.RID{}, err
	}
	vals := make([]types.Value, len(e.plan.Exprs))
	for i, ex := range e.plan.Exprs {
		vals[i] = ex.Evaluate(tup, e.child.OutSchema())
	}
	out, err := types.NewTuple(vals, e.OutSchema())
	if err != nil {
		return nil, types.RID{}, err
	}
	out.RID = rid
	return out, rid, nil
}

var _ Executor = &Projection{}
