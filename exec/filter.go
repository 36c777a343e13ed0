package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// Filter re-evaluates Predicate against each row Child produces (a second
// evaluation on top of any pushdown the optimizer already achieved is
// harmless — a Filter left over after optimization means the predicate
// could not be folded any further down).
type Filter struct {
	base
	plan  *plan.Filter
	child Executor
}

func NewFilter(ctx *ExecutorContext, p *plan.Filter, child Executor) *Filter {
	return &Filter{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *Filter) Init() error { return e.child.Init() }

func (e *Filter) Next() (*types.Tuple, types.RID, error) {
	for {
		tup, rid, err := e.child.Next()
		if err != nil {
			return nil, types.RID{}, err
		}
		if evalPredTrue(e.plan.Predicate, tup, e.OutSchema()) {
			return tup, rid, nil
		}
	}
}

var _ Executor = &Filter{}
