package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// NestedLoopJoin evaluates Predicate between every outer (left) row and
// every inner (right) row, re-initializing the right side for each new
// left row. LeftJoin emits a right-null-padded row for a left row that
// never matched anything.
//
// NestedLoopJoin supports both inner joins and LeftJoin null-padding of
// unmatched left rows.
type NestedLoopJoin struct {
	base
	plan        *plan.NestedLoopJoin
	left, right Executor

	leftTup     *types.Tuple
	leftMatched bool
	started     bool
}

func NewNestedLoopJoin(ctx *ExecutorContext, p *plan.NestedLoopJoin, left, right Executor) *NestedLoopJoin {
	return &NestedLoopJoin{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, left: left, right: right}
}

func (e *NestedLoopJoin) Init() error {
	if err := e.left.Init(); err != nil {
		return err
	}
	return e.right.Init()
}

func (e *NestedLoopJoin) Next() (*types.Tuple, types.RID, error) {
	for {
		if e.leftTup == nil {
			tup, _, err := e.left.Next()
			if err != nil {
				return nil, types.RID{}, err
			}
			e.leftTup = tup
			e.leftMatched = false
		}

		rtup, _, err := e.right.Next()
		if err == ErrDone {
			unmatched := e.leftTup
			matched := e.leftMatched
			e.leftTup = nil
			if rerr := e.right.Init(); rerr != nil {
				return nil, types.RID{}, rerr
			}
			if e.plan.Kind == plan.LeftJoin && !matched {
				return padRight(unmatched, e.left.OutSchema(), e.right.OutSchema()), types.RID{}, nil
			}
			continue
		}
		if err != nil {
			return nil, types.RID{}, err
		}

		if !evalJoinPredTrue(e.plan.Predicate, e.leftTup, e.left.OutSchema(), rtup, e.right.OutSchema()) {
			continue
		}
		e.leftMatched = true
		return types.Concat(e.leftTup, rtup, e.left.OutSchema(), e.right.OutSchema()), types.RID{}, nil
	}
}

var _ Executor = &NestedLoopJoin{}

func padRight(left *types.Tuple, leftSchema, rightSchema *types.Schema) *types.Tuple {
	nullVals := make([]types.Value, rightSchema.Len())
	for i, c := range rightSchema.Columns() {
		nullVals[i] = types.NullValue(c.Kind)
	}
	rightNull, _ := types.NewTuple(nullVals, rightSchema)
	return types.Concat(left, rightNull, leftSchema, rightSchema)
}
