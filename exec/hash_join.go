package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// HashJoin builds a hash table over the right side keyed by RightKey on
// Init, then probes it with each left row's LeftKey — the optimizer's
// equi-join rewrite of NestedLoopJoin.
type HashJoin struct {
	base
	plan        *plan.HashJoin
	left, right Executor

	table map[string][]*types.Tuple

	curLeft   *types.Tuple
	curBucket []*types.Tuple
	curIdx    int
}

func NewHashJoin(ctx *ExecutorContext, p *plan.HashJoin, left, right Executor) *HashJoin {
	return &HashJoin{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, left: left, right: right}
}

func (e *HashJoin) Init() error {
	if err := e.left.Init(); err != nil {
		return err
	}
	if err := e.right.Init(); err != nil {
		return err
	}
	e.table = map[string][]*types.Tuple{}
	for {
		rtup, _, err := e.right.Next()
		if err == ErrDone {
			break
		}
		if err != nil {
			return err
		}
		key := e.plan.RightKey.Evaluate(rtup, e.right.OutSchema()).String()
		e.table[key] = append(e.table[key], rtup)
	}
	return nil
}

func (e *HashJoin) Next() (*types.Tuple, types.RID, error) {
	for {
		if e.curIdx >= len(e.curBucket) {
			ltup, _, err := e.left.Next()
			if err != nil {
				return nil, types.RID{}, err
			}
			e.curLeft = ltup
			key := e.plan.LeftKey.Evaluate(ltup, e.left.OutSchema()).String()
			e.curBucket = e.table[key]
			e.curIdx = 0
			if len(e.curBucket) == 0 {
				if e.plan.Kind == plan.LeftJoin {
					return padRight(ltup, e.left.OutSchema(), e.right.OutSchema()), types.RID{}, nil
				}
				continue
			}
		}
		rtup := e.curBucket[e.curIdx]
		e.curIdx++
		return types.Concat(e.curLeft, rtup, e.left.OutSchema(), e.right.OutSchema()), types.RID{}, nil
	}
}

var _ Executor = &HashJoin{}
