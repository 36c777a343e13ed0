package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// TopNPerGroup keeps the N smallest (by plan.Keys) rows within each
// plan.GroupBy partition. Implemented by materializing, bucketing by the
// string form of the group key values, sorting each bucket, and concatenating the
// truncated buckets back together in first-seen group order.
type TopNPerGroup struct {
	base
	plan  *plan.TopNPerGroup
	child Executor
	rows  []rowRID
	pos   int
}

func NewTopNPerGroup(ctx *ExecutorContext, p *plan.TopNPerGroup, child Executor) *TopNPerGroup {
	return &TopNPerGroup{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *TopNPerGroup) groupKey(tup *types.Tuple) string {
	var key string
	for _, g := range e.plan.GroupBy {
		key += g.Evaluate(tup, e.OutSchema()).String() + "\x00"
	}
	return key
}

func (e *TopNPerGroup) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}

	order := []string{}
	buckets := map[string][]rowRID{}
	for {
		tup, rid, err := e.child.Next()
		if err == ErrDone {
			break
		}
		if err != nil {
			return err
		}
		k := e.groupKey(tup)
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], rowRID{tup, rid})
	}

	e.rows = nil
	for _, k := range order {
		bucket := buckets[k]
		sortRows(bucket, e.plan.Keys, e.OutSchema())
		if len(bucket) > e.plan.N {
			bucket = bucket[:e.plan.N]
		}
		e.rows = append(e.rows, bucket...)
	}
	e.pos = 0
	return nil
}

func (e *TopNPerGroup) Next() (*types.Tuple, types.RID, error) {
	if e.pos >= len(e.rows) {
		return nil, types.RID{}, ErrDone
	}
	r := e.rows[e.pos]
	e.pos++
	return r.tup, r.rid, nil
}

var _ Executor = &TopNPerGroup{}
