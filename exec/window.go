package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// Window computes a ROW_NUMBER-style ordinal over Child's rows, partitioned
// by plan.PartitionBy and ordered within each partition by plan.OrderBy,
// appended as the last output column.
type Window struct {
	base
	plan  *plan.Window
	child Executor
	rows  []*types.Tuple
	pos   int
}

func NewWindow(ctx *ExecutorContext, p *plan.Window, child Executor) *Window {
	return &Window{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *Window) partitionKey(tup *types.Tuple, schema *types.Schema) string {
	var key string
	for _, part := range e.plan.PartitionBy {
		key += part.Evaluate(tup, schema).String() + "\x00"
	}
	return key
}

func (e *Window) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}
	childSchema := e.child.OutSchema()

	var rows []rowRID
	for {
		tup, rid, err := e.child.Next()
		if err == ErrDone {
			break
		}
		if err != nil {
			return err
		}
		rows = append(rows, rowRID{tup, rid})
	}

	buckets := map[string][]rowRID{}
	order := []string{}
	for _, r := range rows {
		key := e.partitionKey(r.tup, childSchema)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], r)
	}

	e.rows = nil
	for _, key := range order {
		bucket := buckets[key]
		sortRows(bucket, e.plan.OrderBy, childSchema)
		for i, r := range bucket {
			vals := append(r.tup.Values(childSchema), types.NewBigInt(int64(i+1)))
			out, err := types.NewTuple(vals, e.OutSchema())
			if err != nil {
				return err
			}
			e.rows = append(e.rows, out)
		}
	}
	e.pos = 0
	return nil
}

func (e *Window) Next() (*types.Tuple, types.RID, error) {
	if e.pos >= len(e.rows) {
		return nil, types.RID{}, ErrDone
	}
	tup := e.rows[e.pos]
	e.pos++
	return tup, types.RID{}, nil
}

var _ Executor = &Window{}
