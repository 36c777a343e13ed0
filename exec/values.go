package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// Values yields each of plan.Rows in order, with a zero RID since these
// rows were never persisted.
type Values struct {
	base
	plan *plan.Values
	pos  int
}

func NewValues(ctx *ExecutorContext, p *plan.Values) *Values {
	return &Values{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p}
}

func (e *Values) Init() error { e.pos = 0; return nil }

func (e *Values) Next() (*types.Tuple, types.RID, error) {
	if e.pos >= len(e.plan.Rows) {
		return nil, types.RID{}, ErrDone
	}
	row := e.plan.Rows[e.pos]
	e.pos++
	tup, err := types.NewTuple(row, e.OutSchema())
	if err != nil {
		return nil, types.RID{}, err
	}
	return tup, types.RID{}, nil
}

var _ Executor = &Values{}
