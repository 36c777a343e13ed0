package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// MockScan replays a fixed set of already-built tuples, used by tests to
// stand in for a real scan without a live table.
type MockScan struct {
	base
	plan *plan.MockScan
	pos  int
}

func NewMockScan(ctx *ExecutorContext, p *plan.MockScan) *MockScan {
	return &MockScan{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p}
}

func (e *MockScan) Init() error { e.pos = 0; return nil }

func (e *MockScan) Next() (*types.Tuple, types.RID, error) {
	if e.pos >= len(e.plan.Rows) {
		return nil, types.RID{}, ErrDone
	}
	tup := e.plan.Rows[e.pos]
	e.pos++
	return tup, tup.RID, nil
}

var _ Executor = &MockScan{}
