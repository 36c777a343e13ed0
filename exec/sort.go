package exec

import (
	"sort"

	"vdbms/plan"
	"vdbms/types"
)

// Sort materializes Child fully, orders the rows by plan.Keys, then
// replays them.
type Sort struct {
	base
	plan  *plan.Sort
	child Executor
	rows  []rowRID
	pos   int
}

type rowRID struct {
	tup *types.Tuple
	rid types.RID
}

func NewSort(ctx *ExecutorContext, p *plan.Sort, child Executor) *Sort {
	return &Sort{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

func (e *Sort) Init() error {
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
	e.pos = 0
	return nil
}

func sortRows(rows []rowRID, keys []plan.SortKey, schema *types.Schema) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			vi := k.Expr.Evaluate(rows[i].tup, schema)
			vj := k.Expr.Evaluate(rows[j].tup, schema)
			c, ok := vi.Compare(vj)
			if !ok || c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func (e *Sort) Next() (*types.Tuple, types.RID, error) {
	if e.pos >= len(e.rows) {
		return nil, types.RID{}, ErrDone
	}
	r := e.rows[e.pos]
	e.pos++
	return r.tup, r.rid, nil
}

var _ Executor = &Sort{}
