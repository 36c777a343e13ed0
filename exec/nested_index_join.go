package exec

import (
	"fmt"

	"vdbms/catalog"
	"vdbms/plan"
	"vdbms/types"
)

// NestedIndexJoin is the optimizer's index-assisted rewrite of a
// NestedLoopJoin: for each outer row, IndexKey is evaluated and used to
// probe an index on the inner table rather than rescanning it. Predicate
// is any residual single-table filter left on the inner scan the rewrite
// replaced.
type NestedIndexJoin struct {
	base
	plan  *plan.NestedIndexJoin
	outer Executor
	inner *catalog.TableInfo
	info  *catalog.IndexInfo

	outerTup  *types.Tuple
	matchRids []types.RID
	idx       int
}

func NewNestedIndexJoin(ctx *ExecutorContext, p *plan.NestedIndexJoin, outer Executor) *NestedIndexJoin {
	return &NestedIndexJoin{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, outer: outer}
}

func (e *NestedIndexJoin) Init() error {
	if err := e.outer.Init(); err != nil {
		return err
	}
	t, ok := e.ctx.Catalog.GetTableByOID(e.plan.InnerOID)
	if !ok {
		return fmt.Errorf("exec: nested index join on unknown inner table oid %d", e.plan.InnerOID)
	}
	e.inner = t
	info, ok := e.ctx.Catalog.GetIndexByOID(e.plan.IndexOID)
	if !ok || info.Index == nil {
		return fmt.Errorf("exec: unknown or non-scalar index oid %d", e.plan.IndexOID)
	}
	e.info = info
	return nil
}

func (e *NestedIndexJoin) Next() (*types.Tuple, types.RID, error) {
	for {
		if e.idx >= len(e.matchRids) {
			tup, _, err := e.outer.Next()
			if err != nil {
				return nil, types.RID{}, err
			}
			e.outerTup = tup
			key := e.plan.IndexKey.Evaluate(tup, e.outer.OutSchema())
			rids, err := e.info.Index.ScanKey(key)
			if err != nil {
				return nil, types.RID{}, err
			}
			e.matchRids = rids
			e.idx = 0
			if len(rids) == 0 {
				if e.plan.Kind == plan.LeftJoin {
					return padRight(tup, e.outer.OutSchema(), e.inner.Schema), types.RID{}, nil
				}
				continue
			}
		}

		rid := e.matchRids[e.idx]
		e.idx++

		meta, raw, err := e.inner.Heap.GetTuple(rid)
		if err != nil {
			return nil, types.RID{}, err
		}
		inner, ok := visible(e.ctx, e.plan.InnerOID, e.inner.Schema, meta, raw, rid)
		if !ok {
			continue
		}
		if !evalPredTrue(e.plan.Predicate, inner, e.inner.Schema) {
			continue
		}
		return types.Concat(e.outerTup, inner, e.outer.OutSchema(), e.inner.Schema), rid, nil
	}
}

var _ Executor = &NestedIndexJoin{}
