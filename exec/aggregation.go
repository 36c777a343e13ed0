package exec

import (
	"vdbms/plan"
	"vdbms/types"
)

// Aggregation materializes Child fully, groups rows by GroupBy, folds each
// group's rows through plan.Aggregates, and emits one row per group (after
// Having filters groups out), in first-seen group order.
type Aggregation struct {
	base
	plan  *plan.Aggregation
	child Executor
	rows  []*types.Tuple
	pos   int
}

func NewAggregation(ctx *ExecutorContext, p *plan.Aggregation, child Executor) *Aggregation {
	return &Aggregation{base: base{ctx: ctx, schema: p.OutSchema()}, plan: p, child: child}
}

type aggState struct {
	count   int64
	countNN int64
	sum     float64
	sumSet  bool
	min     types.Value
	max     types.Value
}

func (s *aggState) observe(v types.Value) {
	s.count++
	if v.IsNull() {
		return
	}
	s.countNN++
	if v.Kind() == types.Decimal || v.Kind() == types.Integer || v.Kind() == types.BigInt ||
		v.Kind() == types.SmallInt || v.Kind() == types.TinyInt {
		s.sum += v.AsFloat()
		s.sumSet = true
	}
	if s.min.IsNull() && s.max.IsNull() {
		s.min, s.max = v, v
		return
	}
	if c, ok := v.Compare(s.min); ok && c < 0 {
		s.min = v
	}
	if c, ok := v.Compare(s.max); ok && c > 0 {
		s.max = v
	}
}

func (s *aggState) result(fn plan.AggregateFunc, kind types.Kind) types.Value {
	switch fn {
	case plan.CountStar:
		return types.NewBigInt(s.count)
	case plan.Count:
		return types.NewBigInt(s.countNN)
	case plan.Sum:
		if !s.sumSet {
			return types.NullValue(types.Decimal)
		}
		return types.NewDecimal(s.sum)
	case plan.Min:
		if s.countNN == 0 {
			return types.NullValue(kind)
		}
		return s.min
	case plan.Max:
		if s.countNN == 0 {
			return types.NullValue(kind)
		}
		return s.max
	default:
		return types.NullValue(kind)
	}
}

func (e *Aggregation) groupKey(tup *types.Tuple, schema *types.Schema) string {
	var key string
	for _, g := range e.plan.GroupBy {
		key += g.Evaluate(tup, schema).String() + "\x00"
	}
	return key
}

func (e *Aggregation) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}
	childSchema := e.child.OutSchema()

	order := []string{}
	groupRepr := map[string]*types.Tuple{}
	states := map[string][]*aggState{}

	// A global aggregate (no GROUP BY) always produces one row, even over
	// zero input rows — COUNT(*) of an empty table is 0, not "no rows".
	// Seeding the implicit group's state up front makes that fall out of
	// the ordinary group bookkeeping below instead of a special case.
	if len(e.plan.GroupBy) == 0 {
		order = append(order, "")
		st := make([]*aggState, len(e.plan.Aggregates))
		for i := range st {
			st[i] = &aggState{min: types.NullValue(types.Decimal), max: types.NullValue(types.Decimal)}
		}
		states[""] = st
	}

	for {
		tup, _, err := e.child.Next()
		if err == ErrDone {
			break
		}
		if err != nil {
			return err
		}
		key := e.groupKey(tup, childSchema)
		st, ok := states[key]
		if !ok {
			order = append(order, key)
			groupRepr[key] = tup
			st = make([]*aggState, len(e.plan.Aggregates))
			for i := range st {
				st[i] = &aggState{min: types.NullValue(types.Decimal), max: types.NullValue(types.Decimal)}
			}
			states[key] = st
		}
		for i, a := range e.plan.Aggregates {
			var v types.Value
			if a.Arg == nil {
				v = types.NewBigInt(1)
			} else {
				v = a.Arg.Evaluate(tup, childSchema)
			}
			st[i].observe(v)
		}
	}

	e.rows = nil
	for _, key := range order {
		vals := make([]types.Value, 0, len(e.plan.GroupBy)+len(e.plan.Aggregates))
		repr := groupRepr[key]
		for _, g := range e.plan.GroupBy {
			vals = append(vals, g.Evaluate(repr, childSchema))
		}
		for i, a := range e.plan.Aggregates {
			kind := types.Decimal
			if a.Arg != nil {
				kind = a.Arg.GetReturnType().Kind
			}
			vals = append(vals, states[key][i].result(a.Func, kind))
		}
		out, err := types.NewTuple(vals, e.OutSchema())
		if err != nil {
			return err
		}
		if e.plan.Having != nil {
			v := e.plan.Having.Evaluate(out, e.OutSchema())
			if v.IsNull() || !v.AsBool() {
				continue
			}
		}
		e.rows = append(e.rows, out)
	}
	e.pos = 0
	return nil
}

func (e *Aggregation) Next() (*types.Tuple, types.RID, error) {
	if e.pos >= len(e.rows) {
		return nil, types.RID{}, ErrDone
	}
	tup := e.rows[e.pos]
	e.pos++
	return tup, types.RID{}, nil
}

var _ Executor = &Aggregation{}
