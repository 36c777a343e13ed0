package exec

import (
	"fmt"

	"vdbms/plan"
)

// Build recursively constructs the executor tree for n, wiring each node's
// already-built children into its executor's constructor. This is the
// runtime counterpart of plan.Node's static tree: one switch arm per
// plan.NodeType.
func Build(ctx *ExecutorContext, n plan.Node) (Executor, error) {
	children, err := buildChildren(ctx, n)
	if err != nil {
		return nil, err
	}

	switch p := n.(type) {
	case *plan.SeqScan:
		return NewSeqScan(ctx, p), nil
	case *plan.IndexScan:
		return NewIndexScan(ctx, p), nil
	case *plan.VectorIndexScan:
		return NewVectorIndexScan(ctx, p), nil
	case *plan.Insert:
		if p.IsRawInsert() {
			return NewInsert(ctx, p, nil), nil
		}
		return NewInsert(ctx, p, children[0]), nil
	case *plan.Update:
		return NewUpdate(ctx, p, children[0]), nil
	case *plan.Delete:
		return NewDelete(ctx, p, children[0]), nil
	case *plan.Aggregation:
		return NewAggregation(ctx, p, children[0]), nil
	case *plan.Limit:
		return NewLimit(ctx, p, children[0]), nil
	case *plan.NestedLoopJoin:
		return NewNestedLoopJoin(ctx, p, children[0], children[1]), nil
	case *plan.NestedIndexJoin:
		return NewNestedIndexJoin(ctx, p, children[0]), nil
	case *plan.HashJoin:
		return NewHashJoin(ctx, p, children[0], children[1]), nil
	case *plan.Filter:
		return NewFilter(ctx, p, children[0]), nil
	case *plan.Values:
		return NewValues(ctx, p), nil
	case *plan.Projection:
		return NewProjection(ctx, p, children[0]), nil
	case *plan.Sort:
		return NewSort(ctx, p, children[0]), nil
	case *plan.TopN:
		return NewTopN(ctx, p, children[0]), nil
	case *plan.TopNPerGroup:
		return NewTopNPerGroup(ctx, p, children[0]), nil
	case *plan.MockScan:
		return NewMockScan(ctx, p), nil
	case *plan.Window:
		return NewWindow(ctx, p, children[0]), nil
	default:
		return nil, fmt.Errorf("exec: unsupported plan node %T", n)
	}
}

func buildChildren(ctx *ExecutorContext, n plan.Node) ([]Executor, error) {
	kids := n.Children()
	out := make([]Executor, len(kids))
	for i, k := range kids {
		e, err := Build(ctx, k)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
