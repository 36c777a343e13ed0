package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vdbms/expr"
	"vdbms/types"
)

func widgetSchema() *types.Schema {
	return types.NewSchema([]types.Column{{Name: "id", Kind: types.Integer}})
}

func TestSeqScanChildrenAndSchema(t *testing.T) {
	schema := widgetSchema()
	n := NewSeqScan(schema, TableRef(1), nil)
	assert.Equal(t, SeqScanNode, n.Type())
	assert.Same(t, schema, n.OutSchema())
	assert.Empty(t, n.Children())
}

func TestInsertRawVsChild(t *testing.T) {
	raw := NewRawInsert(TableRef(1), [][]types.Value{{types.NewInteger(1)}})
	assert.True(t, raw.IsRawInsert())

	child := NewSeqScan(widgetSchema(), TableRef(2), nil)
	withChild := NewInsert(TableRef(1), child)
	assert.False(t, withChild.IsRawInsert())
	assert.Equal(t, []Node{child}, withChild.Children())
}

func TestNestedLoopJoinExposesBothSides(t *testing.T) {
	schema := widgetSchema()
	left := NewSeqScan(schema, TableRef(1), nil)
	right := NewSeqScan(schema, TableRef(2), nil)
	pred := expr.NewComparison(expr.Eq, expr.NewConstant(types.NewInteger(1)), expr.NewConstant(types.NewInteger(1)))
	join := NewNestedLoopJoin(schema, left, right, pred, InnerJoin)

	assert.Equal(t, NestedLoopJoinNode, join.Type())
	assert.Same(t, left, join.Left())
	assert.Same(t, right, join.Right())
}

func TestLimitAndFilterInheritChildSchema(t *testing.T) {
	schema := widgetSchema()
	scan := NewSeqScan(schema, TableRef(1), nil)
	limit := NewLimit(scan, 10)
	filter := NewFilter(scan, nil)

	assert.Same(t, schema, limit.OutSchema())
	assert.Same(t, schema, filter.OutSchema())
}

func TestTopNCarriesKeysAndN(t *testing.T) {
	schema := widgetSchema()
	scan := NewSeqScan(schema, TableRef(1), nil)
	keys := []SortKey{{Expr: expr.NewConstant(types.NewInteger(1)), Desc: true}}
	top := NewTopN(scan, keys, 5)

	assert.Equal(t, 5, top.N)
	assert.Equal(t, keys, top.Keys)
	assert.Equal(t, TopNNode, top.Type())
}

func TestValuesAndMockScanAreLeaves(t *testing.T) {
	schema := widgetSchema()
	v := NewValues(schema, [][]types.Value{{types.NewInteger(1)}})
	assert.Empty(t, v.Children())

	tup, err := types.NewTuple([]types.Value{types.NewInteger(1)}, schema)
	assert.NoError(t, err)
	m := NewMockScan(schema, []*types.Tuple{tup})
	assert.Empty(t, m.Children())
}
