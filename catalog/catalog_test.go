package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vdbms/index/vector"
	"vdbms/storage/buffer"
	"vdbms/storage/disk"
	"vdbms/types"
)

func newTestCatalog(t *testing.T) *Catalog {
	pool := buffer.NewBufferPool(16, disk.NewMemManager(), buffer.NewClockReplacer(16))
	return New(pool)
}

func widgetSchema() *types.Schema {
	return types.NewSchema([]types.Column{
		{Name: "id", Kind: types.Integer},
		{Name: "name", Kind: types.Varchar, Length: 32},
	})
}

func TestCreateAndGetTable(t *testing.T) {
	c := newTestCatalog(t)
	info, err := c.CreateTable("widgets", widgetSchema())
	assert.NoError(t, err)
	assert.Equal(t, "widgets", info.Name)

	got, ok := c.GetTable("widgets")
	assert.True(t, ok)
	assert.Equal(t, info.OID, got.OID)

	byOID, ok := c.GetTableByOID(info.OID)
	assert.True(t, ok)
	assert.Equal(t, "widgets", byOID.Name)
}

func TestCreateTableDuplicateNameFails(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.CreateTable("widgets", widgetSchema())
	assert.NoError(t, err)
	_, err = c.CreateTable("widgets", widgetSchema())
	assert.Error(t, err)
}

func TestCreateBTreeIndexBackfillsExistingRows(t *testing.T) {
	c := newTestCatalog(t)
	table, err := c.CreateTable("widgets", widgetSchema())
	assert.NoError(t, err)

	for i := int32(0); i < 5; i++ {
		tup, err := types.NewTuple([]types.Value{types.NewInteger(i), types.NewVarchar("w")}, table.Schema)
		assert.NoError(t, err)
		_, err = table.Heap.InsertTuple(types.TupleMeta{TS: 1}, tup.Data())
		assert.NoError(t, err)
	}

	idx, err := c.CreateIndex("idx_id", "widgets", []int{0}, true, BTreeMethod, 0)
	assert.NoError(t, err)

	rids, err := idx.Index.ScanKey(types.NewInteger(3))
	assert.NoError(t, err)
	assert.Len(t, rids, 1)
}

func TestGetTableIndexesAndIndexTuple(t *testing.T) {
	c := newTestCatalog(t)
	table, err := c.CreateTable("widgets", widgetSchema())
	assert.NoError(t, err)
	_, err = c.CreateIndex("idx_id", "widgets", []int{0}, true, HashMethod, 0)
	assert.NoError(t, err)

	tup, err := types.NewTuple([]types.Value{types.NewInteger(9), types.NewVarchar("z")}, table.Schema)
	assert.NoError(t, err)
	rid, err := table.Heap.InsertTuple(types.TupleMeta{TS: 1}, tup.Data())
	assert.NoError(t, err)
	assert.NoError(t, c.IndexTuple("widgets", table.Schema, tup, rid))

	idx, ok := c.GetIndex("widgets", "idx_id")
	assert.True(t, ok)
	rids, err := idx.Index.ScanKey(types.NewInteger(9))
	assert.NoError(t, err)
	assert.Equal(t, []types.RID{rid}, rids)

	assert.Len(t, c.GetTableIndexes("widgets"), 1)
}

func TestCreateVectorIndex(t *testing.T) {
	c := newTestCatalog(t)
	schema := types.NewSchema([]types.Column{
		{Name: "id", Kind: types.Integer},
		{Name: "embedding", Kind: types.Vector, Length: 3},
	})
	table, err := c.CreateTable("docs", schema)
	assert.NoError(t, err)

	tup, err := types.NewTuple([]types.Value{types.NewInteger(1), types.NewVector([]float64{1, 2, 3})}, table.Schema)
	assert.NoError(t, err)
	rid, err := table.Heap.InsertTuple(types.TupleMeta{TS: 1}, tup.Data())
	assert.NoError(t, err)
	assert.NoError(t, c.IndexTuple("docs", table.Schema, tup, rid))

	idx, err := c.CreateIndex("idx_vec", "docs", []int{1}, false, HNSWMethod, vector.L2)
	assert.NoError(t, err)
	assert.NotNil(t, idx.VectorIndex)
}
