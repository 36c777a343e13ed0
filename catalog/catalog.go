// Package catalog is the schema registry: it names tables and indexes, owns
// each table's heap and each index's live structure, and hands back the
// OIDs the rest of the system (txn, exec, engine) addresses tables by.
//
// Catalog uses name->OID maps guarded by a single read/write mutex, with
// TableInfo/IndexInfo value objects, and supports four index methods:
// btree, hash, hnsw, and ivfflat.
package catalog

import (
	"fmt"
	"sync"

	"vdbms/index"
	"vdbms/index/vector"
	"vdbms/storage/buffer"
	"vdbms/storage/heap"
	"vdbms/txn"
	"vdbms/types"
)

// IndexMethod names the storage structure backing an index, matching the
// `CREATE INDEX ... USING {hash|btree|hnsw|ivfflat}` surface.
type IndexMethod int

const (
	BTreeMethod IndexMethod = iota
	HashMethod
	HNSWMethod
	IVFFlatMethod
)

func (m IndexMethod) String() string {
	switch m {
	case BTreeMethod:
		return "btree"
	case HashMethod:
		return "hash"
	case HNSWMethod:
		return "hnsw"
	case IVFFlatMethod:
		return "ivfflat"
	default:
		return "unknown"
	}
}

// TableInfo names a table's schema, its OID, and its live tuple storage.
type TableInfo struct {
	Name   string
	OID    txn.TableOID
	Schema *types.Schema
	Heap   *heap.TableHeap
}

// IndexInfo names an index's OID, the table it indexes, the columns it
// covers, and its live structure — exactly one of Index or VectorIndex is
// populated, according to Method.
type IndexInfo struct {
	Name          string
	TableName     string
	OID           uint32
	Method        IndexMethod
	Unique        bool
	ColumnIndexes []int
	KeySchema     *types.Schema

	Index       index.Index // populated for BTreeMethod/HashMethod
	VectorIndex vector.Index // populated for HNSWMethod/IVFFlatMethod
	DistKind    vector.Kind  // meaningful only for vector methods
}

// Catalog is the schema registry shared by every session against one
// engine.Instance.
type Catalog struct {
	mu sync.RWMutex

	pool buffer.Pool

	tables     map[txn.TableOID]*TableInfo
	tableNames map[string]txn.TableOID
	nextTable  txn.TableOID

	indexes    map[uint32]*IndexInfo
	indexNames map[string]map[string]uint32 // table -> index name -> OID
	nextIndex  uint32
}

func New(pool buffer.Pool) *Catalog {
	return &Catalog{
		pool:       pool,
		tables:     map[txn.TableOID]*TableInfo{},
		tableNames: map[string]txn.TableOID{},
		indexes:    map[uint32]*IndexInfo{},
		indexNames: map[string]map[string]uint32{},
	}
}

func (c *Catalog) CreateTable(name string, schema *types.Schema) (*TableInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tableNames[name]; ok {
		return nil, fmt.Errorf("catalog: table already exists: %s", name)
	}

	h, err := heap.New(c.pool)
	if err != nil {
		return nil, err
	}

	c.nextTable++
	info := &TableInfo{Name: name, OID: c.nextTable, Schema: schema, Heap: h}
	c.tables[info.OID] = info
	c.tableNames[name] = info.OID
	c.indexNames[name] = map[string]uint32{}
	return info, nil
}

func (c *Catalog) GetTable(name string) (*TableInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	oid, ok := c.tableNames[name]
	if !ok {
		return nil, false
	}
	return c.tables[oid], true
}

func (c *Catalog) GetTableByOID(oid txn.TableOID) (*TableInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[oid]
	return t, ok
}

func (c *Catalog) TableNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tableNames))
	for name := range c.tableNames {
		out = append(out, name)
	}
	return out
}

// CreateIndex builds an index over tableName's columnIndexes and backfills
// it from every tuple currently in the table's heap (physical order — the
// caller is expected to hold whatever write-locks its statement plan
// requires; the catalog itself does not run this under MVCC visibility).
func (c *Catalog) CreateIndex(name, tableName string, columnIndexes []int, unique bool, method IndexMethod, distKind vector.Kind) (*IndexInfo, error) {
	c.mu.Lock()
	table, ok := c.tables[c.tableNames[tableName]]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("catalog: create index on nonexistent table: %s", tableName)
	}
	if _, exists := c.indexNames[tableName][name]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("catalog: index already exists: %s on %s", name, tableName)
	}

	cols := make([]types.Column, len(columnIndexes))
	for i, ci := range columnIndexes {
		cols[i] = table.Schema.Column(ci)
	}
	keySchema := types.NewSchema(cols)

	c.nextIndex++
	info := &IndexInfo{
		Name:          name,
		TableName:     tableName,
		OID:           c.nextIndex,
		Method:        method,
		Unique:        unique,
		ColumnIndexes: columnIndexes,
		KeySchema:     keySchema,
		DistKind:      distKind,
	}

	switch method {
	case BTreeMethod:
		info.Index = index.NewBTree(unique)
	case HashMethod:
		info.Index = index.NewExtendibleHash()
	case HNSWMethod:
		info.VectorIndex = vector.NewHNSW(distKind, vector.DefaultHNSWConfig(), nil)
	case IVFFlatMethod:
		info.VectorIndex = vector.NewIVFFlat(distKind, vector.DefaultIVFFlatConfig(), nil)
	default:
		c.mu.Unlock()
		return nil, fmt.Errorf("catalog: unknown index method: %v", method)
	}

	c.indexes[info.OID] = info
	c.indexNames[tableName][name] = info.OID
	c.mu.Unlock()

	return info, c.backfill(table, info)
}

func (c *Catalog) backfill(table *TableInfo, info *IndexInfo) error {
	it := table.Heap.EagerIterator()
	for {
		rid, meta, data, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if meta.IsDeleted {
			continue
		}
		tup := types.WrapTuple(data, rid)
		if err := c.indexTuple(info, table.Schema, tup, rid); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) indexTuple(info *IndexInfo, schema *types.Schema, tup *types.Tuple, rid types.RID) error {
	if info.VectorIndex != nil {
		v := tup.GetValue(schema, info.ColumnIndexes[0])
		info.VectorIndex.InsertEntry(v.AsVector(), rid)
		return nil
	}
	key := indexKey(tup, schema, info.ColumnIndexes)
	return info.Index.InsertEntry(key, rid)
}

// indexKey builds the single types.Value an Index sees for a (possibly
// composite) column list: single-column indexes pass the value through
// unchanged, multi-column indexes concatenate each column's serialized
// bytes into one VARCHAR key, which preserves equality and, for fixed-width
// prefixes, lexicographic ordering across the composite.
func indexKey(tup *types.Tuple, schema *types.Schema, columnIndexes []int) types.Value {
	if len(columnIndexes) == 1 {
		return tup.GetValue(schema, columnIndexes[0])
	}
	var buf []byte
	for _, ci := range columnIndexes {
		v := tup.GetValue(schema, ci)
		b := make([]byte, v.SerializedLen())
		if !v.IsNull() {
			v.Serialize(b)
		}
		buf = append(buf, b...)
	}
	return types.NewVarchar(string(buf))
}

func (c *Catalog) GetIndexByOID(oid uint32) (*IndexInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.indexes[oid]
	return info, ok
}

func (c *Catalog) GetIndex(tableName, indexName string) (*IndexInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	oid, ok := c.indexNames[tableName][indexName]
	if !ok {
		return nil, false
	}
	return c.indexes[oid], true
}

func (c *Catalog) IndexNames(tableName string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.indexNames[tableName]))
	for name := range c.indexNames[tableName] {
		out = append(out, name)
	}
	return out
}

func (c *Catalog) GetTableIndexes(tableName string) []*IndexInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := c.indexNames[tableName]
	out := make([]*IndexInfo, 0, len(names))
	for _, oid := range names {
		out = append(out, c.indexes[oid])
	}
	return out
}

// IndexOnColumn returns the first single-column index over table's colIdx
// whose method is method; when none matches and wantAny is true, it returns
// the first single-column index over colIdx of any method instead. Used by
// the optimizer's index-assisted rewrites (NLJAsIndexJoin, OrderByIndex,
// VectorIndexScanRewrite).
func (c *Catalog) IndexOnColumn(table txn.TableOID, colIdx int, method IndexMethod, wantAny bool) (*IndexInfo, bool) {
	t, ok := c.GetTableByOID(table)
	if !ok {
		return nil, false
	}
	var fallback *IndexInfo
	for _, info := range c.GetTableIndexes(t.Name) {
		if len(info.ColumnIndexes) != 1 || info.ColumnIndexes[0] != colIdx {
			continue
		}
		if info.Method == method {
			return info, true
		}
		if fallback == nil {
			fallback = info
		}
	}
	if wantAny && fallback != nil {
		return fallback, true
	}
	return nil, false
}

// IndexTuple updates every index on tableName for a newly-visible row.
// Called by the insert/update executors after a write commits its heap
// change but before the statement returns.
func (c *Catalog) IndexTuple(tableName string, schema *types.Schema, tup *types.Tuple, rid types.RID) error {
	for _, info := range c.GetTableIndexes(tableName) {
		if err := c.indexTuple(info, schema, tup, rid); err != nil {
			return err
		}
	}
	return nil
}

// DeindexTuple removes rid from every scalar index on tableName. Vector
// indexes have no delete operation; a deleted row's RID may still surface
// from a vector scan, but the
// executor's MVCC visibility check filters it out before it reaches a
// caller, same as a stale scalar-index entry would be if this method were
// never called at all.
func (c *Catalog) DeindexTuple(tableName string, schema *types.Schema, tup *types.Tuple, rid types.RID) error {
	for _, info := range c.GetTableIndexes(tableName) {
		if info.Index == nil {
			continue
		}
		key := indexKey(tup, schema, info.ColumnIndexes)
		if err := info.Index.DeleteEntry(key, rid); err != nil {
			return err
		}
	}
	return nil
}
