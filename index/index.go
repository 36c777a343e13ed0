// Package index implements the secondary-index substrate: a common
// InsertEntry/DeleteEntry/ScanKey contract, an ordered B+Tree, a
// point-lookup extendible hash table, and in-memory reference
// implementations (Unordered, Ordered), which no test or planner path
// constructs.
// The vector indexes (HNSW, IVFFlat) live in the index/vector subpackage.
//
// Every index here is a plain in-memory tree or directory: it indexes
// types.Value keys directly rather than serialized byte strings, and
// durability is out of scope for the whole system.
package index

import "vdbms/types"

// Index is the contract every non-vector index satisfies.
type Index interface {
	InsertEntry(key types.Value, rid types.RID) error
	DeleteEntry(key types.Value, rid types.RID) error
	ScanKey(key types.Value) ([]types.RID, error)
}

// Ranged is additionally implemented by indexes that preserve key order.
type Ranged interface {
	Index
	Range(lo, hi types.Value, loInclusive, hiInclusive bool) ([]types.RID, error)
}

// less treats a NULL operand as sorting before every non-NULL value, so a
// NULL lo bound passed to Range means "no lower bound" rather than
// "matches nothing" — the convention plan.IndexScan's OrderByIndex-rewrite
// unbounded scans rely on.
func less(a, b types.Value) bool {
	if a.IsNull() {
		return !b.IsNull()
	}
	if b.IsNull() {
		return false
	}
	c, ok := a.Compare(b)
	return ok && c < 0
}

func equal(a, b types.Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	c, ok := a.Compare(b)
	return ok && c == 0
}
