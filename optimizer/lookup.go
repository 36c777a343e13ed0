package optimizer

import (
	"vdbms/catalog"
	"vdbms/txn"
)

// IndexLookup is the small slice of Catalog the index-assisted rules need,
// kept as an interface so this package never has to construct a real
// catalog.Catalog in its own unit tests.
type IndexLookup interface {
	IndexOnColumn(table txn.TableOID, colIdx int, method catalog.IndexMethod, wantAny bool) (*catalog.IndexInfo, bool)
}
