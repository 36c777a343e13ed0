package vector

import "vdbms/types"

// Index is the contract both HNSW and IVFFlat satisfy: unlike index.Index,
// vector indexes take a raw []float64 query and answer top-k rather than
// exact-match, so they are kept as a separate small interface instead of
// forcing types.Value through the ANN path.
type Index interface {
	InsertEntry(vec []float64, rid types.RID)
	ScanVectorKey(query []float64, k int) ([]types.RID, error)
}

var (
	_ Index = &HNSW{}
	_ Index = &IVFFlat{}
)
