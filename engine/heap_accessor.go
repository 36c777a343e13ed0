package engine

import (
	"fmt"

	"vdbms/catalog"
	"vdbms/txn"
	"vdbms/types"
)

// heapAccessor implements txn.HeapAccessor by delegating to the catalog's
// table lookups, so the txn package only ever depends on TableOID and the
// four methods below rather than importing catalog or heap directly.
type heapAccessor struct {
	inst *Instance
}

var _ txn.HeapAccessor = heapAccessor{}

func (h heapAccessor) table(oid txn.TableOID) (*catalog.TableInfo, error) {
	info, ok := h.inst.Catalog.GetTableByOID(oid)
	if !ok {
		return nil, fmt.Errorf("engine: unknown table oid %d", oid)
	}
	return info, nil
}

func (h heapAccessor) Schema(oid txn.TableOID) *types.Schema {
	info, ok := h.inst.Catalog.GetTableByOID(oid)
	if !ok {
		return nil
	}
	return info.Schema
}

func (h heapAccessor) GetTuple(oid txn.TableOID, rid types.RID) (types.TupleMeta, *types.Tuple, error) {
	t, err := h.table(oid)
	if err != nil {
		return types.TupleMeta{}, nil, err
	}
	return t.Heap.GetTuple(rid)
}

func (h heapAccessor) UpdateTupleMeta(oid txn.TableOID, rid types.RID, meta types.TupleMeta) error {
	t, err := h.table(oid)
	if err != nil {
		return err
	}
	return t.Heap.UpdateTupleMeta(meta, rid)
}

func (h heapAccessor) UpdateTupleInPlace(oid txn.TableOID, rid types.RID, meta types.TupleMeta, data []byte) error {
	t, err := h.table(oid)
	if err != nil {
		return err
	}
	_, err = t.Heap.UpdateTupleInPlace(meta, data, rid, nil)
	return err
}
