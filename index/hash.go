package index

import (
	"encoding/hex"
	"hash/fnv"
	"sync"

	"vdbms/types"
)

const defaultBucketSize = 8

type hashEntry struct {
	key  types.Value
	rids []types.RID
}

type hashBucket struct {
	localDepth int
	entries    map[string]*hashEntry
}

// ExtendibleHash is a point-lookup index: a directory of 2^globalDepth
// pointers into buckets, doubling the directory only when the bucket that
// overflowed already shares the full global depth.
//
// The directory doubles only when the overflowing bucket's local depth has
// caught up to the global depth, following the classical extendible
// hashing algorithm.
type ExtendibleHash struct {
	mu          sync.RWMutex
	globalDepth int
	bucketSize  int
	directory   []*hashBucket
}

func NewExtendibleHash() *ExtendibleHash {
	return &ExtendibleHash{
		globalDepth: 1,
		bucketSize:  defaultBucketSize,
		directory:   []*hashBucket{{localDepth: 1, entries: map[string]*hashEntry{}}, {localDepth: 1, entries: map[string]*hashEntry{}}},
	}
}

func hashValue(v types.Value) uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(v.Kind())})
	if v.IsNull() {
		return h.Sum64()
	}
	buf := make([]byte, v.SerializedLen())
	v.Serialize(buf)
	h.Write(buf)
	return h.Sum64()
}

func encodeKey(v types.Value) string {
	buf := make([]byte, v.SerializedLen())
	if !v.IsNull() {
		v.Serialize(buf)
	}
	return string(v.Kind()) + hex.EncodeToString(buf)
}

func (h *ExtendibleHash) dirIndex(hv uint64) int {
	mask := uint64(1)<<uint(h.globalDepth) - 1
	return int(hv & mask)
}

func (h *ExtendibleHash) InsertEntry(key types.Value, rid types.RID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.insert(key, rid)
	return nil
}

func (h *ExtendibleHash) insert(key types.Value, rid types.RID) {
	hv := hashValue(key)
	idx := h.dirIndex(hv)
	b := h.directory[idx]
	k := encodeKey(key)

	if e, ok := b.entries[k]; ok {
		e.rids = append(e.rids, rid)
		return
	}
	b.entries[k] = &hashEntry{key: key, rids: []types.RID{rid}}

	if len(b.entries) > h.bucketSize {
		h.split(idx)
	}
}

func (h *ExtendibleHash) split(idx int) {
	old := h.directory[idx]
	if old.localDepth == h.globalDepth {
		h.directory = append(h.directory, h.directory...)
		h.globalDepth++
	}
	old.localDepth++
	fresh := &hashBucket{localDepth: old.localDepth, entries: map[string]*hashEntry{}}

	highBit := uint64(1) << uint(old.localDepth-1)
	for i, b := range h.directory {
		if b == old && uint64(i)&highBit != 0 {
			h.directory[i] = fresh
		}
	}

	oldEntries := old.entries
	old.entries = map[string]*hashEntry{}
	for k, e := range oldEntries {
		if hashValue(e.key)&highBit != 0 {
			fresh.entries[k] = e
		} else {
			old.entries[k] = e
		}
	}
}

func (h *ExtendibleHash) DeleteEntry(key types.Value, rid types.RID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	b := h.directory[h.dirIndex(hashValue(key))]
	k := encodeKey(key)
	e, ok := b.entries[k]
	if !ok {
		return nil
	}
	for i, r := range e.rids {
		if r == rid {
			e.rids = append(e.rids[:i], e.rids[i+1:]...)
			break
		}
	}
	if len(e.rids) == 0 {
		delete(b.entries, k)
	}
	return nil
}

func (h *ExtendibleHash) ScanKey(key types.Value) ([]types.RID, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	b := h.directory[h.dirIndex(hashValue(key))]
	e, ok := b.entries[encodeKey(key)]
	if !ok {
		return nil, nil
	}
	return append([]types.RID(nil), e.rids...), nil
}

var _ Index = &ExtendibleHash{}
