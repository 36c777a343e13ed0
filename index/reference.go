package index

import (
	"sort"
	"sync"

	"vdbms/types"
)

// Unordered is a plain hash-map index: the simplest possible ScanKey
// contract, with no hash-directory mechanics. Neither the tests nor the
// planner construct it.
type Unordered struct {
	mu      sync.RWMutex
	entries map[string]*hashEntry
}

func NewUnordered() *Unordered {
	return &Unordered{entries: map[string]*hashEntry{}}
}

func (u *Unordered) InsertEntry(key types.Value, rid types.RID) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	k := encodeKey(key)
	if e, ok := u.entries[k]; ok {
		e.rids = append(e.rids, rid)
		return nil
	}
	u.entries[k] = &hashEntry{key: key, rids: []types.RID{rid}}
	return nil
}

func (u *Unordered) DeleteEntry(key types.Value, rid types.RID) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	k := encodeKey(key)
	e, ok := u.entries[k]
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
		delete(u.entries, k)
	}
	return nil
}

func (u *Unordered) ScanKey(key types.Value) ([]types.RID, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	e, ok := u.entries[encodeKey(key)]
	if !ok {
		return nil, nil
	}
	return append([]types.RID(nil), e.rids...), nil
}

var _ Index = &Unordered{}

// Ordered is a sorted-slice index: linear insert/delete, binary-search
// lookup and range scan. It exists alongside the real B+Tree, useful in
// tests that want Range semantics without the tree's split bookkeeping.
type Ordered struct {
	mu      sync.RWMutex
	entries []btreeEntry
}

func NewOrdered() *Ordered {
	return &Ordered{}
}

func (o *Ordered) find(key types.Value) int {
	return sort.Search(len(o.entries), func(i int) bool { return !less(o.entries[i].key, key) })
}

func (o *Ordered) InsertEntry(key types.Value, rid types.RID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	idx := o.find(key)
	if idx < len(o.entries) && equal(o.entries[idx].key, key) {
		o.entries[idx].rids = append(o.entries[idx].rids, rid)
		return nil
	}
	o.entries = append(o.entries, btreeEntry{})
	copy(o.entries[idx+1:], o.entries[idx:])
	o.entries[idx] = btreeEntry{key: key, rids: []types.RID{rid}}
	return nil
}

func (o *Ordered) DeleteEntry(key types.Value, rid types.RID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	idx := o.find(key)
	if idx >= len(o.entries) || !equal(o.entries[idx].key, key) {
		return nil
	}
	rids := o.entries[idx].rids
	for i, r := range rids {
		if r == rid {
			o.entries[idx].rids = append(rids[:i], rids[i+1:]...)
			break
		}
	}
	if len(o.entries[idx].rids) == 0 {
		o.entries = append(o.entries[:idx], o.entries[idx+1:]...)
	}
	return nil
}

func (o *Ordered) ScanKey(key types.Value) ([]types.RID, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	idx := o.find(key)
	if idx >= len(o.entries) || !equal(o.entries[idx].key, key) {
		return nil, nil
	}
	return append([]types.RID(nil), o.entries[idx].rids...), nil
}

func (o *Ordered) Range(lo, hi types.Value, loInclusive, hiInclusive bool) ([]types.RID, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []types.RID
	for i := o.find(lo); i < len(o.entries); i++ {
		k := o.entries[i].key
		if c, ok := k.Compare(hi); ok {
			if c > 0 || (c == 0 && !hiInclusive) {
				break
			}
		}
		if c, ok := k.Compare(lo); ok && c == 0 && !loInclusive {
			continue
		}
		out = append(out, o.entries[i].rids...)
	}
	return out, nil
}

var _ Ranged = &Ordered{}
