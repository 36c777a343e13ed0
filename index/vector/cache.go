package vector

import (
	"encoding/binary"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes Distance results keyed by the unordered vector pair: the
// smaller of the two operands' byte encodings is always placed first so
// (a,b) and (b,a) share one entry. Owned by a single session.Config
// instance; never a package-level global.
type Cache struct {
	lru *lru.Cache[string, float64]
}

// NewCache builds a bounded memoization cache holding at most size entries.
// A size of 0 disables caching (Get always misses, Put is a no-op) so
// callers can share this type whether or not cache_enabled is set.
func NewCache(size int) *Cache {
	if size <= 0 {
		return &Cache{}
	}
	c, _ := lru.New[string, float64](size)
	return &Cache{lru: c}
}

func encodeVec(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func cacheKey(kind Kind, a, b []float64) string {
	ea, eb := encodeVec(a), encodeVec(b)
	if string(eb) < string(ea) {
		ea, eb = eb, ea
	}
	key := make([]byte, 0, len(ea)+len(eb)+1)
	key = append(key, byte(kind))
	key = append(key, ea...)
	key = append(key, eb...)
	return string(key)
}

func (c *Cache) Get(kind Kind, a, b []float64) (float64, bool) {
	if c == nil || c.lru == nil {
		return 0, false
	}
	return c.lru.Get(cacheKey(kind, a, b))
}

func (c *Cache) Put(kind Kind, a, b []float64, dist float64) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(cacheKey(kind, a, b), dist)
}

// DistanceCached computes Distance(kind, a, b), consulting and populating
// cache when non-nil.
func DistanceCached(cache *Cache, kind Kind, a, b []float64) (float64, error) {
	if cache != nil {
		if d, ok := cache.Get(kind, a, b); ok {
			return d, nil
		}
	}
	d, err := Distance(kind, a, b)
	if err != nil {
		return 0, err
	}
	if cache != nil {
		cache.Put(kind, a, b, d)
	}
	return d, nil
}
