package vector

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"vdbms/types"
)

// IVFFlatConfig holds the {lists, probeLists} parameters for the
// inverted-file index.
type IVFFlatConfig struct {
	Lists      int
	ProbeLists int
}

func DefaultIVFFlatConfig() IVFFlatConfig {
	return IVFFlatConfig{Lists: 16, ProbeLists: 4}
}

type ivfEntry struct {
	rid types.RID
	vec []float64
}

// IVFFlat coarse-quantizes the data set into Lists centroids via k-means,
// then buckets every inserted vector under its nearest centroid. A query
// probes the ProbeLists nearest centroids and linearly scans their buckets.
type IVFFlat struct {
	mu          sync.RWMutex
	cfg         IVFFlatConfig
	kind        Kind
	cache       *Cache
	rng         *rand.Rand
	centroids   [][]float64
	buckets     [][]ivfEntry
	trained     bool
	pending     []ivfEntry // buffered until Train has enough points to seed centroids
	simdEnabled bool
}

// SetSimdEnabled toggles whether ScanVectorKey scores each probed bucket
// through the batch distanceSIMD seam instead of one candidate at a time.
// Batched scoring bypasses the distance cache, since distanceSIMD has no
// per-pair memoization hook.
func (iv *IVFFlat) SetSimdEnabled(v bool) {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	iv.simdEnabled = v
}

func NewIVFFlat(kind Kind, cfg IVFFlatConfig, cache *Cache) *IVFFlat {
	return &IVFFlat{
		cfg:   cfg,
		kind:  kind,
		cache: cache,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (iv *IVFFlat) dist(a, b []float64) float64 {
	d, err := DistanceCached(iv.cache, iv.kind, a, b)
	if err != nil {
		return math.Inf(1)
	}
	return d
}

// train runs a fixed number of Lloyd's-algorithm iterations over the
// buffered points to seed iv.centroids, then assigns every buffered point to
// its bucket. Called lazily once enough points have accumulated.
func (iv *IVFFlat) train() {
	n := len(iv.pending)
	k := iv.cfg.Lists
	if k > n {
		k = n
	}
	if k == 0 {
		return
	}

	iv.centroids = make([][]float64, k)
	perm := iv.rng.Perm(n)
	for i := 0; i < k; i++ {
		src := iv.pending[perm[i]].vec
		iv.centroids[i] = append([]float64(nil), src...)
	}

	const iterations = 10
	assign := make([]int, n)
	for iter := 0; iter < iterations; iter++ {
		for i, e := range iv.pending {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range iv.centroids {
				d := iv.dist(e.vec, centroid)
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			assign[i] = best
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		dim := len(iv.pending[0].vec)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, e := range iv.pending {
			c := assign[i]
			counts[c]++
			for d, v := range e.vec {
				sums[c][d] += v
			}
		}
		for c := range iv.centroids {
			if counts[c] == 0 {
				continue
			}
			for d := range iv.centroids[c] {
				iv.centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	iv.buckets = make([][]ivfEntry, k)
	for i, e := range iv.pending {
		c := assign[i]
		iv.buckets[c] = append(iv.buckets[c], e)
	}
	iv.trained = true
	iv.pending = nil
}

func (iv *IVFFlat) nearestCentroids(vec []float64, n int) []int {
	type cd struct {
		idx  int
		dist float64
	}
	cds := make([]cd, len(iv.centroids))
	for i, c := range iv.centroids {
		cds[i] = cd{i, iv.dist(vec, c)}
	}
	for i := 1; i < len(cds); i++ {
		for j := i; j > 0 && cds[j].dist < cds[j-1].dist; j-- {
			cds[j], cds[j-1] = cds[j-1], cds[j]
		}
	}
	if n > len(cds) {
		n = len(cds)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = cds[i].idx
	}
	return out
}

// trainThreshold is how many buffered points accumulate before the first
// k-means pass runs; below it inserts are just buffered so a handful of
// early rows don't produce degenerate, single-point centroids.
const trainThreshold = 64

func (iv *IVFFlat) InsertEntry(vec []float64, rid types.RID) {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	if !iv.trained {
		iv.pending = append(iv.pending, ivfEntry{rid: rid, vec: vec})
		if len(iv.pending) >= trainThreshold && len(iv.pending) >= iv.cfg.Lists {
			iv.train()
		}
		return
	}

	nearest := iv.nearestCentroids(vec, 1)[0]
	iv.buckets[nearest] = append(iv.buckets[nearest], ivfEntry{rid: rid, vec: vec})
}

// ScanVectorKey returns up to k nearest neighbors of query, scanning the
// ProbeLists closest buckets (or a full linear scan over untrained buffered
// points, since there are no centroids to probe yet).
func (iv *IVFFlat) ScanVectorKey(query []float64, k int) ([]types.RID, error) {
	iv.mu.RLock()
	defer iv.mu.RUnlock()

	type cd struct {
		rid  types.RID
		dist float64
	}
	var cands []cd

	scoreBucket := func(entries []ivfEntry) {
		if iv.simdEnabled && len(entries) > 0 {
			vecs := make([][]float64, len(entries))
			for i, e := range entries {
				vecs[i] = e.vec
			}
			if dists, err := distanceSIMD(iv.kind, query, vecs); err == nil {
				for i, e := range entries {
					cands = append(cands, cd{e.rid, dists[i]})
				}
				return
			}
		}
		for _, e := range entries {
			cands = append(cands, cd{e.rid, iv.dist(query, e.vec)})
		}
	}

	if !iv.trained {
		scoreBucket(iv.pending)
	} else {
		probe := iv.cfg.ProbeLists
		for _, c := range iv.nearestCentroids(query, probe) {
			scoreBucket(iv.buckets[c])
		}
	}

	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && cands[j].dist < cands[j-1].dist; j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}
	if k > len(cands) {
		k = len(cands)
	}
	out := make([]types.RID, k)
	for i := 0; i < k; i++ {
		out[i] = cands[i].rid
	}
	return out, nil
}
