package vector

import (
	"container/heap"
	"math"
	"math/rand"
	"sync"
	"time"

	"vdbms/types"
)

// HNSWConfig holds the three parameters that shape graph construction and
// search cost.
type HNSWConfig struct {
	M              int
	EfConstruction int
	EfSearch       int
}

func DefaultHNSWConfig() HNSWConfig {
	return HNSWConfig{M: 16, EfConstruction: 200, EfSearch: 50}
}

type hnswNode struct {
	rid       types.RID
	vec       []float64
	neighbors [][]int // per layer, indices into HNSW.nodes
}

// HNSW is a multi-layer small-world graph: construction assigns each
// inserted point a random level under a geometric distribution, greedily
// descends the layers above that level to find an entry point, then runs a
// bounded best-first search at and below the insertion level to pick the M
// closest neighbors per layer, following the Malkov/Yashunin algorithm
// without its diversity-pruning neighbor heuristic.
type HNSW struct {
	mu     sync.RWMutex
	cfg    HNSWConfig
	kind   Kind
	cache  *Cache
	rng    *rand.Rand
	mL     float64
	nodes  []hnswNode
	entry  int // index into nodes, -1 if empty
	maxLvl int
}

func NewHNSW(kind Kind, cfg HNSWConfig, cache *Cache) *HNSW {
	return &HNSW{
		cfg:   cfg,
		kind:  kind,
		cache: cache,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		mL:    1 / math.Log(float64(cfg.M)),
		entry: -1,
	}
}

func (h *HNSW) randomLevel() int {
	return int(math.Floor(-math.Log(h.rng.Float64()) * h.mL))
}

func (h *HNSW) dist(a, b []float64) float64 {
	d, err := DistanceCached(h.cache, h.kind, a, b)
	if err != nil {
		return math.Inf(1)
	}
	return d
}

type candidate struct {
	idx  int
	dist float64
}

// candidateHeap is a max-heap by distance (used to keep the worst of the
// current top-k at the root for eviction) and, via minCandidateHeap, a
// min-heap for greedy expansion order.
type candidateHeap []candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist } // max-heap
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type minCandidateHeap struct{ candidateHeap }

func (h minCandidateHeap) Less(i, j int) bool { return h.candidateHeap[i].dist < h.candidateHeap[j].dist }

// searchLayer runs best-first search on layer, returning the ef closest
// nodes to query found starting from entry points.
func (h *HNSW) searchLayer(query []float64, entryPoints []int, ef, layer int) []candidate {
	visited := make(map[int]bool, len(entryPoints))
	candidates := &minCandidateHeap{}
	results := &candidateHeap{}

	for _, ep := range entryPoints {
		if visited[ep] {
			continue
		}
		visited[ep] = true
		d := h.dist(query, h.nodes[ep].vec)
		heap.Push(candidates, candidate{ep, d})
		heap.Push(results, candidate{ep, d})
	}

	for candidates.Len() > 0 {
		c := heap.Pop(candidates).(candidate)
		if results.Len() >= ef && c.dist > (*results)[0].dist {
			break
		}
		if layer >= len(h.nodes[c.idx].neighbors) {
			continue
		}
		for _, nb := range h.nodes[c.idx].neighbors[layer] {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			d := h.dist(query, h.nodes[nb].vec)
			if results.Len() < ef || d < (*results)[0].dist {
				heap.Push(candidates, candidate{nb, d})
				heap.Push(results, candidate{nb, d})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]candidate, results.Len())
	copy(out, *results)
	return out
}

// selectNeighbors keeps the M closest candidates: a plain closest-M
// heuristic in place of the paper's diversity-pruning heuristic.
func selectNeighbors(cands []candidate, m int) []candidate {
	sortCandidatesByDist(cands)
	if len(cands) > m {
		cands = cands[:m]
	}
	return cands
}

func sortCandidatesByDist(c []candidate) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].dist < c[j-1].dist; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}

func (h *HNSW) InsertEntry(vec []float64, rid types.RID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	level := h.randomLevel()
	idx := len(h.nodes)
	h.nodes = append(h.nodes, hnswNode{rid: rid, vec: vec, neighbors: make([][]int, level+1)})

	if h.entry == -1 {
		h.entry = idx
		h.maxLvl = level
		return
	}

	entry := h.entry
	for l := h.maxLvl; l > level; l-- {
		res := h.searchLayer(vec, []int{entry}, 1, l)
		if len(res) > 0 {
			entry = res[0].idx
		}
	}

	entryPoints := []int{entry}
	for l := min(level, h.maxLvl); l >= 0; l-- {
		cands := h.searchLayer(vec, entryPoints, h.cfg.EfConstruction, l)
		neighbors := selectNeighbors(cands, h.cfg.M)
		for _, n := range neighbors {
			h.nodes[idx].neighbors[l] = append(h.nodes[idx].neighbors[l], n.idx)
			if l < len(h.nodes[n.idx].neighbors) {
				h.nodes[n.idx].neighbors[l] = append(h.nodes[n.idx].neighbors[l], idx)
				if len(h.nodes[n.idx].neighbors[l]) > h.cfg.M {
					trimmed := selectNeighbors(neighborCandidates(h, n.idx, l), h.cfg.M)
					ids := make([]int, len(trimmed))
					for i, t := range trimmed {
						ids[i] = t.idx
					}
					h.nodes[n.idx].neighbors[l] = ids
				}
			}
		}
		entryPoints = neighborIdxs(cands)
	}

	if level > h.maxLvl {
		h.maxLvl = level
		h.entry = idx
	}
}

func neighborCandidates(h *HNSW, idx, layer int) []candidate {
	self := h.nodes[idx].vec
	out := make([]candidate, 0, len(h.nodes[idx].neighbors[layer]))
	for _, nb := range h.nodes[idx].neighbors[layer] {
		out = append(out, candidate{nb, h.dist(self, h.nodes[nb].vec)})
	}
	return out
}

func neighborIdxs(cands []candidate) []int {
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.idx
	}
	return out
}

// ScanVectorKey returns up to k nearest neighbors of query.
func (h *HNSW) ScanVectorKey(query []float64, k int) ([]types.RID, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.entry == -1 {
		return nil, nil
	}

	entry := h.entry
	for l := h.maxLvl; l > 0; l-- {
		res := h.searchLayer(query, []int{entry}, 1, l)
		if len(res) > 0 {
			entry = res[0].idx
		}
	}

	ef := h.cfg.EfSearch
	if ef < k {
		ef = k
	}
	cands := h.searchLayer(query, []int{entry}, ef, 0)
	sortCandidatesByDist(cands)
	if len(cands) > k {
		cands = cands[:k]
	}
	out := make([]types.RID, len(cands))
	for i, c := range cands {
		out[i] = h.nodes[c.idx].rid
	}
	return out, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
