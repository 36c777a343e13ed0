// Package vector implements the approximate-nearest-neighbor index
// substrate: shared distance kernels, an HNSW graph index, and an IVFFlat
// inverted-list index.
package vector

import (
	"fmt"
	"math"
)

// Kind selects which distance function an index or VectorDistance
// expression uses.
type Kind int

const (
	L2 Kind = iota
	NegativeInnerProduct
	Cosine
)

func (k Kind) String() string {
	switch k {
	case L2:
		return "l2"
	case NegativeInnerProduct:
		return "inner_product"
	case Cosine:
		return "cosine"
	default:
		return "unknown"
	}
}

// Distance computes the distance between a and b under kind. Smaller is
// always "closer", including for NegativeInnerProduct, where the raw dot
// product is negated so that top-k-by-ascending-distance still means
// most-similar-first.
func Distance(kind Kind, a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: dimension mismatch %d != %d", len(a), len(b))
	}
	switch kind {
	case L2:
		return l2(a, b), nil
	case NegativeInnerProduct:
		return -innerProduct(a, b), nil
	case Cosine:
		return cosineDistance(a, b), nil
	default:
		return 0, fmt.Errorf("vector: unknown distance kind %d", kind)
	}
}

func l2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func innerProduct(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func cosineDistance(a, b []float64) float64 {
	dot := innerProduct(a, b)
	na := math.Sqrt(innerProduct(a, a))
	nb := math.Sqrt(innerProduct(b, b))
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(na*nb)
}

// distanceSIMD is the batch entry point IVFFlat.ScanVectorKey routes through
// when session.Config's simd_enabled flag is set: it computes one
// query-to-many-candidates pass in a single call so a future build tagged
// with real SIMD intrinsics has a single seam to replace. Pure Go has no
// portable SIMD without cgo or assembly, so today this is a plain loop over
// Distance.
func distanceSIMD(kind Kind, query []float64, candidates [][]float64) ([]float64, error) {
	out := make([]float64, len(candidates))
	for i, c := range candidates {
		d, err := Distance(kind, query, c)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
