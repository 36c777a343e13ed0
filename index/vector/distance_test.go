package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestL2DistanceZeroForIdenticalVectors(t *testing.T) {
	d, err := Distance(L2, []float64{1, 2, 3}, []float64{1, 2, 3})
	assert.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-9)
}

func TestL2DistanceKnownValue(t *testing.T) {
	d, err := Distance(L2, []float64{0, 0}, []float64{3, 4})
	assert.NoError(t, err)
	assert.InDelta(t, 5, d, 1e-9)
}

func TestNegativeInnerProductOrdersMostSimilarFirst(t *testing.T) {
	query := []float64{1, 0}
	close, err := Distance(NegativeInnerProduct, query, []float64{1, 0})
	assert.NoError(t, err)
	far, err := Distance(NegativeInnerProduct, query, []float64{0.1, 0})
	assert.NoError(t, err)
	assert.Less(t, close, far)
}

func TestCosineDistanceOfParallelVectorsIsZero(t *testing.T) {
	d, err := Distance(Cosine, []float64{2, 0}, []float64{5, 0})
	assert.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-9)
}

func TestCosineDistanceOfOrthogonalVectorsIsOne(t *testing.T) {
	d, err := Distance(Cosine, []float64{1, 0}, []float64{0, 1})
	assert.NoError(t, err)
	assert.InDelta(t, 1, d, 1e-9)
}

func TestDistanceDimensionMismatch(t *testing.T) {
	_, err := Distance(L2, []float64{1, 2}, []float64{1})
	assert.Error(t, err)
}

func TestDistanceSIMDMatchesScalarPath(t *testing.T) {
	query := []float64{1, 1}
	candidates := [][]float64{{1, 1}, {2, 2}, {0, 0}}
	got, err := distanceSIMD(L2, query, candidates)
	assert.NoError(t, err)
	for i, c := range candidates {
		want, _ := Distance(L2, query, c)
		assert.InDelta(t, want, got[i], 1e-9)
	}
}
