package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarityIdentical(t *testing.T) {
	v := []float64{1, 2, 3}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityOpposite(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{-1, 0}
	assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	a := []float64{0, 0, 0}
	b := []float64{1, 2, 3}
	assert.Equal(t, 0.0, CosineSimilarity(a, b))
	assert.Equal(t, 0.0, CosineSimilarity(b, a))
	assert.Equal(t, 0.0, CosineSimilarity(a, a))
}

func TestCosineSimilarityRange(t *testing.T) {
	vectors := [][]float64{
		{1, 2, 3, 4},
		{-1, 5, -2, 8},
		{0.1, 0.2, -0.3, 0.4},
		{100, -100, 50, -50},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			sim := CosineSimilarity(a, b)
			assert.GreaterOrEqual(t, sim, -1.0000001)
			assert.LessOrEqual(t, sim, 1.0000001)
		}
	}
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float64{3, 4}), 1e-9)
	assert.Equal(t, 0.0, Norm(nil))
}

func TestAllFinite(t *testing.T) {
	assert.True(t, AllFinite([]float64{1, -2, 0.5}))
	assert.False(t, AllFinite([]float64{1, math.NaN()}))
	assert.False(t, AllFinite([]float64{math.Inf(1)}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(500, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}
