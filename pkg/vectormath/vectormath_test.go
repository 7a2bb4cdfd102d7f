package vectormath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	v := []float64{1, math.NaN(), math.Inf(1), math.Inf(-1), -2}
	got := Sanitize(v)
	assert.Equal(t, []float64{1, 0, 0, 0, -2}, got)
}

func TestNormalize(t *testing.T) {
	t.Run("Unit norm", func(t *testing.T) {
		got := Normalize([]float64{3, 4})
		assert.InDelta(t, 0.6, got[0], 1e-9)
		assert.InDelta(t, 0.8, got[1], 1e-9)

		norm := math.Sqrt(got[0]*got[0] + got[1]*got[1])
		assert.InDelta(t, 1.0, norm, 1e-9)
	})

	t.Run("Zero vector stays zero", func(t *testing.T) {
		got := Normalize([]float64{0, 0, 0})
		assert.Equal(t, []float64{0, 0, 0}, got)
	})
}

func TestCosineDistance(t *testing.T) {
	a := Normalize([]float64{1, 0})
	b := Normalize([]float64{0, 1})
	c := Normalize([]float64{1, 0})

	// Orthogonal unit vectors are at distance 1, identical ones at 0.
	assert.InDelta(t, 1.0, CosineDistance(a, b), 1e-9)
	assert.InDelta(t, 0.0, CosineDistance(a, c), 1e-9)

	opposite := Normalize([]float64{-1, 0})
	assert.InDelta(t, 2.0, CosineDistance(a, opposite), 1e-9)
}

func TestEuclideanDistance(t *testing.T) {
	assert.InDelta(t, 5.0, EuclideanDistance([]float64{0, 0}, []float64{3, 4}), 1e-9)
	assert.InDelta(t, 0.0, EuclideanDistance([]float64{1, 2}, []float64{1, 2}), 1e-9)
}

func TestFloatConversions(t *testing.T) {
	f32 := []float32{1.5, -2.25}
	f64 := ToFloat64(f32)
	assert.Equal(t, []float64{1.5, -2.25}, f64)
	assert.Equal(t, f32, ToFloat32(f64))
}
