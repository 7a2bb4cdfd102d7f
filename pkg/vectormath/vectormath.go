package vectormath

import "math"

// Sanitize replaces NaN and infinite components with 0 in place and returns
// the slice. Embeddings coming back from remote providers occasionally carry
// garbage values that would poison every distance computation downstream.
func Sanitize(vec []float64) []float64 {
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			vec[i] = 0
		}
	}
	return vec
}

// Normalize scales vec to unit length in place and returns it. A zero-norm
// vector is left untouched (divisor substituted with 1) so callers never
// divide by zero.
func Normalize(vec []float64) []float64 {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = 1
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// CosineDistance is 1 - cosine similarity. Both inputs are expected to be
// sanitized and normalized; the dot product then IS the cosine.
func CosineDistance(a, b []float64) float64 {
	return 1 - Dot(a, b)
}

func EuclideanDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// ToFloat64 widens a float32 embedding for numeric work.
func ToFloat64(vec []float32) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = float64(v)
	}
	return out
}

// ToFloat32 narrows back for storage.
func ToFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
