package clustering

import (
	"math"

	"semantic-docstore-be/pkg/vectormath"
)

// Silhouette returns the mean silhouette coefficient of the partition,
// in [-1, 1], higher meaning tighter and better-separated clusters.
//
// Degenerate partitions (k < 2 or k >= number of points) score 0 rather
// than erroring, so callers can treat the value uniformly during k search.
// A point alone in its cluster contributes 0, the usual convention.
func Silhouette(points [][]float64, labels []int) float64 {
	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	n := len(points)
	if k < 2 || k >= n {
		return 0
	}

	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	total := 0.0
	for i, p := range points {
		own := labels[i]
		if sizes[own] <= 1 {
			continue // contributes 0
		}

		// Mean distance to every cluster.
		sums := make([]float64, k)
		for j, q := range points {
			if i == j {
				continue
			}
			sums[labels[j]] += vectormath.EuclideanDistance(p, q)
		}

		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			if m := sums[c] / float64(sizes[c]); m < b {
				b = m
			}
		}

		denom := math.Max(a, b)
		if denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(n)
}
