package clustering

import (
	"math"
	"math/rand"

	"semantic-docstore-be/pkg/vectormath"
)

const (
	// defaultSeed keeps every clustering run reproducible. The same input
	// matrix must always produce the same partition.
	defaultSeed = 42

	// defaultRestarts is how many seeded initializations each fit tries,
	// keeping the best (lowest inertia) result.
	defaultRestarts = 10

	// defaultMaxIterations caps Lloyd iterations per restart.
	defaultMaxIterations = 100

	// convergenceTol stops iterating once total center movement drops
	// below this threshold.
	convergenceTol = 1e-6
)

// KMeansResult holds the partition produced by a single Fit call.
type KMeansResult struct {
	// Labels[i] is the cluster assignment of points[i], in [0, K).
	Labels []int

	// Centroids are the final cluster centers, indexed by label.
	Centroids [][]float64

	// Inertia is the sum of squared distances of points to their centers.
	Inertia float64

	K int
}

// KMeans is a seeded k-means++ implementation. All randomness flows from a
// fixed-seed source, so repeated fits over the same matrix are bitwise
// reproducible.
type KMeans struct {
	Seed          int64
	Restarts      int
	MaxIterations int
}

func NewKMeans() *KMeans {
	return &KMeans{
		Seed:          defaultSeed,
		Restarts:      defaultRestarts,
		MaxIterations: defaultMaxIterations,
	}
}

// Fit partitions points into k clusters. Points must be non-empty and
// 1 <= k <= len(points); the caller is responsible for clamping.
func (km *KMeans) Fit(points [][]float64, k int) *KMeansResult {
	rng := rand.New(rand.NewSource(km.Seed))

	best := (*KMeansResult)(nil)
	for r := 0; r < km.Restarts; r++ {
		res := km.runOnce(points, k, rng)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best
}

func (km *KMeans) runOnce(points [][]float64, k int, rng *rand.Rand) *KMeansResult {
	centroids := seedCentroids(points, k, rng)
	labels := make([]int, len(points))

	for iter := 0; iter < km.MaxIterations; iter++ {
		counts := assign(points, centroids, labels)

		next := recompute(points, labels, k, len(points[0]))

		// An emptied cluster takes over the point farthest from its
		// current center. Counts stay live across repairs and donors
		// must keep at least one member, so a repair never empties
		// another cluster within the same iteration.
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				far := farthestPoint(points, labels, counts, next)
				if far < 0 {
					continue
				}
				counts[labels[far]]--
				counts[c]++
				labels[far] = c
				next = recompute(points, labels, k, len(points[0]))
			}
		}

		moved := 0.0
		for c := range centroids {
			moved += vectormath.EuclideanDistance(centroids[c], next[c])
		}
		centroids = next
		if moved < convergenceTol {
			break
		}
	}

	assign(points, centroids, labels)

	inertia := 0.0
	for i, p := range points {
		d := vectormath.EuclideanDistance(p, centroids[labels[i]])
		inertia += d * d
	}

	return &KMeansResult{
		Labels:    labels,
		Centroids: centroids,
		Inertia:   inertia,
		K:         k,
	}
}

// seedCentroids picks initial centers with the k-means++ weighting: the
// first uniformly, the rest proportionally to squared distance from the
// nearest already-chosen center.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := rng.Intn(len(points))
	centroids = append(centroids, cloneVec(points[first]))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if dc := vectormath.EuclideanDistance(p, c); dc < d {
					d = dc
				}
			}
			dists[i] = d * d
			total += dists[i]
		}
		if total == 0 {
			// All remaining points coincide with a chosen center.
			centroids = append(centroids, cloneVec(points[rng.Intn(len(points))]))
			continue
		}
		target := rng.Float64() * total
		acc := 0.0
		chosen := len(points) - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, cloneVec(points[chosen]))
	}
	return centroids
}

func assign(points, centroids [][]float64, labels []int) []int {
	counts := make([]int, len(centroids))
	for i, p := range points {
		bestC := 0
		bestD := math.Inf(1)
		for c, centroid := range centroids {
			if d := vectormath.EuclideanDistance(p, centroid); d < bestD {
				bestD = d
				bestC = c
			}
		}
		labels[i] = bestC
		counts[bestC]++
	}
	return counts
}

func recompute(points [][]float64, labels []int, k, dim int) [][]float64 {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := labels[i]
		counts[c]++
		for j, v := range p {
			sums[c][j] += v
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
	}
	return sums
}

// farthestPoint picks the donor for an empty-cluster repair: the point
// farthest from its assigned center among clusters that can spare one.
// Returns -1 when no cluster has two members.
func farthestPoint(points [][]float64, labels []int, counts []int, centroids [][]float64) int {
	far := -1
	farD := -1.0
	for i, p := range points {
		if counts[labels[i]] < 2 {
			continue
		}
		d := vectormath.EuclideanDistance(p, centroids[labels[i]])
		if d > farD {
			farD = d
			far = i
		}
	}
	return far
}

func cloneVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
