package service

import (
	"context"
	"testing"

	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTwoTopics creates two tight groups of documents: animals near the
// first axis, space near the second.
func seedTwoTopics(t *testing.T, h *harness) (animals, space []uuid.UUID) {
	t.Helper()
	h.provider.
		on("cats", []float32{1, 0, 0, 0}).
		on("dogs", []float32{0.9, 0.1, 0, 0}).
		on("birds", []float32{0.95, 0.03, 0.02, 0}).
		on("stars", []float32{0, 1, 0, 0}).
		on("moons", []float32{0.1, 0.9, 0, 0}).
		on("comets", []float32{0.05, 0.92, 0.03, 0})

	animals = append(animals,
		createDoc(t, h, "Cats", "About cats.", "animals, pets"),
		createDoc(t, h, "Dogs", "About dogs.", "animals, pets"),
		createDoc(t, h, "Birds", "About birds.", "animals"),
	)
	space = append(space,
		createDoc(t, h, "Stars", "About stars.", "space"),
		createDoc(t, h, "Moons", "About moons.", "space"),
		createDoc(t, h, "Comets", "About comets.", "space"),
	)
	return animals, space
}

func memberIds(cluster dto.ClusterResponse) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool)
	for _, m := range cluster.Documents {
		ids[m.Id] = true
	}
	return ids
}

func TestClusterSeparatesTopics(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	animals, space := seedTwoTopics(t, h)

	two := 2
	report, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{NumClusters: &two})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 2)
	assert.Equal(t, 2, report.NumClusters)
	assert.Equal(t, 6, report.TotalDocuments)
	assert.Greater(t, report.SilhouetteScore, 0.5)

	// Each topic must land whole in one cluster.
	for _, cluster := range report.Clusters {
		ids := memberIds(cluster)
		if ids[animals[0]] {
			for _, id := range animals {
				assert.True(t, ids[id])
			}
		} else {
			for _, id := range space {
				assert.True(t, ids[id])
			}
		}
		assert.Equal(t, 3, cluster.Size)
	}
}

func TestClusterNamesFromTagConsensus(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	seedTwoTopics(t, h)

	two := 2
	report, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{NumClusters: &two})
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, cluster := range report.Clusters {
		names[cluster.ClusterName] = true
	}
	// "animals" covers 3/3, "pets" only 2/3; both clear the half-of-members
	// bar, most frequent first.
	assert.True(t, names["Animals + Pets"], "got names %v", names)
	assert.True(t, names["Space"], "got names %v", names)
}

func TestClusterRepresentativeIsMember(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	seedTwoTopics(t, h)

	report, err := h.clusters.GetOrCompute(ctx)
	require.NoError(t, err)

	for _, cluster := range report.Clusters {
		assert.True(t, memberIds(cluster)[cluster.RepresentativeDocumentId],
			"representative must belong to its own cluster")
	}
}

func TestClusterAutoKPicksTwo(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	seedTwoTopics(t, h)

	report, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.NumClusters, "silhouette sweep should find the two topics")
}

func TestClusterDeterministic(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	seedTwoTopics(t, h)

	a, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{})
	require.NoError(t, err)
	b, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestClusterTooFewDocuments(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	t.Run("Empty", func(t *testing.T) {
		_, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{})
		assert.True(t, apperror.IsKind(err, apperror.KindInput))
	})

	t.Run("Single document", func(t *testing.T) {
		createDoc(t, h, "only", "just one", "")
		_, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{})
		assert.True(t, apperror.IsKind(err, apperror.KindInput))
	})

	t.Run("Two documents get one cluster", func(t *testing.T) {
		createDoc(t, h, "second", "and another", "")
		report, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{})
		require.NoError(t, err)
		// The sweep range [2, 10) excludes every k < n, so the count
		// degrades to n-1 = 1.
		assert.Equal(t, 1, report.NumClusters)
	})
}

func TestClusterRequestedKClamped(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	seedTwoTopics(t, h)

	ten := 10
	report, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{NumClusters: &ten})
	require.NoError(t, err)
	assert.Equal(t, 5, report.NumClusters, "k is clamped to n-1")
}

func TestClusterCoincidentVectorsKeepReportConsistent(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	// Three identical vectors collapse onto one centroid, so a requested
	// k above the number of distinct points leaves labels with no members.
	h.provider.
		on("alpha", []float32{1, 0, 0, 0}).
		on("omega", []float32{0, 0, 0, 1})
	for i := 0; i < 3; i++ {
		createDoc(t, h, "Alpha", "alpha alpha", "copies")
	}
	createDoc(t, h, "Omega", "omega", "distinct")
	createDoc(t, h, "Omega II", "omega omega", "distinct")

	four := 4
	report, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{NumClusters: &four})
	require.NoError(t, err)

	assert.Equal(t, len(report.Clusters), report.NumClusters,
		"reported count matches the clusters actually present")
	total := 0
	for i, cluster := range report.Clusters {
		assert.Equal(t, i, cluster.ClusterId, "ids stay contiguous")
		assert.NotEmpty(t, cluster.Documents)
		total += cluster.Size
	}
	assert.Equal(t, 5, total, "every document lands in exactly one cluster")
}

func TestClusterMemoInvalidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	seedTwoTopics(t, h)

	first, err := h.clusters.GetOrCompute(ctx)
	require.NoError(t, err)

	cached, ok := h.clusters.CachedReport(ctx)
	require.True(t, ok)
	assert.Equal(t, first, cached)

	// Any mutation drops the memo.
	createDoc(t, h, "Planets", "About comets.", "space")
	_, ok = h.clusters.CachedReport(ctx)
	assert.False(t, ok)

	refreshed, err := h.clusters.GetOrCompute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, refreshed.TotalDocuments)
}
