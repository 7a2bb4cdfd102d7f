package service

import (
	"context"
	"testing"

	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRanksByMeaning(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.provider.
		on("cats", []float32{1, 0, 0, 0}).
		on("kittens", []float32{0.95, 0.05, 0, 0}).
		on("stars", []float32{0, 1, 0, 0}).
		on("bread", []float32{0, 0, 1, 0})

	catsId := createDoc(t, h, "Cats", "A study of cats.", "animals")
	createDoc(t, h, "Astronomy", "Mapping the stars.", "science")
	createDoc(t, h, "Baking", "How to make bread.", "cooking")

	results, err := h.search.Search(ctx, &dto.SearchRequest{Query: "kittens", Limit: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, catsId, results[0].Id)
	assert.Greater(t, results[0].SimilarityScore, results[1].SimilarityScore)
	assert.Equal(t, 1, results[0].OrdinalIndex)
}

func TestSearchEmptyCollectionSkipsModel(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	// Even a dead model must not break searching an empty store.
	h.provider.failWith = errModelDown

	results, err := h.search.Search(ctx, &dto.SearchRequest{Query: "anything"})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, h.provider.calls)
}

func TestSearchLimitClampedToCollection(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	createDoc(t, h, "only", "single document", "")

	results, err := h.search.Search(ctx, &dto.SearchRequest{Query: "single", Limit: 50})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchDefaultLimit(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	for i := 0; i < 7; i++ {
		createDoc(t, h, "doc", "filler content", "")
	}

	results, err := h.search.Search(ctx, &dto.SearchRequest{Query: "filler"})
	require.NoError(t, err)
	assert.Len(t, results, defaultSearchLimit)
}

func TestSearchNegativeLimit(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	createDoc(t, h, "a", "b", "")

	_, err := h.search.Search(ctx, &dto.SearchRequest{Query: "b", Limit: -1})
	assert.True(t, apperror.IsKind(err, apperror.KindInput))
}

func TestSearchClusterEnrichmentFromMemoOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.provider.
		on("cats", []float32{1, 0, 0, 0}).
		on("dogs", []float32{0.9, 0.1, 0, 0}).
		on("stars", []float32{0, 1, 0, 0}).
		on("moons", []float32{0.1, 0.9, 0, 0})

	createDoc(t, h, "Cats", "About cats.", "animals")
	createDoc(t, h, "Dogs", "About dogs.", "animals")
	createDoc(t, h, "Stars", "About stars.", "space")
	createDoc(t, h, "Moons", "About moons.", "space")

	t.Run("Cold memo leaves assignments empty", func(t *testing.T) {
		results, err := h.search.Search(ctx, &dto.SearchRequest{Query: "cats", Limit: 1})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Nil(t, results[0].ClusterId)
		assert.Nil(t, results[0].ClusterName)
	})

	t.Run("Warm memo attaches assignment", func(t *testing.T) {
		two := 2
		_, err := h.clusters.Cluster(ctx, &dto.ClusterRequest{NumClusters: &two})
		require.NoError(t, err)

		results, err := h.search.Search(ctx, &dto.SearchRequest{Query: "cats", Limit: 1})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NotNil(t, results[0].ClusterId)
		require.NotNil(t, results[0].ClusterName)
		assert.Equal(t, "Animals", *results[0].ClusterName)
	})
}
