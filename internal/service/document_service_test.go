package service

import (
	"context"
	"testing"

	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/internal/repository/contract"
	"semantic-docstore-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDoc(t *testing.T, h *harness, title, content, tags string) uuid.UUID {
	t.Helper()
	res, err := h.documents.Create(context.Background(), &dto.CreateDocumentRequest{
		Title:   title,
		Content: content,
		Tags:    tags,
	})
	require.NoError(t, err)
	return res.Id
}

func TestDocumentCreateWritesBothStores(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.provider.on("cats", []float32{1, 0, 0, 0})

	id := createDoc(t, h, "Cats", "All about cats.", "animals")
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, 1, h.provider.calls)

	stats, err := h.documents.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDocuments)
	assert.Equal(t, int64(1), stats.IndexSize)
	assert.Equal(t, "stub-model", stats.Model)
	assert.Equal(t, 4, stats.EmbeddingDimension)
}

func TestDocumentCreateProviderDownLeavesNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.provider.failWith = errModelDown

	_, err := h.documents.Create(ctx, &dto.CreateDocumentRequest{Title: "t", Content: "c"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindModelUnavailable))

	stats, err := h.documents.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalDocuments)
	assert.Equal(t, int64(0), stats.IndexSize)
}

func TestDocumentCreateIndexFailureRollsBackLedger(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.factory.WrapEmbeddings = func(inner contract.DocumentEmbeddingRepository) contract.DocumentEmbeddingRepository {
		return &failingEmbeddings{DocumentEmbeddingRepository: inner}
	}

	_, err := h.documents.Create(ctx, &dto.CreateDocumentRequest{Title: "t", Content: "c"})
	require.Error(t, err)

	// The ledger write preceding the failed index write must be undone.
	h.factory.WrapEmbeddings = nil
	consistency, err := h.documents.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.True(t, consistency.Consistent)
	assert.Equal(t, int64(0), consistency.DocumentCount)
}

func TestDocumentOrdinalAddressing(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	first := createDoc(t, h, "first", "alpha", "")
	second := createDoc(t, h, "second", "beta", "")
	third := createDoc(t, h, "third", "gamma", "")

	t.Run("Show carries ordinal", func(t *testing.T) {
		res, err := h.documents.Show(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, 2, res.OrdinalIndex)
	})

	t.Run("GetByOrdinal", func(t *testing.T) {
		res, err := h.documents.GetByOrdinal(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, first, res.Id)

		res, err = h.documents.GetByOrdinal(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, third, res.Id)
	})

	t.Run("Out of range", func(t *testing.T) {
		_, err := h.documents.GetByOrdinal(ctx, 0)
		assert.True(t, apperror.IsKind(err, apperror.KindInput))

		_, err = h.documents.GetByOrdinal(ctx, 4)
		assert.True(t, apperror.IsKind(err, apperror.KindInput))
	})

	t.Run("Deletion shifts later ordinals down", func(t *testing.T) {
		require.NoError(t, h.documents.Delete(ctx, first))

		res, err := h.documents.GetByOrdinal(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, second, res.Id)

		res, err = h.documents.GetByOrdinal(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, third, res.Id)
	})
}

func TestDocumentUpdateReembedsOnlyOnContentChange(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	id := createDoc(t, h, "title", "original content", "")
	callsAfterCreate := h.provider.calls

	t.Run("Title-only update keeps vector", func(t *testing.T) {
		newTitle := "new title"
		res, err := h.documents.Update(ctx, &dto.UpdateDocumentRequest{Id: id, Title: &newTitle})
		require.NoError(t, err)
		assert.False(t, res.Reembedded)
		assert.Equal(t, callsAfterCreate, h.provider.calls)
	})

	t.Run("Content update regenerates", func(t *testing.T) {
		newContent := "completely different content"
		res, err := h.documents.Update(ctx, &dto.UpdateDocumentRequest{Id: id, Content: &newContent})
		require.NoError(t, err)
		assert.True(t, res.Reembedded)
		assert.Equal(t, callsAfterCreate+1, h.provider.calls)
	})

	t.Run("Missing document", func(t *testing.T) {
		title := "x"
		_, err := h.documents.Update(ctx, &dto.UpdateDocumentRequest{Id: uuid.New(), Title: &title})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}

func TestDocumentRename(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	id := createDoc(t, h, "old", "content", "")
	callsAfterCreate := h.provider.calls

	require.NoError(t, h.documents.Rename(ctx, &dto.RenameDocumentRequest{Id: id, NewTitle: "new"}))

	res, err := h.documents.Show(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", res.Title)
	assert.Equal(t, callsAfterCreate, h.provider.calls, "rename must not touch the model")
}

func TestDocumentDeleteRemovesBothStores(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	id := createDoc(t, h, "t", "c", "")

	require.NoError(t, h.documents.Delete(ctx, id))

	stats, err := h.documents.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalDocuments)
	assert.Equal(t, int64(0), stats.IndexSize)

	err = h.documents.Delete(ctx, id)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDocumentClear(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	createDoc(t, h, "a", "one", "")
	createDoc(t, h, "b", "two", "")

	res, err := h.documents.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Removed)

	list, err := h.documents.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDocumentImportContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	res, err := h.documents.Import(ctx, &dto.ImportDocumentsRequest{
		Documents: []dto.CreateDocumentRequest{
			{Title: "a", Content: "alpha"},
			{Title: "b", Content: "beta"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, res.Results, 2)
	assert.NotNil(t, res.Results[0].Id)
}

func TestDocumentListOrdinals(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	createDoc(t, h, "a", "one", "")
	createDoc(t, h, "b", "two", "")

	list, err := h.documents.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].OrdinalIndex)
	assert.Equal(t, "a", list[0].Title)
	assert.Equal(t, 2, list[1].OrdinalIndex)
}

func TestConsistencyReportsDrift(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	id := createDoc(t, h, "a", "one", "")

	// Reach underneath the services to break the pairing.
	existed, err := h.factory.Embeddings.DeleteByDocumentId(ctx, id)
	require.NoError(t, err)
	require.True(t, existed)

	res, err := h.documents.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.False(t, res.Consistent)
	assert.Equal(t, []uuid.UUID{id}, res.MissingEmbeddings)
	assert.Empty(t, res.OrphanedVectors)
}
