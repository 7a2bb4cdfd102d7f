package contract

import (
	"context"

	"semantic-docstore-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredDocumentEmbedding is one nearest-neighbor hit. Similarity is
// 1 - cosine_distance, so higher means more similar.
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Distance   float64
	Similarity float64
}

// DocumentEmbeddingRepository is the vector index: one embedding per
// document, nearest-neighbor queries ordered most-similar first.
type DocumentEmbeddingRepository interface {
	// Create fails when the document already has an embedding.
	Create(ctx context.Context, embedding *entity.DocumentEmbedding) error
	// Update fails when the document has no embedding yet.
	Update(ctx context.Context, embedding *entity.DocumentEmbedding) error
	// DeleteByDocumentId reports whether an embedding existed.
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) (bool, error)
	DeleteAll(ctx context.Context) error

	// SearchSimilar returns up to limit hits ascending by cosine distance.
	// A non-positive limit is an input error. Ties keep the index's own
	// stable order within a single call.
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]*ScoredDocumentEmbedding, error)
	Count(ctx context.Context) (int64, error)
	// FindAll returns every stored embedding in the index's internal
	// (insertion) order; clustering reads its snapshot through this.
	FindAll(ctx context.Context) ([]*entity.DocumentEmbedding, error)
	// FindDocumentIDs supports the consistency check against the ledger.
	FindDocumentIDs(ctx context.Context) ([]uuid.UUID, error)
}
