package contract

import (
	"context"

	"semantic-docstore-be/internal/entity"

	"github.com/google/uuid"
)

// DocumentRepository is the authoritative ledger of documents. Creation
// order (created_at, then id as the deterministic tie-break) defines the
// total order behind ordinal addressing.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	// Delete reports whether the document existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// DeleteAll removes every document and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)

	// FindByID returns nil (no error) when the id is absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Document, error)
	// FindAll returns every document in creation order.
	FindAll(ctx context.Context) ([]*entity.Document, error)
	Count(ctx context.Context) (int64, error)

	// OrdinalIndex returns the 1-based rank of id under the creation-order
	// total order, or 0 when the id is absent.
	OrdinalIndex(ctx context.Context, id uuid.UUID) (int, error)
	// FindByOrdinal is the inverse; n outside [1, count] yields nil.
	FindByOrdinal(ctx context.Context, n int) (*entity.Document, error)
	// FindIDsOrdered returns all ids in creation order.
	FindIDsOrdered(ctx context.Context) ([]uuid.UUID, error)
}
