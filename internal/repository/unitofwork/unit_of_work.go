package unitofwork

import (
	"context"

	"semantic-docstore-be/internal/repository/contract"
)

// UnitOfWork scopes ledger and vector-index writes to one transaction so
// the two stores stay in lockstep: a failure between the paired writes is
// rolled back as a whole instead of leaving the index half-updated.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
}
