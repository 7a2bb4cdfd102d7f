package memory

import (
	"context"
	"fmt"

	"semantic-docstore-be/internal/entity"
	"semantic-docstore-be/internal/repository/contract"
	"semantic-docstore-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// RepositoryFactory wires the shared in-memory stores into units of work.
// Rollback restores a snapshot taken at Begin, approximating the database
// transaction the GORM factory provides.
type RepositoryFactory struct {
	Documents  *DocumentRepository
	Embeddings *DocumentEmbeddingRepository

	// WrapEmbeddings lets tests substitute a failing decorator around the
	// embedding repository to exercise partial-write handling.
	WrapEmbeddings func(contract.DocumentEmbeddingRepository) contract.DocumentEmbeddingRepository
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{
		Documents:  NewDocumentRepository(),
		Embeddings: NewDocumentEmbeddingRepository(),
	}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	var embeddings contract.DocumentEmbeddingRepository = f.Embeddings
	if f.WrapEmbeddings != nil {
		embeddings = f.WrapEmbeddings(f.Embeddings)
	}
	return &UnitOfWork{
		factory:    f,
		embeddings: embeddings,
	}
}

type UnitOfWork struct {
	factory    *RepositoryFactory
	embeddings contract.DocumentEmbeddingRepository

	inTx     bool
	docSnap  map[uuid.UUID]*entity.Document
	embSnap  []*entity.DocumentEmbedding
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.docSnap = u.factory.Documents.snapshot()
	u.embSnap = u.factory.Embeddings.snapshot()
	u.inTx = true
	return nil
}

func (u *UnitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	u.docSnap = nil
	u.embSnap = nil
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.factory.Documents.restore(u.docSnap)
	u.factory.Embeddings.restore(u.embSnap)
	u.inTx = false
	u.docSnap = nil
	u.embSnap = nil
	return nil
}

func (u *UnitOfWork) DocumentRepository() contract.DocumentRepository {
	return u.factory.Documents
}

func (u *UnitOfWork) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return u.embeddings
}

var _ unitofwork.RepositoryFactory = (*RepositoryFactory)(nil)
