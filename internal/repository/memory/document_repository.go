package memory

import (
	"context"
	"sort"
	"sync"

	"semantic-docstore-be/internal/entity"
	"semantic-docstore-be/internal/repository/contract"

	"github.com/google/uuid"
)

// DocumentRepository is an in-memory ledger used by unit tests and local
// tooling. Semantics mirror the GORM implementation, including the
// created_at-then-id total order.
type DocumentRepository struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*entity.Document
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		docs: make(map[uuid.UUID]*entity.Document),
	}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[doc.Id]; exists {
		return errDuplicateID
	}
	cp := *doc
	r.docs[doc.Id] = &cp
	return nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.docs[doc.Id]
	if !ok {
		return errNotFound
	}
	cp := *doc
	cp.CreatedAt = existing.CreatedAt
	r.docs[doc.Id] = &cp
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return false, nil
	}
	delete(r.docs, id)
	return true, nil
}

func (r *DocumentRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.docs))
	r.docs = make(map[uuid.UUID]*entity.Document)
	return n, nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

func (r *DocumentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := r.docs[id]; ok {
			cp := *doc
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *DocumentRepository) FindAll(ctx context.Context) ([]*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orderedLocked(), nil
}

func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.docs)), nil
}

func (r *DocumentRepository) OrdinalIndex(ctx context.Context, id uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, doc := range r.orderedLocked() {
		if doc.Id == id {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (r *DocumentRepository) FindByOrdinal(ctx context.Context, n int) (*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ordered := r.orderedLocked()
	if n < 1 || n > len(ordered) {
		return nil, nil
	}
	return ordered[n-1], nil
}

func (r *DocumentRepository) FindIDsOrdered(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ordered := r.orderedLocked()
	ids := make([]uuid.UUID, len(ordered))
	for i, doc := range ordered {
		ids[i] = doc.Id
	}
	return ids, nil
}

func (r *DocumentRepository) orderedLocked() []*entity.Document {
	out := make([]*entity.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		cp := *doc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Id.String() < out[j].Id.String()
	})
	return out
}

// snapshot and restore support the memory unit of work's rollback.

func (r *DocumentRepository) snapshot() map[uuid.UUID]*entity.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make(map[uuid.UUID]*entity.Document, len(r.docs))
	for id, doc := range r.docs {
		cp := *doc
		snap[id] = &cp
	}
	return snap
}

func (r *DocumentRepository) restore(snap map[uuid.UUID]*entity.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = snap
}

var _ contract.DocumentRepository = (*DocumentRepository)(nil)
