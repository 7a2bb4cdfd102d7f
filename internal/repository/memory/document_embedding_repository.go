package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"semantic-docstore-be/internal/entity"
	"semantic-docstore-be/internal/repository/contract"
	"semantic-docstore-be/pkg/apperror"
	"semantic-docstore-be/pkg/vectormath"

	"github.com/google/uuid"
)

var (
	errDuplicateID = errors.New("record already exists")
	errNotFound    = errors.New("record not found")
)

// DocumentEmbeddingRepository is an in-memory brute-force vector index.
// Entries keep insertion order, which doubles as the stable tie-break for
// equal distances, matching the determinism the search and cluster engines
// expect from the real index.
type DocumentEmbeddingRepository struct {
	mu      sync.RWMutex
	entries []*entity.DocumentEmbedding // insertion order
	byDoc   map[uuid.UUID]int           // documentId -> entries index
}

func NewDocumentEmbeddingRepository() *DocumentEmbeddingRepository {
	return &DocumentEmbeddingRepository{
		byDoc: make(map[uuid.UUID]int),
	}
}

func (r *DocumentEmbeddingRepository) Create(ctx context.Context, embedding *entity.DocumentEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byDoc[embedding.DocumentId]; exists {
		return errDuplicateID
	}
	cp := cloneEmbedding(embedding)
	r.byDoc[embedding.DocumentId] = len(r.entries)
	r.entries = append(r.entries, cp)
	return nil
}

func (r *DocumentEmbeddingRepository) Update(ctx context.Context, embedding *entity.DocumentEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byDoc[embedding.DocumentId]
	if !ok {
		return errNotFound
	}
	cp := cloneEmbedding(embedding)
	cp.Id = r.entries[idx].Id
	cp.CreatedAt = r.entries[idx].CreatedAt
	r.entries[idx] = cp
	return nil
}

func (r *DocumentEmbeddingRepository) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byDoc[documentId]
	if !ok {
		return false, nil
	}
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	delete(r.byDoc, documentId)
	for i := idx; i < len(r.entries); i++ {
		r.byDoc[r.entries[i].DocumentId] = i
	}
	return true, nil
}

func (r *DocumentEmbeddingRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.byDoc = make(map[uuid.UUID]int)
	return nil
}

func (r *DocumentEmbeddingRepository) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]*contract.ScoredDocumentEmbedding, error) {
	if limit <= 0 {
		return nil, apperror.Inputf("search limit must be positive, got %d", limit)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	query := vectormath.Normalize(vectormath.Sanitize(vectormath.ToFloat64(vector)))

	type hit struct {
		idx      int
		distance float64
	}
	hits := make([]hit, len(r.entries))
	for i, e := range r.entries {
		stored := vectormath.Normalize(vectormath.Sanitize(vectormath.ToFloat64(e.EmbeddingValue)))
		hits[i] = hit{idx: i, distance: vectormath.CosineDistance(stored, query)}
	}

	// Stable sort keeps insertion order for equal distances.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].distance < hits[j].distance
	})

	if limit > len(hits) {
		limit = len(hits)
	}
	scored := make([]*contract.ScoredDocumentEmbedding, limit)
	for i := 0; i < limit; i++ {
		h := hits[i]
		scored[i] = &contract.ScoredDocumentEmbedding{
			Embedding:  cloneEmbedding(r.entries[h.idx]),
			Distance:   h.distance,
			Similarity: 1 - h.distance,
		}
	}
	return scored, nil
}

func (r *DocumentEmbeddingRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entries)), nil
}

func (r *DocumentEmbeddingRepository) FindAll(ctx context.Context) ([]*entity.DocumentEmbedding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.DocumentEmbedding, len(r.entries))
	for i, e := range r.entries {
		out[i] = cloneEmbedding(e)
	}
	return out, nil
}

func (r *DocumentEmbeddingRepository) FindDocumentIDs(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.DocumentId
	}
	return ids, nil
}

func (r *DocumentEmbeddingRepository) snapshot() []*entity.DocumentEmbedding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make([]*entity.DocumentEmbedding, len(r.entries))
	for i, e := range r.entries {
		snap[i] = cloneEmbedding(e)
	}
	return snap
}

func (r *DocumentEmbeddingRepository) restore(snap []*entity.DocumentEmbedding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = snap
	r.byDoc = make(map[uuid.UUID]int, len(snap))
	for i, e := range snap {
		r.byDoc[e.DocumentId] = i
	}
}

func cloneEmbedding(e *entity.DocumentEmbedding) *entity.DocumentEmbedding {
	cp := *e
	cp.EmbeddingValue = make([]float32, len(e.EmbeddingValue))
	copy(cp.EmbeddingValue, e.EmbeddingValue)
	return &cp
}

var _ contract.DocumentEmbeddingRepository = (*DocumentEmbeddingRepository)(nil)
