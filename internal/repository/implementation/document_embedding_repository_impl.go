package implementation

import (
	"context"

	"semantic-docstore-be/internal/entity"
	"semantic-docstore-be/internal/mapper"
	"semantic-docstore-be/internal/model"
	"semantic-docstore-be/internal/repository/contract"
	"semantic-docstore-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentEmbeddingMapper
}

func NewDocumentEmbeddingRepository(db *gorm.DB) contract.DocumentEmbeddingRepository {
	return &DocumentEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentEmbeddingMapper(),
	}
}

func (r *DocumentEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.DocumentEmbedding) error {
	// The unique index on document_id rejects a second embedding for the
	// same document; insert is not upsert.
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentEmbeddingRepositoryImpl) Update(ctx context.Context, embedding *entity.DocumentEmbedding) error {
	m := r.mapper.ToModel(embedding)
	res := r.db.WithContext(ctx).
		Model(&model.DocumentEmbedding{}).
		Where("document_id = ?", m.DocumentId).
		Updates(map[string]interface{}{
			"embedding_value": m.EmbeddingValue,
			"updated_at":      m.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentEmbeddingRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentEmbedding{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DocumentEmbeddingRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.DocumentEmbedding{}).Error
}

func (r *DocumentEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]*contract.ScoredDocumentEmbedding, error) {
	if limit <= 0 {
		return nil, apperror.Inputf("search limit must be positive, got %d", limit)
	}

	// Cosine distance in pgvector: embedding_value <=> query_vector.
	// Similarity is 1 - distance, so ordering by distance ascending is
	// most-similar first.
	type result struct {
		model.DocumentEmbedding
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("document_embeddings").
		Select("document_embeddings.*, embedding_value <=> ? AS distance", queryVector).
		Order("distance ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredDocumentEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredDocumentEmbedding{
			Embedding:  r.mapper.ToEntity(&res.DocumentEmbedding),
			Distance:   res.Distance,
			Similarity: 1 - res.Distance,
		}
	}
	return scored, nil
}

func (r *DocumentEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentEmbedding{}).Count(&count).Error
	return count, err
}

func (r *DocumentEmbeddingRepositoryImpl) FindAll(ctx context.Context) ([]*entity.DocumentEmbedding, error) {
	var models []*model.DocumentEmbedding
	// created_at with id as tie-break keeps the snapshot order stable,
	// which clustering relies on for reproducible tie-breaking.
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentEmbeddingRepositoryImpl) FindDocumentIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.DocumentEmbedding{}).Pluck("document_id", &ids).Error
	return ids, err
}
