package implementation

import (
	"context"
	"errors"

	"semantic-docstore-be/internal/entity"
	"semantic-docstore-be/internal/mapper"
	"semantic-docstore-be/internal/model"
	"semantic-docstore-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

// creationOrder is the total order behind ordinal addressing. The id column
// breaks created_at ties deterministically.
const creationOrder = "created_at ASC, id ASC"

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	// Select("*") forces a full-row update; a struct Updates would skip
	// zero-value fields and clearing tags or content would not persist.
	res := r.db.WithContext(ctx).Model(&model.Document{}).Where("id = ?", m.Id).Select("*").Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Document{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DocumentRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Document{})
	return res.RowsAffected, res.Error
}

func (r *DocumentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var m model.Document
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Document, error) {
	var models []*model.Document
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Document, error) {
	var models []*model.Document
	if err := r.db.WithContext(ctx).Order(creationOrder).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Document{}).Count(&count).Error
	return count, err
}

func (r *DocumentRepositoryImpl) OrdinalIndex(ctx context.Context, id uuid.UUID) (int, error) {
	ids, err := r.FindIDsOrdered(ctx)
	if err != nil {
		return 0, err
	}
	for i, candidate := range ids {
		if candidate == id {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (r *DocumentRepositoryImpl) FindByOrdinal(ctx context.Context, n int) (*entity.Document, error) {
	if n < 1 {
		return nil, nil
	}
	var m model.Document
	err := r.db.WithContext(ctx).Order(creationOrder).Offset(n - 1).Limit(1).Find(&m).Error
	if err != nil {
		return nil, err
	}
	if m.Id == uuid.Nil {
		return nil, nil
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindIDsOrdered(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Document{}).Order(creationOrder).Pluck("id", &ids).Error
	return ids, err
}
