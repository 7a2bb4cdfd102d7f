package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type DocumentEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DocumentId     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"` // one embedding per document
	EmbeddingValue pgvector.Vector `gorm:"type:vector(384)"`               // all-MiniLM-L6-v2 class models use 384 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      *time.Time
}

func (DocumentEmbedding) TableName() string {
	return "document_embeddings"
}
