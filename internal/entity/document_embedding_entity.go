package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentEmbedding is the vector-index entry paired with one Document.
// The two records are written in the same transaction and must agree on
// DocumentId membership at every quiescent point.
type DocumentEmbedding struct {
	Id             uuid.UUID
	DocumentId     uuid.UUID
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
