package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"type:text;not null"`
	Content   string    `gorm:"type:text;not null"`
	DocType   string    `gorm:"type:varchar(32)"`
	Tags      string    `gorm:"type:text"`
	Source    string    `gorm:"type:text"`
	Authors   string    `gorm:"type:text"`
	Abstract  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_documents_created_at"`
	UpdatedAt *time.Time
}

func (Document) TableName() string {
	return "documents"
}
