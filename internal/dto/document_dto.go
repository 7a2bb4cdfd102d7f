package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	DocType string `json:"doc_type"`
	Tags    string `json:"tags"`    // comma-separated
	Source  string `json:"source"`  // URL or other source reference
	Authors string `json:"authors"` // semicolon-separated
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateDocumentRequest struct {
	Id       uuid.UUID
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	DocType  *string `json:"doc_type"`
	Tags     *string `json:"tags"`
	Abstract *string `json:"abstract"`
	Source   *string `json:"source"`
	Authors  *string `json:"authors"`
}

type UpdateDocumentResponse struct {
	Id         uuid.UUID `json:"id"`
	Reembedded bool      `json:"reembedded"`
}

type RenameDocumentRequest struct {
	Id       uuid.UUID
	NewTitle string `json:"new_title" validate:"required"`
}

type DocumentResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	DocType      string     `json:"doc_type,omitempty"`
	Tags         string     `json:"tags,omitempty"`
	Source       string     `json:"source,omitempty"`
	Authors      string     `json:"authors,omitempty"`
	Abstract     string     `json:"abstract,omitempty"`
	OrdinalIndex int        `json:"index,omitempty"` // 1-based creation-order rank
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type ImportDocumentsRequest struct {
	Documents []CreateDocumentRequest `json:"documents" validate:"required,min=1,dive"`
}

type ImportResultItem struct {
	Id    *uuid.UUID `json:"id,omitempty"`
	Error string     `json:"error,omitempty"`
}

type ImportDocumentsResponse struct {
	Imported int                `json:"imported"`
	Failed   int                `json:"failed"`
	Results  []ImportResultItem `json:"results"`
}

type ClearDocumentsResponse struct {
	Removed int64 `json:"removed"`
}

type StatsResponse struct {
	TotalDocuments     int64  `json:"total_documents"`
	EmbeddingDimension int    `json:"embedding_dimension"`
	IndexSize          int64  `json:"index_size"`
	Model              string `json:"model"`
}

type ConsistencyResponse struct {
	Consistent        bool        `json:"consistent"`
	DocumentCount     int64       `json:"document_count"`
	IndexCount        int64       `json:"index_count"`
	MissingEmbeddings []uuid.UUID `json:"missing_embeddings"` // ledger ids absent from the index
	OrphanedVectors   []uuid.UUID `json:"orphaned_vectors"`   // index ids absent from the ledger
}

// DocumentChangedMessage is published on every mutation of the ledger so
// listeners (cluster cache consumer, external notification layer) can react.
type DocumentChangedMessage struct {
	DocumentId *uuid.UUID `json:"document_id,omitempty"` // nil for a bulk clear
	Action     string     `json:"action"`                // "created" | "updated" | "deleted" | "cleared"
}
