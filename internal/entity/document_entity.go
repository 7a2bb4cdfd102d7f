package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is the unit of storage. Content drives the embedding; title,
// tags and the rest are opaque metadata carried for the caller (tags feed
// only the cluster naming heuristic, never the embedding input).
type Document struct {
	Id        uuid.UUID
	Title     string
	Content   string
	DocType   string
	Tags      string // comma-separated
	Source    string
	Authors   string
	Abstract  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
