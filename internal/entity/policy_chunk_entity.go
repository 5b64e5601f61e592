package entity

import (
	"time"

	"github.com/google/uuid"
)

// PolicyChunk is one ingested span of the policy manual together with
// its embedding and structural tag.
type PolicyChunk struct {
	Id             uuid.UUID
	Content        string
	Page           int
	ChunkType      string // main_text | annexure | table | checklist | boilerplate
	ChunkIndex     int
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
