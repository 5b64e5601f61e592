package mapper

import (
	"time"

	"policy-chat-be/internal/entity"
	"policy-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PolicyChunkMapper struct{}

func NewPolicyChunkMapper() *PolicyChunkMapper {
	return &PolicyChunkMapper{}
}

func (m *PolicyChunkMapper) ToEntity(c *model.PolicyChunk) *entity.PolicyChunk {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.PolicyChunk{
		Id:             c.Id,
		Content:        c.Content,
		Page:           c.Page,
		ChunkType:      c.ChunkType,
		ChunkIndex:     c.ChunkIndex,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      c.DeletedAt.Valid,
	}
}

func (m *PolicyChunkMapper) ToModel(c *entity.PolicyChunk) *model.PolicyChunk {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.PolicyChunk{
		Id:             c.Id,
		Content:        c.Content,
		Page:           c.Page,
		ChunkType:      c.ChunkType,
		ChunkIndex:     c.ChunkIndex,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}
