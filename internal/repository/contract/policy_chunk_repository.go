package contract

import (
	"context"

	"policy-chat-be/internal/entity"
	"policy-chat-be/internal/repository/specification"
)

// ScoredPolicyChunk pairs a chunk with its cosine similarity for one query vector.
type ScoredPolicyChunk struct {
	Chunk      *entity.PolicyChunk
	Similarity float64
}

type PolicyChunkRepository interface {
	Create(ctx context.Context, chunk *entity.PolicyChunk) error
	CreateBatch(ctx context.Context, chunks []*entity.PolicyChunk) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the chunks nearest to the query vector,
	// highest similarity first, dropping rows below threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredPolicyChunk, error)
}
