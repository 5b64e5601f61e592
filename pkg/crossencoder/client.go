package crossencoder

import "context"

// Result carries the model's relevance score for one input document,
// identified by its position in the request.
type Result struct {
	Index int
	Score float64
}

// Client scores (query, document) pairs jointly. Implementations call an
// external cross-encoder model; callers own the fallback when scoring
// fails and must never let a client error abort the pipeline.
type Client interface {
	Rerank(ctx context.Context, query string, documents []string) ([]Result, error)
}
