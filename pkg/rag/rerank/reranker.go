package rerank

import (
	"context"
	"log"
	"sort"

	"policy-chat-be/internal/config"
	"policy-chat-be/pkg/crossencoder"
	"policy-chat-be/pkg/metrics"
	"policy-chat-be/pkg/store"
)

// Reranker rescores the diversity-selected candidates with a
// cross-encoder and sorts them by the new scores. The model's scores
// replace the retrieval scores outright. Any client failure falls back
// to the pre-rerank ordering; reranking never fails the pipeline.
type Reranker struct {
	client crossencoder.Client
	cfg    config.Pipeline
	logger *log.Logger
}

func NewReranker(client crossencoder.Client, cfg config.Pipeline, logger *log.Logger) *Reranker {
	return &Reranker{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Rerank returns a new slice; the input is never mutated.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []store.Passage) []store.Passage {
	if len(passages) == 0 {
		return []store.Passage{}
	}

	out := make([]store.Passage, len(passages))
	copy(out, passages)

	if r.client == nil {
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.RerankTimeout)
	defer cancel()

	documents := make([]string, len(passages))
	for i, p := range passages {
		documents[i] = p.Text
	}

	results, err := r.client.Rerank(ctx, query, documents)
	if err != nil {
		r.logger.Printf("[WARN] Cross-encoder failed, keeping pre-rerank order: %v", err)
		metrics.RerankFallbacksTotal.Inc()
		return out
	}

	for _, res := range results {
		if res.Index >= 0 && res.Index < len(out) {
			out[res.Index].Score = res.Score
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
