package search

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"time"

	"policy-chat-be/internal/config"
	"policy-chat-be/internal/repository/contract"
	"policy-chat-be/pkg/embedding"
	"policy-chat-be/pkg/metrics"
	"policy-chat-be/pkg/store"
)

// Status is the typed outcome of a retrieval attempt.
type Status string

const (
	StatusOK      Status = "ok"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// Outcome is what one multi-variant retrieval returns. Timeout and error
// both carry an empty passage list; the quality gate owns the "no
// context" decision downstream.
type Outcome struct {
	Status   Status
	Passages []store.Passage
	Err      error
}

// ChunkIndex is the slice of the chunk repository the retriever needs.
type ChunkIndex interface {
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredPolicyChunk, error)
}

// Retriever embeds each query variant, searches the vector index, and
// merges the per-variant result sets. Duplicates across variants (same
// page and text) collapse keeping the highest score.
type Retriever struct {
	provider embedding.EmbeddingProvider
	index    ChunkIndex
	cfg      config.Pipeline
	logger   *log.Logger
}

func NewRetriever(provider embedding.EmbeddingProvider, index ChunkIndex, cfg config.Pipeline, logger *log.Logger) *Retriever {
	return &Retriever{
		provider: provider,
		index:    index,
		cfg:      cfg,
		logger:   logger,
	}
}

// Retrieve runs the search for every variant under one shared deadline.
// It never returns an error to the caller; degraded outcomes carry an
// empty passage list and a non-ok status.
func (r *Retriever) Retrieve(ctx context.Context, variants []string) Outcome {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.cfg.SearchTimeout)
	defer cancel()

	merged := make(map[string]*store.Passage)
	order := make([]string, 0)
	var lastErr error
	succeeded := 0

	for pass, variant := range variants {
		if ctx.Err() != nil {
			break
		}

		embeddingRes, err := r.provider.Generate(variant, "RETRIEVAL_QUERY")
		if err != nil {
			r.logger.Printf("[WARN] Embedding failed for variant %d: %v", pass, err)
			lastErr = err
			continue
		}

		scored, err := r.index.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, r.cfg.TopK, r.cfg.MinScore)
		if err != nil {
			r.logger.Printf("[WARN] Vector search failed for variant %d: %v", pass, err)
			lastErr = err
			continue
		}
		succeeded++

		for _, res := range scored {
			key := dedupeKey(res.Chunk.Page, res.Chunk.Content)
			if existing, ok := merged[key]; ok {
				if res.Similarity > existing.Score {
					existing.Score = res.Similarity
				}
				continue
			}
			merged[key] = &store.Passage{
				ID:        res.Chunk.Id.String(),
				Text:      res.Chunk.Content,
				Page:      res.Chunk.Page,
				ChunkType: res.Chunk.ChunkType,
				Score:     res.Similarity,
				Pass:      pass,
			}
			order = append(order, key)
		}
	}

	metrics.RetrievalSeconds.Observe(time.Since(start).Seconds())

	if succeeded == 0 {
		status := StatusError
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			status = StatusTimeout
		} else if lastErr == nil {
			// no variants at all
			status = StatusOK
		}
		metrics.RetrievalOutcomesTotal.WithLabelValues(string(status)).Inc()
		return Outcome{Status: status, Passages: []store.Passage{}, Err: lastErr}
	}

	passages := make([]store.Passage, 0, len(order))
	for _, key := range order {
		passages = append(passages, *merged[key])
	}

	// Highest score first; equal scores keep first-seen order.
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Score > passages[j].Score
	})
	if len(passages) > r.cfg.TopK {
		passages = passages[:r.cfg.TopK]
	}

	r.logger.Printf("[DEBUG] Retrieval merged %d passages from %d variants", len(passages), len(variants))
	metrics.RetrievalOutcomesTotal.WithLabelValues(string(StatusOK)).Inc()
	return Outcome{Status: StatusOK, Passages: passages}
}

func dedupeKey(page int, text string) string {
	return strconv.Itoa(page) + "\x00" + text
}
