package search

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"policy-chat-be/internal/config"
	"policy-chat-be/internal/entity"
	"policy-chat-be/internal/repository/contract"
	"policy-chat-be/pkg/embedding"

	"github.com/google/uuid"
)

type fakeProvider struct {
	err error
}

func (f *fakeProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeIndex struct {
	results [][]*contract.ScoredPolicyChunk
	err     error
	calls   int
	delay   time.Duration
}

func (f *fakeIndex) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, threshold float64) ([]*contract.ScoredPolicyChunk, error) {
	call := f.calls
	f.calls++
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if call < len(f.results) {
		return f.results[call], nil
	}
	return nil, nil
}

func chunk(text string, page int, sim float64) *contract.ScoredPolicyChunk {
	return &contract.ScoredPolicyChunk{
		Chunk: &entity.PolicyChunk{
			Id:        uuid.New(),
			Content:   text,
			Page:      page,
			ChunkType: "main_text",
		},
		Similarity: sim,
	}
}

func testCfg() config.Pipeline {
	cfg := config.DefaultPipeline()
	cfg.SearchTimeout = 2 * time.Second
	return cfg
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRetrieveMergesVariantsKeepingMaxScore(t *testing.T) {
	index := &fakeIndex{
		results: [][]*contract.ScoredPolicyChunk{
			{chunk("the DDWP approves projects up to Rs. 2000 million", 14, 0.62)},
			{chunk("the DDWP approves projects up to Rs. 2000 million", 14, 0.81)},
		},
	}
	r := NewRetriever(&fakeProvider{}, index, testCfg(), discard())

	out := r.Retrieve(context.Background(), []string{"DDWP limit", "Departmental Development Working Party limit"})

	if out.Status != StatusOK {
		t.Fatalf("status = %v, want ok", out.Status)
	}
	if len(out.Passages) != 1 {
		t.Fatalf("passages = %d, want 1 after dedupe", len(out.Passages))
	}
	if out.Passages[0].Score != 0.81 {
		t.Errorf("score = %v, want max 0.81", out.Passages[0].Score)
	}
	if out.Passages[0].Pass != 0 {
		t.Errorf("pass = %d, want first-seen pass 0", out.Passages[0].Pass)
	}
}

func TestRetrieveCapsAtTopK(t *testing.T) {
	many := make([]*contract.ScoredPolicyChunk, 0, 20)
	for i := 0; i < 20; i++ {
		many = append(many, chunk("passage number "+string(rune('a'+i)), i+1, 0.9-float64(i)*0.01))
	}
	index := &fakeIndex{results: [][]*contract.ScoredPolicyChunk{many}}
	cfg := testCfg()
	cfg.TopK = 12
	r := NewRetriever(&fakeProvider{}, index, cfg, discard())

	out := r.Retrieve(context.Background(), []string{"query"})

	if len(out.Passages) != 12 {
		t.Errorf("passages = %d, want top_k cap 12", len(out.Passages))
	}
	for i := 1; i < len(out.Passages); i++ {
		if out.Passages[i].Score > out.Passages[i-1].Score {
			t.Errorf("passages not sorted descending at %d", i)
		}
	}
}

func TestRetrieveSearchErrorReturnsEmpty(t *testing.T) {
	index := &fakeIndex{err: errors.New("connection refused")}
	r := NewRetriever(&fakeProvider{}, index, testCfg(), discard())

	out := r.Retrieve(context.Background(), []string{"query"})

	if out.Status != StatusError {
		t.Errorf("status = %v, want error", out.Status)
	}
	if len(out.Passages) != 0 {
		t.Errorf("passages = %d, want empty on error", len(out.Passages))
	}
}

func TestRetrieveTimeoutReturnsEmpty(t *testing.T) {
	index := &fakeIndex{delay: 200 * time.Millisecond}
	cfg := testCfg()
	cfg.SearchTimeout = 20 * time.Millisecond
	r := NewRetriever(&fakeProvider{}, index, cfg, discard())

	out := r.Retrieve(context.Background(), []string{"query"})

	if out.Status != StatusTimeout {
		t.Errorf("status = %v, want timeout", out.Status)
	}
	if len(out.Passages) != 0 {
		t.Errorf("passages = %d, want empty on timeout", len(out.Passages))
	}
}

func TestRetrieveEmbeddingErrorFallsThrough(t *testing.T) {
	index := &fakeIndex{}
	r := NewRetriever(&fakeProvider{err: errors.New("model not loaded")}, index, testCfg(), discard())

	out := r.Retrieve(context.Background(), []string{"query"})

	if out.Status != StatusError {
		t.Errorf("status = %v, want error", out.Status)
	}
	if index.calls != 0 {
		t.Errorf("index called %d times despite embedding failure", index.calls)
	}
}
