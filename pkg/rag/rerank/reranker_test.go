package rerank

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"policy-chat-be/internal/config"
	"policy-chat-be/pkg/crossencoder"
	"policy-chat-be/pkg/store"
)

type fakeClient struct {
	results []crossencoder.Result
	err     error
}

func (f *fakeClient) Rerank(ctx context.Context, query string, documents []string) ([]crossencoder.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func newReranker(client crossencoder.Client) *Reranker {
	return NewReranker(client, config.DefaultPipeline(), log.New(io.Discard, "", 0))
}

func TestRerankReplacesScoresAndSorts(t *testing.T) {
	client := &fakeClient{results: []crossencoder.Result{
		{Index: 0, Score: 0.2},
		{Index: 1, Score: 0.9},
		{Index: 2, Score: 0.5},
	}}
	r := newReranker(client)

	passages := []store.Passage{
		{ID: "a", Text: "first", Score: 0.8},
		{ID: "b", Text: "second", Score: 0.7},
		{ID: "c", Text: "third", Score: 0.6},
	}

	got := r.Rerank(context.Background(), "query", passages)

	if got[0].ID != "b" || got[1].ID != "c" || got[2].ID != "a" {
		t.Errorf("order = %s %s %s, want b c a", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].Score != 0.9 {
		t.Errorf("score = %v, want cross-encoder score 0.9", got[0].Score)
	}
	if passages[0].Score != 0.8 {
		t.Errorf("input mutated, score = %v", passages[0].Score)
	}
}

func TestRerankFallsBackOnError(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream unavailable")}
	r := newReranker(client)

	passages := []store.Passage{
		{ID: "a", Score: 0.8},
		{ID: "b", Score: 0.7},
	}

	got := r.Rerank(context.Background(), "query", passages)

	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("fallback must keep pre-rerank order, got %v", got)
	}
	if got[0].Score != 0.8 {
		t.Errorf("fallback must keep retrieval scores, got %v", got[0].Score)
	}
}

func TestRerankNilClientPassesThrough(t *testing.T) {
	r := newReranker(nil)

	passages := []store.Passage{{ID: "a", Score: 0.8}}
	got := r.Rerank(context.Background(), "query", passages)

	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("nil client must pass through, got %v", got)
	}
}

func TestRerankEmptyInput(t *testing.T) {
	r := newReranker(&fakeClient{})
	if got := r.Rerank(context.Background(), "query", nil); len(got) != 0 {
		t.Errorf("empty input must stay empty, got %v", got)
	}
}
