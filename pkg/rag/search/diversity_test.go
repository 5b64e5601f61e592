package search

import (
	"reflect"
	"testing"

	"policy-chat-be/pkg/store"
)

func passage(id, text string, score float64) store.Passage {
	return store.Passage{ID: id, Text: text, Score: score}
}

func TestSelectDiversePrefersRelevantThenDiverse(t *testing.T) {
	candidates := []store.Passage{
		passage("a", "the provincial working party approves projects within its financial limit", 0.90),
		passage("b", "the provincial working party approves projects within its financial limit today", 0.88),
		passage("c", "completion reports must be submitted on the prescribed proforma after closure", 0.60),
	}

	got := SelectDiverse(candidates, 2, 0.7)

	if len(got) != 2 {
		t.Fatalf("selected = %d, want 2", len(got))
	}
	if got[0].ID != "a" {
		t.Errorf("first pick = %q, want most relevant a", got[0].ID)
	}
	if got[1].ID != "c" {
		t.Errorf("second pick = %q, want diverse c over near-duplicate b", got[1].ID)
	}
}

func TestSelectDiverseStableTieBreak(t *testing.T) {
	candidates := []store.Passage{
		passage("a", "alpha beta gamma delta", 0.5),
		passage("b", "epsilon zeta eta theta", 0.5),
		passage("c", "iota kappa lambda mu", 0.5),
	}

	first := SelectDiverse(candidates, 2, 0.7)
	for i := 0; i < 10; i++ {
		again := SelectDiverse(candidates, 2, 0.7)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("selection not deterministic: %v vs %v", first, again)
		}
	}
	if first[0].ID != "a" {
		t.Errorf("tie should keep first-seen order, got %q", first[0].ID)
	}
}

func TestSelectDiverseShortInput(t *testing.T) {
	candidates := []store.Passage{passage("a", "only one", 0.4)}

	got := SelectDiverse(candidates, 5, 0.7)

	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("short input should pass through, got %v", got)
	}
}

func TestSelectDiverseEmpty(t *testing.T) {
	if got := SelectDiverse(nil, 3, 0.7); len(got) != 0 {
		t.Errorf("empty input should yield empty output, got %v", got)
	}
}
