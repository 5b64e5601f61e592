package gate

import (
	"strings"
	"testing"

	"policy-chat-be/internal/config"
	"policy-chat-be/pkg/store"
)

func pack(passages ...store.Passage) *store.ContextPack {
	return &store.ContextPack{Passages: passages}
}

func longText() string {
	return strings.Repeat("the prescribed procedure applies ", 15)
}

func TestEvaluate(t *testing.T) {
	g := NewGate(config.DefaultPipeline())

	tests := []struct {
		name   string
		pack   *store.ContextPack
		pass   bool
		warn   bool
		reason string
	}{
		{
			name:   "empty pack hard fails",
			pack:   pack(),
			pass:   false,
			reason: ReasonRetrievalEmpty,
		},
		{
			name: "strong context passes clean",
			pack: pack(store.Passage{Text: longText(), Score: 0.85}),
			pass: true,
		},
		{
			name:   "low max score warns",
			pack:   pack(store.Passage{Text: longText(), Score: 0.40}),
			pass:   true,
			warn:   true,
			reason: ReasonLowMaxScore,
		},
		{
			name:   "thin context warns",
			pack:   pack(store.Passage{Text: "the limit is prescribed", Score: 0.90}),
			pass:   true,
			warn:   true,
			reason: ReasonThinContext,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Evaluate(tt.pack)
			if got.Pass != tt.pass || got.Warn != tt.warn || got.Reason != tt.reason {
				t.Errorf("Evaluate() = %+v, want pass=%v warn=%v reason=%q", got, tt.pass, tt.warn, tt.reason)
			}
		})
	}
}
