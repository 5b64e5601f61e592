package gate

import (
	"policy-chat-be/internal/config"
	"policy-chat-be/pkg/metrics"
	"policy-chat-be/pkg/store"
)

// Reasons surfaced on non-clean verdicts.
const (
	ReasonRetrievalEmpty = "retrieval_empty"
	ReasonLowMaxScore    = "low_max_score"
	ReasonThinContext    = "thin_context"
)

// Result is the gate's three-state verdict: hard fail, pass with
// warning, or clean pass.
type Result struct {
	Pass   bool
	Warn   bool
	Reason string
}

// Gate validates the aggregate retrieved context before generation. It
// hard-fails only on an empty pack; weak context still answers but
// carries a warning so the composer can surface uncertainty.
type Gate struct {
	cfg config.Pipeline
}

func NewGate(cfg config.Pipeline) *Gate {
	return &Gate{cfg: cfg}
}

func (g *Gate) Evaluate(pack *store.ContextPack) Result {
	if pack.IsEmpty() {
		metrics.GateVerdictsTotal.WithLabelValues("fail").Inc()
		return Result{Pass: false, Reason: ReasonRetrievalEmpty}
	}

	if pack.MaxScore() < g.cfg.ConfidenceThreshold {
		metrics.GateVerdictsTotal.WithLabelValues("warn").Inc()
		return Result{Pass: true, Warn: true, Reason: ReasonLowMaxScore}
	}

	if pack.TotalWords() < g.cfg.MinContextWords {
		metrics.GateVerdictsTotal.WithLabelValues("warn").Inc()
		return Result{Pass: true, Warn: true, Reason: ReasonThinContext}
	}

	metrics.GateVerdictsTotal.WithLabelValues("pass").Inc()
	return Result{Pass: true}
}
