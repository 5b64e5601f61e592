package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "policychat_classifications_total",
		Help: "Query classifications by category tag.",
	}, []string{"category"})

	RetrievalSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "policychat_retrieval_seconds",
		Help:    "Wall time of the multi-variant vector retrieval stage.",
		Buckets: prometheus.DefBuckets,
	})

	RetrievalOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "policychat_retrieval_outcomes_total",
		Help: "Retrieval outcomes by status (ok, timeout, error).",
	}, []string{"status"})

	RerankFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "policychat_rerank_fallbacks_total",
		Help: "Times the reranker fell back to pre-rerank ordering.",
	})

	GateVerdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "policychat_gate_verdicts_total",
		Help: "Quality gate verdicts (pass, warn, fail).",
	}, []string{"verdict"})

	NumericActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "policychat_numeric_actions_total",
		Help: "Numeric safety validator actions (clean, stripped, refused).",
	}, []string{"action"})

	AnswersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "policychat_answers_total",
		Help: "Final answers by quality flag.",
	}, []string{"flag"})
)
