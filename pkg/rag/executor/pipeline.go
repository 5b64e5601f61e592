package executor

import (
	"context"
	"log"

	"policy-chat-be/internal/config"
	"policy-chat-be/internal/repository/memory"
	"policy-chat-be/pkg/llm"
	"policy-chat-be/pkg/metrics"
	"policy-chat-be/pkg/rag/classify"
	"policy-chat-be/pkg/rag/compose"
	"policy-chat-be/pkg/rag/filter"
	"policy-chat-be/pkg/rag/gate"
	"policy-chat-be/pkg/rag/numeric"
	"policy-chat-be/pkg/rag/rewrite"
	"policy-chat-be/pkg/rag/search"
	"policy-chat-be/pkg/store"
)

// Retriever is the slice of the search stage the pipeline depends on.
type Retriever interface {
	Retrieve(ctx context.Context, variants []string) search.Outcome
}

// Reranker is the slice of the rerank stage the pipeline depends on.
type Reranker interface {
	Rerank(ctx context.Context, query string, passages []store.Passage) []store.Passage
}

// Trace records what each stage did for one invocation. It is persisted
// alongside the model message for offline inspection.
type Trace struct {
	Classification  string        `json:"classification"`
	Variants        int           `json:"variants,omitempty"`
	RetrievalStatus search.Status `json:"retrieval_status,omitempty"`
	Retrieved       int           `json:"retrieved,omitempty"`
	AfterPreFilter  int           `json:"after_pre_filter,omitempty"`
	AfterDiversity  int           `json:"after_diversity,omitempty"`
	AfterPostFilter int           `json:"after_post_filter,omitempty"`
	GateReason      string        `json:"gate_reason,omitempty"`
	GateWarn        bool          `json:"gate_warn,omitempty"`
	NumericAction   string        `json:"numeric_action,omitempty"`
}

// Pipeline is one synchronous query-answering invocation chain:
// classify, rewrite, retrieve, filter, diversify, rerank, gate,
// generate, validate, compose. Stages share no mutable state, so
// independent queries may run concurrently on one Pipeline value.
type Pipeline struct {
	classifier *classify.Classifier
	rewriter   *rewrite.Rewriter
	retriever  Retriever
	filter     *filter.GarbageFilter
	reranker   Reranker
	gate       *gate.Gate
	validator  *numeric.Validator
	composer   *compose.Composer
	generator  llm.LLMProvider
	sessions   *memory.SessionRepository
	cfg        config.Pipeline
	logger     *log.Logger
}

func NewPipeline(
	retriever Retriever,
	reranker Reranker,
	generator llm.LLMProvider,
	sessions *memory.SessionRepository,
	cfg config.Pipeline,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		classifier: classify.NewClassifier(),
		rewriter:   rewrite.NewRewriter(cfg.MaxVariants),
		retriever:  retriever,
		filter:     filter.NewGarbageFilter(cfg),
		reranker:   reranker,
		gate:       gate.NewGate(cfg),
		validator:  numeric.NewValidator(),
		composer:   compose.NewComposer(cfg),
		generator:  generator,
		sessions:   sessions,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run answers one query. It never returns an error: every failure path
// maps to a refusal or retry template inside the AnswerResult.
func (p *Pipeline) Run(ctx context.Context, sessionID string, userID string, query string, turns []store.Turn) (store.AnswerResult, Trace) {
	trace := Trace{}

	// Phase 1: classification short-circuit
	classification := p.classifier.Classify(query, turns)
	trace.Classification = classification.Tag()
	metrics.ClassificationsTotal.WithLabelValues(classification.Tag()).Inc()
	p.logger.Printf("[PHASE 1] Classified as %s", classification.Tag())

	if classification.BypassRetrieval {
		p.rememberQuery(sessionID, userID, query, "")
		return p.composer.Template(classification, classification.Template), trace
	}

	// Phase 2: contextualize and expand
	session := p.loadSession(sessionID, userID)
	rewritten := p.rewriter.Rewrite(query, turns, session)
	trace.Variants = len(rewritten.Variants)
	p.logger.Printf("[PHASE 2] Rewrote to %d variants, primary=%q", len(rewritten.Variants), rewritten.Primary)

	// Phase 3: retrieval
	outcome := p.retriever.Retrieve(ctx, rewritten.Variants)
	trace.RetrievalStatus = outcome.Status
	trace.Retrieved = len(outcome.Passages)
	p.logger.Printf("[PHASE 3] Retrieval %s, %d passages", outcome.Status, len(outcome.Passages))

	// Phase 4: pre-filter, diversity, rerank, post-filter
	passages := p.filter.Apply(outcome.Passages, rewritten.Primary)
	trace.AfterPreFilter = len(passages)

	passages = search.SelectDiverse(passages, p.cfg.DiversityK, p.cfg.DiversityWeight)
	trace.AfterDiversity = len(passages)

	passages = p.reranker.Rerank(ctx, rewritten.Primary, passages)
	passages = p.filter.Apply(passages, rewritten.Primary)
	if len(passages) > p.cfg.RerankShortlist {
		passages = passages[:p.cfg.RerankShortlist]
	}
	trace.AfterPostFilter = len(passages)
	p.logger.Printf("[PHASE 4] Shortlist of %d passages", len(passages))

	// Phase 5: quality gate
	pack := &store.ContextPack{Passages: passages}
	gateResult := p.gate.Evaluate(pack)
	trace.GateReason = gateResult.Reason
	trace.GateWarn = gateResult.Warn
	if !gateResult.Pass {
		p.logger.Printf("[PHASE 5] Gate failed: %s", gateResult.Reason)
		p.rememberQuery(sessionID, userID, query, rewritten.Entity)
		return p.composer.Template(classification, store.TemplateInsufficientInfo), trace
	}

	// Phase 6: generation
	prompt := BuildPrompt(pack, rewritten.Primary)
	genCtx, cancel := context.WithTimeout(ctx, p.cfg.GenerateTimeout)
	generated, err := p.generator.Generate(genCtx, prompt, llm.WithTemperature(0.2))
	cancel()
	if err != nil {
		p.logger.Printf("[ERROR] Generation failed: %v", err)
		p.rememberQuery(sessionID, userID, query, rewritten.Entity)
		return p.composer.Template(classification, store.TemplateRetryLater), trace
	}

	// Phase 7: numeric safety
	validated, action := p.validator.Validate(generated, pack, numeric.HasNumericIntent(query))
	trace.NumericAction = string(action)
	if action == numeric.ActionRefused {
		p.logger.Printf("[PHASE 7] Ungrounded figures, refusing")
		p.rememberQuery(sessionID, userID, query, rewritten.Entity)
		return p.composer.Template(classification, store.TemplateInsufficientInfo), trace
	}

	// Phase 8: composition
	result := p.composer.Compose(classification, pack, validated, gateResult)
	p.rememberQuery(sessionID, userID, query, rewritten.Entity)
	return result, trace
}

func (p *Pipeline) loadSession(sessionID, userID string) *store.Session {
	if session, ok := p.sessions.Get(sessionID); ok {
		return session
	}
	return &store.Session{ID: sessionID, UserID: userID}
}

// rememberQuery updates the in-memory session after the result is
// finalized; history appends happen in the chat service, never here.
func (p *Pipeline) rememberQuery(sessionID, userID, query, entity string) {
	session := p.loadSession(sessionID, userID)
	session.LastQuery = query
	if entity != "" {
		session.LastEntity = entity
	}
	p.sessions.Save(session)
}
