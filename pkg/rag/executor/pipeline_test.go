package executor

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"policy-chat-be/internal/config"
	"policy-chat-be/internal/constant"
	"policy-chat-be/internal/repository/memory"
	"policy-chat-be/pkg/llm"
	"policy-chat-be/pkg/rag/search"
	"policy-chat-be/pkg/store"
)

type spyRetriever struct {
	outcome search.Outcome
	calls   int
}

func (s *spyRetriever) Retrieve(ctx context.Context, variants []string) search.Outcome {
	s.calls++
	return s.outcome
}

type passthroughReranker struct{}

func (passthroughReranker) Rerank(ctx context.Context, query string, passages []store.Passage) []store.Passage {
	out := make([]store.Passage, len(passages))
	copy(out, passages)
	return out
}

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, "", options...)
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func goodPassage(text string, page int, score float64) store.Passage {
	return store.Passage{
		ID:        "p",
		Text:      text,
		Page:      page,
		ChunkType: store.ChunkTypeMainText,
		Score:     score,
	}
}

func contextText() string {
	return "The Departmental Development Working Party may approve development projects costing up to Rs. 75 million " +
		"subject to the availability of funds and the prescribed appraisal procedure laid down in the manual. " +
		"Proposals above this limit shall be referred to the next higher forum for consideration."
}

func newTestPipeline(retriever Retriever, generator llm.LLMProvider) *Pipeline {
	return NewPipeline(
		retriever,
		passthroughReranker{},
		generator,
		memory.NewSessionRepository(),
		config.DefaultPipeline(),
		log.New(io.Discard, "", 0),
	)
}

func TestOffScopeNeverCallsRetriever(t *testing.T) {
	spy := &spyRetriever{}
	p := newTestPipeline(spy, &fakeGenerator{})

	result, trace := p.Run(context.Background(), "s1", "u1", "Who won the 1992 cricket final?", nil)

	if spy.calls != 0 {
		t.Errorf("retriever called %d times for off-scope query", spy.calls)
	}
	if result.Text != constant.TemplateText(store.TemplateOffScopeSports) {
		t.Errorf("text = %q, want sports refusal template", result.Text)
	}
	if len(result.Citations) != 0 {
		t.Errorf("citations = %d, want none", len(result.Citations))
	}
	if trace.Classification != "off_scope:sports" {
		t.Errorf("trace classification = %q", trace.Classification)
	}
}

func TestRedLineShortCircuit(t *testing.T) {
	spy := &spyRetriever{}
	p := newTestPipeline(spy, &fakeGenerator{})

	result, _ := p.Run(context.Background(), "s1", "u1", "Can I pay speed money to get faster approval?", nil)

	if spy.calls != 0 {
		t.Errorf("retriever called %d times for red-line query", spy.calls)
	}
	if !strings.Contains(result.Text, "audit observation") {
		t.Errorf("red-line refusal must carry the audit clause, got %q", result.Text)
	}
	if result.Classification.Tag() != "red_line:bribery" {
		t.Errorf("classification = %q", result.Classification.Tag())
	}
}

func TestGroundedAnswerWithCitation(t *testing.T) {
	retriever := &spyRetriever{outcome: search.Outcome{
		Status:   search.StatusOK,
		Passages: []store.Passage{goodPassage(contextText(), 14, 0.9)},
	}}
	generator := &fakeGenerator{text: "The smallest-tier forum can approve projects up to Rs. 75 million."}
	p := newTestPipeline(retriever, generator)

	result, trace := p.Run(context.Background(), "s1", "u1", "What is the approval limit for the smallest-tier forum?", nil)

	if !strings.Contains(result.Text, "Rs. 75 million") {
		t.Errorf("text = %q, want the grounded figure", result.Text)
	}
	if len(result.Citations) != 1 || result.Citations[0].Page != 14 {
		t.Errorf("citations = %v, want one citation to page 14", result.Citations)
	}
	if result.Flag != store.FlagNormal {
		t.Errorf("flag = %v, want normal", result.Flag)
	}
	if trace.NumericAction != "clean" {
		t.Errorf("numeric action = %q", trace.NumericAction)
	}
}

func TestEmptyRetrievalRefuses(t *testing.T) {
	retriever := &spyRetriever{outcome: search.Outcome{Status: search.StatusOK, Passages: []store.Passage{}}}
	p := newTestPipeline(retriever, &fakeGenerator{text: "unused"})

	result, trace := p.Run(context.Background(), "s1", "u1", "What does the manual say about land acquisition?", nil)

	if result.Text != constant.TemplateText(store.TemplateInsufficientInfo) {
		t.Errorf("text = %q, want insufficient-information refusal", result.Text)
	}
	if result.Flag != store.FlagRefused {
		t.Errorf("flag = %v, want refused", result.Flag)
	}
	if trace.GateReason != "retrieval_empty" {
		t.Errorf("gate reason = %q", trace.GateReason)
	}
}

func TestUngroundedFigureRefusedOnNumericIntent(t *testing.T) {
	retriever := &spyRetriever{outcome: search.Outcome{
		Status: search.StatusOK,
		Passages: []store.Passage{goodPassage(
			"Development projects shall be appraised by the competent forum before approval in line with "+
				"the prescribed procedure and circulated to all concerned departments for comments beforehand.", 22, 0.8)},
	}}
	generator := &fakeGenerator{text: "The ceiling is Rs. 500 million."}
	p := newTestPipeline(retriever, generator)

	result, trace := p.Run(context.Background(), "s1", "u1", "What is the cost ceiling for such projects?", nil)

	if result.Text != constant.TemplateText(store.TemplateInsufficientInfo) {
		t.Errorf("text = %q, want refusal for ungrounded figure", result.Text)
	}
	if trace.NumericAction != "refused" {
		t.Errorf("numeric action = %q, want refused", trace.NumericAction)
	}
}

func TestGenerationFailureYieldsRetryTemplate(t *testing.T) {
	retriever := &spyRetriever{outcome: search.Outcome{
		Status:   search.StatusOK,
		Passages: []store.Passage{goodPassage(contextText(), 14, 0.9)},
	}}
	p := newTestPipeline(retriever, &fakeGenerator{err: errors.New("model unavailable")})

	result, _ := p.Run(context.Background(), "s1", "u1", "What is the approval procedure?", nil)

	if result.Text != constant.TemplateText(store.TemplateRetryLater) {
		t.Errorf("text = %q, want retry template", result.Text)
	}
}

func TestDeterminism(t *testing.T) {
	retriever := &spyRetriever{outcome: search.Outcome{
		Status: search.StatusOK,
		Passages: []store.Passage{
			goodPassage(contextText(), 14, 0.9),
			goodPassage("Projects exceeding the departmental limit shall be referred to the provincial forum together with the appraisal note and the working paper.", 15, 0.7),
		},
	}}
	generator := &fakeGenerator{text: "The limit is Rs. 75 million."}
	p := newTestPipeline(retriever, generator)

	first, _ := p.Run(context.Background(), "s1", "u1", "What is the approval limit?", nil)
	for i := 0; i < 5; i++ {
		again, _ := p.Run(context.Background(), "s1", "u1", "What is the approval limit?", nil)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("pipeline not deterministic:\n%+v\nvs\n%+v", first, again)
		}
	}
}

func TestSessionRemembersEntity(t *testing.T) {
	retriever := &spyRetriever{outcome: search.Outcome{
		Status:   search.StatusOK,
		Passages: []store.Passage{goodPassage(contextText(), 14, 0.9)},
	}}
	sessions := memory.NewSessionRepository()
	p := NewPipeline(retriever, passthroughReranker{}, &fakeGenerator{text: "The DDWP approves up to Rs. 75 million."},
		sessions, config.DefaultPipeline(), log.New(io.Discard, "", 0))

	p.Run(context.Background(), "s1", "u1", "What can the DDWP approve?", nil)

	session, ok := sessions.Get("s1")
	if !ok {
		t.Fatal("session not saved")
	}
	if session.LastEntity != "DDWP" {
		t.Errorf("last entity = %q, want DDWP", session.LastEntity)
	}
	if session.LastQuery != "What can the DDWP approve?" {
		t.Errorf("last query = %q", session.LastQuery)
	}
}
