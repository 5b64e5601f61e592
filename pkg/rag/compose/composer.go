package compose

import (
	"regexp"
	"strings"

	"policy-chat-be/internal/config"
	"policy-chat-be/internal/constant"
	"policy-chat-be/pkg/metrics"
	"policy-chat-be/pkg/rag/gate"
	"policy-chat-be/pkg/rag/numeric"
	"policy-chat-be/pkg/store"
)

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\(?\d+[.)])\s+`)

// Composer assembles the final AnswerResult: template substitution for
// short-circuited categories, word-budget truncation, citation dedupe
// and capping, and warning-flag attachment.
type Composer struct {
	cfg config.Pipeline
}

func NewComposer(cfg config.Pipeline) *Composer {
	return &Composer{cfg: cfg}
}

// Template produces a canned-response result. Used for classification
// short-circuits and for every refusal path; template answers carry no
// citations.
func (c *Composer) Template(classification store.Classification, id store.TemplateID) store.AnswerResult {
	result := store.AnswerResult{
		Text:           constant.TemplateText(id),
		Citations:      []store.Citation{},
		Flag:           store.FlagRefused,
		Classification: classification,
	}
	metrics.AnswersTotal.WithLabelValues(string(result.Flag)).Inc()
	return result
}

// Compose builds the result for a generated answer. The text is
// truncated to the word budget at a structural break, never mid-sentence
// when a whole sentence fits; citations are deduplicated by page in
// first-occurrence order and capped.
func (c *Composer) Compose(classification store.Classification, pack *store.ContextPack, generatedText string, gateResult gate.Result) store.AnswerResult {
	flag := store.FlagNormal
	if gateResult.Warn {
		flag = store.FlagLowConfidence
	}

	result := store.AnswerResult{
		Text:           c.truncate(generatedText),
		Citations:      c.citations(pack),
		Flag:           flag,
		Classification: classification,
	}
	metrics.AnswersTotal.WithLabelValues(string(flag)).Inc()
	return result
}

// truncate keeps the leading coherent span of the text: it stops at the
// first blank line or list marker, then keeps whole sentences while the
// word budget allows. When even the first sentence exceeds the budget it
// degrades to a hard word cut so the budget invariant always holds.
func (c *Composer) truncate(text string) string {
	span := c.leadingSpan(strings.TrimSpace(text))

	words := strings.Fields(span)
	if len(words) <= c.cfg.WordBudget {
		return span
	}

	kept := ""
	count := 0
	for _, s := range numeric.SplitSentences(span) {
		n := len(strings.Fields(s))
		if count+n > c.cfg.WordBudget {
			break
		}
		if kept != "" {
			kept += " "
		}
		kept += s
		count += n
	}
	if kept != "" {
		return kept
	}
	return strings.Join(words[:c.cfg.WordBudget], " ")
}

// leadingSpan cuts the text at the first structural break.
func (c *Composer) leadingSpan(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if i > 0 && (trimmed == "" || listMarker.MatchString(line)) {
			break
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// citations derives the citation list from the pack: unique by page,
// ordered by first occurrence, at most CitationCap entries.
func (c *Composer) citations(pack *store.ContextPack) []store.Citation {
	citations := make([]store.Citation, 0, c.cfg.CitationCap)
	seen := make(map[int]bool)
	for _, p := range pack.Passages {
		if seen[p.Page] {
			continue
		}
		seen[p.Page] = true
		citations = append(citations, store.Citation{
			Page:   p.Page,
			Source: constant.CitationSourceLabel,
		})
		if len(citations) == c.cfg.CitationCap {
			break
		}
	}
	return citations
}
