package filter

import (
	"regexp"
	"strings"

	"policy-chat-be/internal/config"
	"policy-chat-be/pkg/store"
)

// boilerplatePatterns match structural noise from the scanned manual:
// figure and table headers, annexure banners, notification codes, page
// headers and footers. One hit rejects the passage.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(figure|fig\.?|table|annexure|annex)\s*[-:.]?\s*[0-9IVXLC]+`),
	regexp.MustCompile(`(?i)\bS\.?R\.?O\.?\s*[-.]?\s*\d+`),
	regexp.MustCompile(`(?i)\bpage\s+\d+\s+of\s+\d+\b`),
	regexp.MustCompile(`(?i)^\s*government of\b.*\b(notification|office memorandum)\b`),
	regexp.MustCompile(`(?i)\bcontinued (?:on|from) (?:next|previous) page\b`),
}

// excludedTypes are structural chunk types dropped unless the query
// itself references the type.
var excludedTypes = map[string]string{
	store.ChunkTypeChecklist:   "checklist",
	store.ChunkTypeAnnexure:    "annexure",
	store.ChunkTypeTable:       "table",
	store.ChunkTypeBoilerplate: "",
}

var uppercaseToken = regexp.MustCompile(`^[A-Z][A-Z0-9&-]{1,}$`)
var enumerationItem = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\(?[0-9ivxlc]+[.)])\s+`)

// GarbageFilter rejects structurally irrelevant passages. Rules are
// independent and any single firing rule rejects the passage, so the
// filter favors precision over recall. It runs twice per query, before
// diversity selection and again after reranking.
type GarbageFilter struct {
	cfg config.Pipeline
}

func NewGarbageFilter(cfg config.Pipeline) *GarbageFilter {
	return &GarbageFilter{cfg: cfg}
}

// Apply returns the passages that survive every rule, preserving order.
func (f *GarbageFilter) Apply(passages []store.Passage, query string) []store.Passage {
	kept := make([]store.Passage, 0, len(passages))
	for _, p := range passages {
		if f.Reject(p, query) == "" {
			kept = append(kept, p)
		}
	}
	return kept
}

// Reject returns the name of the first rule that fires, or "" when the
// passage survives.
func (f *GarbageFilter) Reject(p store.Passage, query string) string {
	words := p.WordCount()
	if words < f.cfg.GarbageMinWords {
		return "fragment"
	}
	if words > f.cfg.GarbageMaxWords {
		return "table_dump"
	}

	for _, pattern := range boilerplatePatterns {
		if pattern.MatchString(p.Text) {
			return "boilerplate"
		}
	}

	if f.acronymRatio(p.Text) > f.cfg.AcronymRatio {
		return "acronym_soup"
	}

	if len(enumerationItem.FindAllString(p.Text, -1)) > f.cfg.EnumerationCeiling {
		return "enumeration"
	}

	if keyword, excluded := excludedTypes[p.ChunkType]; excluded {
		if keyword == "" || !strings.Contains(strings.ToLower(query), keyword) {
			return "excluded_type"
		}
	}

	return ""
}

// acronymRatio is the fraction of tokens that are uppercase acronym-like.
func (f *GarbageFilter) acronymRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	upper := 0
	for _, w := range fields {
		if uppercaseToken.MatchString(strings.Trim(w, ".,;:()")) {
			upper++
		}
	}
	return float64(upper) / float64(len(fields))
}
