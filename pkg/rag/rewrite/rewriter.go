package rewrite

import (
	"regexp"
	"strings"

	"policy-chat-be/pkg/store"
)

// Result carries the contextualized primary query, the retrieval
// variants derived from it, and the domain entity detected in the turn
// (empty when none was found).
type Result struct {
	Primary  string
	Variants []string
	Entity   string
}

// acronymExpansions maps each domain acronym to its long form. A variant
// is produced per acronym occurring in the query, up to the variant cap.
var acronymExpansions = map[string]string{
	"DDWP":  "Departmental Development Working Party",
	"PDWP":  "Provincial Development Working Party",
	"CDWP":  "Central Development Working Party",
	"ECNEC": "Executive Committee of the National Economic Council",
	"PSDP":  "Public Sector Development Programme",
	"ADP":   "Annual Development Programme",
	"PC-I":  "PC-I project preparation proforma",
	"PC-II": "PC-II feasibility study proforma",
	"PC-IV": "PC-IV project completion proforma",
	"PC-V":  "PC-V annual operation proforma",
}

// acronymOrder fixes variant ordering so output is deterministic.
var acronymOrder = []string{"PC-II", "PC-IV", "PC-V", "PC-I", "DDWP", "PDWP", "CDWP", "ECNEC", "PSDP", "ADP"}

var (
	entityPattern  = regexp.MustCompile(`(?i)\b(PC-(?:III|II|IV|V|I)|DDWP|PDWP|CDWP|ECNEC|PSDP|ADP|working party|completion report|concept clearance)\b`)
	pronounPattern = regexp.MustCompile(`(?i)\b(it|its|that|this|they|them|those|these|one)\b`)
)

// Rewriter contextualizes follow-up queries and expands domain acronyms
// into retrieval variants. It never fails; any path that cannot improve
// the query returns it unchanged.
type Rewriter struct {
	maxVariants int
}

func NewRewriter(maxVariants int) *Rewriter {
	if maxVariants < 1 {
		maxVariants = 1
	}
	return &Rewriter{maxVariants: maxVariants}
}

// Rewrite resolves pronouns against the most recent domain entity in the
// conversation and produces up to maxVariants retrieval variants. The
// unmodified (contextualized) query is always variant zero. The session
// is the fallback entity source when no turn mentions one.
func (r *Rewriter) Rewrite(query string, turns []store.Turn, session *store.Session) Result {
	primary := query

	entity := strings.ToUpper(entityPattern.FindString(query))
	if entity == "" && r.needsContext(query) {
		entity = r.lastEntity(turns, session)
		if entity != "" {
			primary = r.substitute(query, entity)
		}
	}

	variants := []string{primary}
	for _, acr := range acronymOrder {
		if len(variants) >= r.maxVariants {
			break
		}
		expansion := acronymExpansions[acr]
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(acr) + `\b`)
		if pattern.MatchString(primary) {
			variants = append(variants, pattern.ReplaceAllString(primary, expansion))
		}
	}

	return Result{
		Primary:  primary,
		Variants: variants,
		Entity:   entity,
	}
}

// needsContext reports whether the query is a short follow-up that leans
// on a pronoun and names no domain entity of its own.
func (r *Rewriter) needsContext(query string) bool {
	if len(strings.Fields(query)) > 8 {
		return false
	}
	return pronounPattern.MatchString(query)
}

// lastEntity walks the conversation window newest-first for a domain
// entity mention, falling back to the entity carried on the session.
func (r *Rewriter) lastEntity(turns []store.Turn, session *store.Session) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if m := entityPattern.FindString(turns[i].Text); m != "" {
			return strings.ToUpper(m)
		}
	}
	if session != nil && session.LastEntity != "" {
		return session.LastEntity
	}
	return ""
}

// substitute replaces the first pronoun occurrence with the entity.
func (r *Rewriter) substitute(query, entity string) string {
	loc := pronounPattern.FindStringIndex(query)
	if loc == nil {
		return query
	}
	return query[:loc[0]] + entity + query[loc[1]:]
}
