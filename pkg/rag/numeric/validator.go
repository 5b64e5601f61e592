package numeric

import (
	"regexp"
	"strings"

	"policy-chat-be/pkg/metrics"
	"policy-chat-be/pkg/store"
)

// Action reports what the validator did to the draft answer.
type Action string

const (
	ActionClean    Action = "clean"    // every number grounded, text untouched
	ActionStripped Action = "stripped" // offending sentences removed
	ActionRefused  Action = "refused"  // whole answer replaced upstream
)

var (
	// answerToken matches numeric claims in generated text: plain
	// numbers, thousand-separated amounts, decimals, percentages.
	answerToken = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?%?`)

	// contextToken additionally admits common OCR confusions so a
	// figure scanned as "Rs. 5OO" still grounds "Rs. 500".
	contextToken = regexp.MustCompile(`[\dOoIlSB][\dOoIlSB,]*(?:\.[\dOoIlSB]+)?%?`)

	numericIntentPattern = regexp.MustCompile(`(?i)\b(how much|how many|limit|cost|amount|percentage|percent|rate|fee|ceiling|threshold|million|billion)\b`)
)

// ocrNormalizer maps OCR-confusable letters onto the digits they are
// misread from. Commas and spaces are stripped separately.
var ocrNormalizer = strings.NewReplacer(
	"O", "0", "o", "0",
	"I", "1", "l", "1",
	"S", "5", "B", "8",
	",", "", " ", "",
)

// HasNumericIntent reports whether the query explicitly asks for a
// figure. Numeric-intent queries escalate stripping to full refusal
// when no grounded number survives.
func HasNumericIntent(query string) bool {
	return numericIntentPattern.MatchString(query)
}

// Validator checks that every numeric token in a draft answer also
// appears, exactly or OCR-equivalent, somewhere in the context pack.
// Ungrounded numbers never reach the user.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns the cleaned text and the action taken. When the
// action is ActionRefused the returned text must be discarded and
// replaced with the insufficient-information template by the caller.
func (v *Validator) Validate(answer string, pack *store.ContextPack, numericIntent bool) (string, Action) {
	tokens := answerToken.FindAllString(answer, -1)
	if len(tokens) == 0 {
		metrics.NumericActionsTotal.WithLabelValues(string(ActionClean)).Inc()
		return answer, ActionClean
	}

	grounded := contextTokenSet(pack.CombinedText())

	unsupported := false
	supported := false
	for _, tok := range tokens {
		if _, ok := grounded[canonical(tok)]; ok {
			supported = true
		} else {
			unsupported = true
		}
	}

	if !unsupported {
		metrics.NumericActionsTotal.WithLabelValues(string(ActionClean)).Inc()
		return answer, ActionClean
	}

	if numericIntent && !supported {
		metrics.NumericActionsTotal.WithLabelValues(string(ActionRefused)).Inc()
		return "", ActionRefused
	}

	cleaned := v.stripUngroundedSentences(answer, grounded)
	if strings.TrimSpace(cleaned) == "" {
		metrics.NumericActionsTotal.WithLabelValues(string(ActionRefused)).Inc()
		return "", ActionRefused
	}

	metrics.NumericActionsTotal.WithLabelValues(string(ActionStripped)).Inc()
	return cleaned, ActionStripped
}

// stripUngroundedSentences drops every sentence containing a numeric
// token absent from the context.
func (v *Validator) stripUngroundedSentences(answer string, grounded map[string]struct{}) string {
	sentences := SplitSentences(answer)
	kept := make([]string, 0, len(sentences))
	for _, s := range sentences {
		ok := true
		for _, tok := range answerToken.FindAllString(s, -1) {
			if _, found := grounded[canonical(tok)]; !found {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, s)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// abbreviations that end in a period mid-sentence; "Rs." in particular
// precedes almost every amount in the manual.
var abbreviations = map[string]bool{
	"rs": true, "no": true, "vol": true, "para": true, "sec": true,
	"i.e": true, "e.g": true, "viz": true, "approx": true,
}

// SplitSentences breaks text on sentence-final punctuation, keeping the
// punctuation with its sentence. A period after a known abbreviation
// does not end a sentence. Shared with the composer so truncation and
// stripping agree on sentence boundaries.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	var b strings.Builder

	for i, r := range runes {
		b.WriteRune(r)
		if r == '!' || r == '?' || (r == '.' && periodEndsSentence(runes, i)) {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func periodEndsSentence(runes []rune, i int) bool {
	if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\n' && runes[i+1] != '\t' {
		return false
	}
	// word immediately before the period
	end := i
	start := end
	for start > 0 && runes[start-1] != ' ' && runes[start-1] != '\n' && runes[start-1] != '\t' {
		start--
	}
	word := strings.ToLower(strings.Trim(string(runes[start:end]), "(.,;:"))
	return !abbreviations[word]
}

// contextTokenSet collects every canonical numeric form in the context.
// A token must contain at least one true digit; this keeps OCR variants
// like "5OO" while ignoring letter runs inside ordinary words.
func contextTokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range contextToken.FindAllString(text, -1) {
		if !strings.ContainsAny(tok, "0123456789") {
			continue
		}
		set[canonical(tok)] = struct{}{}
	}
	return set
}

// canonical normalizes a numeric token: OCR letters to digits, commas
// and spaces removed, trailing punctuation trimmed.
func canonical(tok string) string {
	c := ocrNormalizer.Replace(tok)
	c = strings.TrimRight(c, ".")
	return c
}
