package numeric

import (
	"strings"
	"testing"

	"policy-chat-be/pkg/store"
)

func packWith(texts ...string) *store.ContextPack {
	passages := make([]store.Passage, len(texts))
	for i, t := range texts {
		passages[i] = store.Passage{Text: t, Page: i + 1}
	}
	return &store.ContextPack{Passages: passages}
}

func TestValidateCleanWhenGrounded(t *testing.T) {
	v := NewValidator()
	pack := packWith("The DDWP may approve projects costing up to Rs. 2,000 million.")

	answer := "The DDWP can approve projects up to Rs. 2,000 million."
	got, action := v.Validate(answer, pack, true)

	if action != ActionClean {
		t.Errorf("action = %v, want clean", action)
	}
	if got != answer {
		t.Errorf("text changed: %q", got)
	}
}

func TestValidateAcceptsOCREquivalents(t *testing.T) {
	v := NewValidator()
	pack := packWith("The fee shall not exceed Rs. 5OO per application.")

	_, action := v.Validate("The fee is Rs. 500 per application.", pack, true)

	if action != ActionClean {
		t.Errorf("action = %v, want clean for OCR-equivalent 5OO", action)
	}
}

func TestValidateAcceptsCommaVariants(t *testing.T) {
	v := NewValidator()
	pack := packWith("approval limit of Rs. 2000 million applies")

	_, action := v.Validate("The limit is Rs. 2,000 million.", pack, false)

	if action != ActionClean {
		t.Errorf("action = %v, want clean for comma variant", action)
	}
}

func TestValidateStripsUngroundedSentence(t *testing.T) {
	v := NewValidator()
	pack := packWith("Projects are approved by the working party after appraisal. The limit is Rs. 75 million.")

	answer := "The limit is Rs. 75 million. Processing takes 45 days."
	got, action := v.Validate(answer, pack, false)

	if action != ActionStripped {
		t.Fatalf("action = %v, want stripped", action)
	}
	if !strings.Contains(got, "75 million") {
		t.Errorf("grounded sentence lost: %q", got)
	}
	if strings.Contains(got, "45 days") {
		t.Errorf("ungrounded sentence kept: %q", got)
	}
}

func TestValidateRefusesNumericIntentWithoutSupport(t *testing.T) {
	v := NewValidator()
	pack := packWith("Projects are approved by the competent forum after appraisal.")

	_, action := v.Validate("The limit is Rs. 500 million.", pack, true)

	if action != ActionRefused {
		t.Errorf("action = %v, want refused for numeric intent with no grounded figure", action)
	}
}

func TestValidateRefusesWhenNothingSurvives(t *testing.T) {
	v := NewValidator()
	pack := packWith("Projects are approved by the competent forum after appraisal.")

	_, action := v.Validate("Processing takes 45 days.", pack, false)

	if action != ActionRefused {
		t.Errorf("action = %v, want refused when stripping empties the answer", action)
	}
}

func TestValidateNoNumbersIsClean(t *testing.T) {
	v := NewValidator()
	pack := packWith("anything")

	answer := "The working party reviews the proforma before approval."
	got, action := v.Validate(answer, pack, false)

	if action != ActionClean || got != answer {
		t.Errorf("numberless answer must pass untouched, got %q action %v", got, action)
	}
}

func TestHasNumericIntent(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"What is the approval limit of the DDWP?", true},
		{"How much does a PC-I cost to prepare?", true},
		{"What percentage goes to contingencies?", true},
		{"Who chairs the working party?", false},
		{"Describe the approval process.", false},
	}
	for _, tt := range tests {
		if got := HasNumericIntent(tt.query); got != tt.want {
			t.Errorf("HasNumericIntent(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
