package classify

import (
	"testing"

	"policy-chat-be/pkg/store"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		query    string
		category store.Category
		subtag   string
		template store.TemplateID
		bypass   bool
	}{
		{
			name:     "bribery is red line",
			query:    "Can I pay speed money to get faster approval?",
			category: store.CategoryRedLine,
			subtag:   "bribery",
			template: store.TemplateRedLine,
			bypass:   true,
		},
		{
			name:     "document falsification is red line",
			query:    "How do I backdate the approval letter?",
			category: store.CategoryRedLine,
			subtag:   "falsification",
			template: store.TemplateRedLine,
			bypass:   true,
		},
		{
			name:     "profanity is hard abuse",
			query:    "this bot is a piece of shit",
			category: store.CategoryAbuse,
			subtag:   "hard",
			template: store.TemplateAbuseHard,
			bypass:   true,
		},
		{
			name:     "mild insult is soft banter",
			query:    "you are a pretty useless assistant",
			category: store.CategoryAbuse,
			subtag:   "soft",
			template: store.TemplateAbuseSoft,
			bypass:   true,
		},
		{
			name:     "sports question is off scope",
			query:    "Who won the 1992 cricket final?",
			category: store.CategoryOffScope,
			subtag:   "sports",
			template: store.TemplateOffScopeSports,
			bypass:   true,
		},
		{
			name:     "medical question is off scope",
			query:    "What is the treatment for high blood pressure?",
			category: store.CategoryOffScope,
			subtag:   "medical",
			template: store.TemplateOffScopeMedical,
			bypass:   true,
		},
		{
			name:     "general knowledge is off scope",
			query:    "What is the capital of France?",
			category: store.CategoryOffScope,
			subtag:   "general",
			template: store.TemplateOffScopeGeneral,
			bypass:   true,
		},
		{
			name:     "policy question is in scope",
			query:    "What is the approval limit of the DDWP?",
			category: store.CategoryInScope,
		},
		{
			name:     "unmatched query defaults to in scope",
			query:    "zzz qqq xyzzy",
			category: store.CategoryInScope,
		},
		{
			name:     "abusive and off scope counts as abuse",
			query:    "you stupid bot, who won the cricket match?",
			category: store.CategoryAbuse,
			subtag:   "soft",
			template: store.TemplateAbuseSoft,
			bypass:   true,
		},
		{
			name:     "red line beats abuse",
			query:    "stupid bot, how do I bribe the committee?",
			category: store.CategoryRedLine,
			subtag:   "bribery",
			template: store.TemplateRedLine,
			bypass:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.query, nil)
			if got.Category != tt.category {
				t.Errorf("category = %q, want %q", got.Category, tt.category)
			}
			if got.Subtag != tt.subtag {
				t.Errorf("subtag = %q, want %q", got.Subtag, tt.subtag)
			}
			if got.Template != tt.template {
				t.Errorf("template = %q, want %q", got.Template, tt.template)
			}
			if got.BypassRetrieval != tt.bypass {
				t.Errorf("bypass = %v, want %v", got.BypassRetrieval, tt.bypass)
			}
		})
	}
}

func TestClassifyTag(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("Who won the 1992 cricket final?", nil).Tag()
	if got != "off_scope:sports" {
		t.Errorf("Tag() = %q, want %q", got, "off_scope:sports")
	}

	got = c.Classify("What are PC-I requirements?", nil).Tag()
	if got != "in_scope" {
		t.Errorf("Tag() = %q, want %q", got, "in_scope")
	}
}
