package store

// Category is the top-level classification tag for a query.
type Category string

const (
	CategoryInScope  Category = "in_scope"
	CategoryOffScope Category = "off_scope"
	CategoryRedLine  Category = "red_line"
	CategoryAbuse    Category = "abuse"
)

// TemplateID identifies a canned response text in the template table.
type TemplateID string

const (
	TemplateNone             TemplateID = ""
	TemplateRedLine          TemplateID = "RED_LINE_REFUSAL"
	TemplateAbuseHard        TemplateID = "ABUSE_HARD"
	TemplateAbuseSoft        TemplateID = "ABUSE_SOFT"
	TemplateOffScopeMedical  TemplateID = "OFF_SCOPE_MEDICAL"
	TemplateOffScopeSports   TemplateID = "OFF_SCOPE_SPORTS"
	TemplateOffScopePolitics TemplateID = "OFF_SCOPE_POLITICS"
	TemplateOffScopeGeneral  TemplateID = "OFF_SCOPE_GENERAL"
	TemplateInsufficientInfo TemplateID = "INSUFFICIENT_INFO"
	TemplateRetryLater       TemplateID = "RETRY_LATER"
)

// Classification is the total, exhaustive verdict for a query.
// Every query maps to exactly one category; non-retrieval categories
// carry the template to emit and set BypassRetrieval.
type Classification struct {
	Category        Category   `json:"category"`
	Subtag          string     `json:"subtag,omitempty"`
	Template        TemplateID `json:"template,omitempty"`
	BypassRetrieval bool       `json:"bypass_retrieval"`
}

// Tag renders the category with its subtag, e.g. "off_scope:sports".
func (c Classification) Tag() string {
	if c.Subtag == "" {
		return string(c.Category)
	}
	return string(c.Category) + ":" + c.Subtag
}

// Citation points at a page of the policy manual. Citations are unique
// by page within one AnswerResult.
type Citation struct {
	Page   int    `json:"page"`
	Source string `json:"source"`
}

// QualityFlag marks the confidence state of an answer.
type QualityFlag string

const (
	FlagNormal        QualityFlag = "normal"
	FlagLowConfidence QualityFlag = "low_confidence"
	FlagRefused       QualityFlag = "refused"
)

// AnswerResult is the final, immutable output of one pipeline invocation.
type AnswerResult struct {
	Text           string         `json:"text"`
	Citations      []Citation     `json:"citations"`
	Flag           QualityFlag    `json:"flag"`
	Classification Classification `json:"classification"`
}

// Turn is one prior exchange entry used as rewriting context.
type Turn struct {
	Role string `json:"role"` // "user" | "assistant"
	Text string `json:"text"`
}
