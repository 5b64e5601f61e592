package store

import "strings"

// Chunk structural types as tagged during ingestion.
const (
	ChunkTypeMainText    = "main_text"
	ChunkTypeAnnexure    = "annexure"
	ChunkTypeTable       = "table"
	ChunkTypeChecklist   = "checklist"
	ChunkTypeBoilerplate = "boilerplate"
)

// Passage is a scored span of the policy manual returned by retrieval.
// Passages are never mutated after retrieval, only filtered and reordered.
type Passage struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Page      int     `json:"page"`
	ChunkType string  `json:"chunk_type"`
	Score     float64 `json:"score"`
	Pass      int     `json:"pass"` // retrieval pass (query variant index) that produced it
}

// WordCount counts whitespace-separated tokens in the passage text.
func (p Passage) WordCount() int {
	return len(strings.Fields(p.Text))
}

// ContextPack is the ordered set of passages selected for generation.
// It is rebuilt per query and never shared across invocations.
type ContextPack struct {
	Passages []Passage `json:"passages"`
}

// MaxScore returns the highest passage score in the pack, 0 when empty.
func (c *ContextPack) MaxScore() float64 {
	max := 0.0
	for _, p := range c.Passages {
		if p.Score > max {
			max = p.Score
		}
	}
	return max
}

// TotalWords returns the aggregate word count across all passages.
func (c *ContextPack) TotalWords() int {
	total := 0
	for _, p := range c.Passages {
		total += p.WordCount()
	}
	return total
}

// IsEmpty reports whether the pack holds no passages.
func (c *ContextPack) IsEmpty() bool {
	return len(c.Passages) == 0
}

// CombinedText joins all passage texts, used for numeric grounding checks.
func (c *ContextPack) CombinedText() string {
	var b strings.Builder
	for i, p := range c.Passages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
