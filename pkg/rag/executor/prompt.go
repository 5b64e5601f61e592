package executor

import (
	"fmt"
	"strings"

	"policy-chat-be/internal/constant"
	"policy-chat-be/pkg/store"
)

// BuildPrompt serializes the context pack into the generation prompt as
// numbered excerpts with page provenance.
func BuildPrompt(pack *store.ContextPack, question string) string {
	var b strings.Builder
	for i, p := range pack.Passages {
		fmt.Fprintf(&b, "[%d] (page %d) %s\n\n", i+1, p.Page, strings.TrimSpace(p.Text))
	}
	return fmt.Sprintf(constant.AnswerGenerationPrompt, strings.TrimSpace(b.String()), question)
}
