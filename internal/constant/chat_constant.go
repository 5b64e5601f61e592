package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// Source label attached to every citation. The service answers against
	// a single fixed document, so the label is a constant.
	CitationSourceLabel = "Public Investment Policy Manual"

	ChatSessionDefaultTitle = "Unnamed session"
	ChatGreetingMessage     = "Hi, I can answer questions about the public investment policy manual. What would you like to know?"
)

// AnswerGenerationPrompt frames the retrieved passages for the generator.
// Placeholders: context block, user question.
const AnswerGenerationPrompt = `<reference_material>
The following numbered excerpts come from the Public Investment Policy Manual.
They are the ONLY permitted data source. Do not use outside knowledge.

%s
</reference_material>

<rules>
1. Answer only from the excerpts above.
2. Quote monetary amounts, percentages, and durations exactly as written.
3. If the excerpts do not cover the question, say the manual does not specify it.
4. Be direct and concise; no preamble.
</rules>

Question: %s

Answer:`
