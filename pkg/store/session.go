package store

// Session holds the short-lived per-conversation state kept in memory
// between turns: the last query and the last concrete policy entity the
// user referred to (a form or forum name). The rewriter falls back to
// LastEntity when a follow-up query carries only pronouns.
type Session struct {
	ID         string `json:"id"` // ChatSessionID
	UserID     string `json:"user_id"`
	LastQuery  string `json:"last_query"`
	LastEntity string `json:"last_entity"`
}
