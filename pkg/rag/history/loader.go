package history

import (
	"context"

	"policy-chat-be/internal/constant"
	"policy-chat-be/internal/repository/specification"
	"policy-chat-be/internal/repository/unitofwork"
	"policy-chat-be/pkg/store"

	"github.com/google/uuid"
)

// Loader reads the recent conversation window used by classification
// and query rewriting. Reads go through their own unit of work so the
// window never observes a caller's open transaction.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{uowFactory: uowFactory}
}

// RecentTurns returns up to n prior turns for the session, oldest first.
func (l *Loader) RecentTurns(ctx context.Context, sessionID uuid.UUID, n int) ([]store.Turn, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionID},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: n, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	// Query was newest-first; present oldest-first.
	turns := make([]store.Turn, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		role := "user"
		if messages[i].Role == constant.ChatMessageRoleModel {
			role = "assistant"
		}
		turns = append(turns, store.Turn{
			Role: role,
			Text: messages[i].Chat,
		})
	}
	return turns, nil
}
