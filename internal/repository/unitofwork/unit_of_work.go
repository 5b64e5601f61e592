package unitofwork

import (
	"context"

	"policy-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatCitationRepository() contract.ChatCitationRepository
	PolicyChunkRepository() contract.PolicyChunkRepository
	FeedbackRepository() contract.FeedbackRepository
}
