package contract

import (
	"context"

	"policy-chat-be/internal/entity"

	"github.com/google/uuid"
)

type ChatCitationRepository interface {
	CreateBatch(ctx context.Context, citations []*entity.ChatCitation) error
	FindByMessageIds(ctx context.Context, messageIds []uuid.UUID) ([]*entity.ChatCitation, error)
	DeleteByMessageId(ctx context.Context, messageId uuid.UUID) error
}
