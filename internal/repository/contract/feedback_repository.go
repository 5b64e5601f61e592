package contract

import (
	"context"

	"policy-chat-be/internal/entity"

	"github.com/google/uuid"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.MessageFeedback) error
	FindByMessageId(ctx context.Context, messageId uuid.UUID) ([]*entity.MessageFeedback, error)
}
