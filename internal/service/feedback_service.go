package service

import (
	"context"
	"encoding/json"
	"fmt"

	"policy-chat-be/internal/dto"
	"policy-chat-be/internal/repository/specification"
	"policy-chat-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IFeedbackService accepts reader feedback on answers. Persistence
// happens asynchronously in the consumer; the HTTP path only validates
// and enqueues.
type IFeedbackService interface {
	SubmitFeedback(ctx context.Context, userId uuid.UUID, request *dto.FeedbackRequest) error
}

type feedbackService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewFeedbackService(pubSub *gochannel.GoChannel, topicName string, uowFactory unitofwork.RepositoryFactory) IFeedbackService {
	return &feedbackService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (fs *feedbackService) SubmitFeedback(ctx context.Context, userId uuid.UUID, request *dto.FeedbackRequest) error {
	uow := fs.uowFactory.NewUnitOfWork(ctx)

	// The message must exist and belong to one of the caller's sessions.
	msg, err := uow.ChatMessageRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatMessageId},
		specification.NotDeleted{},
	)
	if err != nil {
		return fmt.Errorf("failed to load message: %w", err)
	}
	if msg == nil {
		return fiber.NewError(fiber.StatusNotFound, "chat message not found")
	}
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: msg.ChatSessionId},
		specification.NotDeleted{},
	)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.UserId != userId {
		return fiber.NewError(fiber.StatusNotFound, "chat message not found")
	}

	payload, err := json.Marshal(dto.PublishFeedbackMessage{
		ChatMessageId: request.ChatMessageId,
		Helpful:       *request.Helpful,
		Comment:       request.Comment,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal feedback payload: %w", err)
	}

	return fs.pubSub.Publish(fs.topicName, message.NewMessage(watermill.NewUUID(), payload))
}
