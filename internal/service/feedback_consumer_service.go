package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"policy-chat-be/internal/dto"
	"policy-chat-be/internal/entity"
	"policy-chat-be/internal/repository/specification"
	"policy-chat-be/internal/repository/unitofwork"
	"policy-chat-be/pkg/events"
	"policy-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the feedback topic: each message is persisted
// and forwarded to the NATS bus for analytics.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	publisher  *nats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	publisher *nats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishFeedbackMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal feedback message: %v", err)
		msg.Ack() // invalid payload will never parse, do not retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatMessage, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: payload.ChatMessageId})
	if err != nil {
		log.Printf("[ERROR] Failed to load message %s: %v", payload.ChatMessageId, err)
		msg.Nack()
		return
	}
	if chatMessage == nil {
		log.Printf("[WARN] Feedback for deleted message %s, dropping", payload.ChatMessageId)
		msg.Ack()
		return
	}

	feedback := entity.MessageFeedback{
		Id:            uuid.New(),
		ChatMessageId: payload.ChatMessageId,
		Helpful:       payload.Helpful,
		Comment:       payload.Comment,
		CreatedAt:     time.Now(),
	}
	if err := uow.FeedbackRepository().Create(ctx, &feedback); err != nil {
		log.Printf("[ERROR] Failed to persist feedback: %v", err)
		msg.Nack()
		return
	}

	if cs.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		event := events.NewFeedbackReceivedEvent(payload.ChatMessageId.String(), payload.Helpful)
		if err := cs.publisher.Publish(pubCtx, event); err != nil {
			log.Printf("[WARN] Failed to publish feedback event: %v", err)
		}
		cancel()
	}

	log.Printf("[INFO] Feedback recorded for message %s (helpful=%v)", payload.ChatMessageId, payload.Helpful)
	msg.Ack()
}
