package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"policy-chat-be/internal/constant"
	"policy-chat-be/internal/dto"
	"policy-chat-be/internal/entity"
	"policy-chat-be/internal/repository/memory"
	"policy-chat-be/internal/repository/specification"
	"policy-chat-be/internal/repository/unitofwork"
	"policy-chat-be/pkg/events"
	"policy-chat-be/pkg/nats"
	"policy-chat-be/pkg/rag/executor"
	"policy-chat-be/pkg/rag/history"
	"policy-chat-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const conversationWindow = 6

// IChatService defines the chat surface of the application.
type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

type chatService struct {
	uowFactory    unitofwork.RepositoryFactory
	pipeline      *executor.Pipeline
	historyLoader *history.Loader
	sessionRepo   *memory.SessionRepository
	publisher     *nats.Publisher
	ragLogger     *log.Logger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline *executor.Pipeline,
	sessionRepo *memory.SessionRepository,
	publisher *nats.Publisher,
	ragLogger *log.Logger,
) IChatService {
	return &chatService{
		uowFactory:    uowFactory,
		pipeline:      pipeline,
		historyLoader: history.NewLoader(uowFactory),
		sessionRepo:   sessionRepo,
		publisher:     publisher,
		ragLogger:     ragLogger,
	}
}

// InitRagLogger opens the append-only pipeline log file, falling back to
// stdout when the logs directory cannot be created.
func InitRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "rag_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.ChatSessionDefaultTitle,
		CreatedAt: now,
	}
	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          constant.ChatGreetingMessage,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, fmt.Errorf("failed to create greeting message: %w", err)
	}

	return &dto.CreateSessionResponse{
		Id:       chatSession.Id,
		Greeting: constant.ChatGreetingMessage,
	}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]*dto.GetAllSessionsResponse, len(sessions))
	for i, s := range sessions {
		responses[i] = &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		}
	}
	return responses, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	messageIds := make([]uuid.UUID, len(messages))
	for i, m := range messages {
		messageIds[i] = m.Id
	}
	citations, err := uow.ChatCitationRepository().FindByMessageIds(ctx, messageIds)
	if err != nil {
		return nil, fmt.Errorf("failed to load citations: %w", err)
	}
	citationsByMessage := make(map[uuid.UUID][]dto.CitationDTO)
	for _, c := range citations {
		citationsByMessage[c.ChatMessageId] = append(citationsByMessage[c.ChatMessageId], dto.CitationDTO{
			Page:   c.Page,
			Source: c.Source,
		})
	}

	responses := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, m := range messages {
		responses[i] = &dto.GetChatHistoryResponse{
			Id:          m.Id,
			Role:        m.Role,
			Chat:        m.Chat,
			QualityFlag: m.QualityFlag,
			CreatedAt:   m.CreatedAt,
			Citations:   citationsByMessage[m.Id],
		}
	}
	return responses, nil
}

func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	// Resolve or create the session before opening the transaction.
	var chatSession *entity.ChatSession
	if request.ChatSessionId == nil {
		created, err := cs.CreateSession(ctx, userId)
		if err != nil {
			return nil, err
		}
		chatSession, err = cs.ownedSession(ctx, uow, userId, created.Id)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		chatSession, err = cs.ownedSession(ctx, uow, userId, *request.ChatSessionId)
		if err != nil {
			return nil, err
		}
	}

	// Conversation window is read before the new user message is saved,
	// so rewriting never sees the query it is contextualizing.
	turns, err := cs.historyLoader.RecentTurns(ctx, chatSession.Id, conversationWindow)
	if err != nil {
		cs.ragLogger.Printf("[WARN] Failed to load conversation window: %v", err)
		turns = nil
	}

	priorMessages, err := uow.ChatMessageRepository().Count(ctx,
		specification.ByChatSessionID{ChatSessionID: chatSession.Id},
		specification.NotDeleted{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          request.Chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	result, trace := cs.pipeline.Run(ctx, chatSession.Id.String(), userId.String(), request.Chat, turns)

	traceJSON, err := json.Marshal(trace)
	if err != nil {
		traceJSON = nil
	}
	modelMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          result.Text,
		Role:          constant.ChatMessageRoleModel,
		QualityFlag:   string(result.Flag),
		Trace:         traceJSON,
		ChatSessionId: chatSession.Id,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &modelMessage); err != nil {
		return nil, fmt.Errorf("failed to save model message: %w", err)
	}

	citationDTOs := make([]dto.CitationDTO, 0, len(result.Citations))
	if len(result.Citations) > 0 {
		citationEntities := make([]*entity.ChatCitation, len(result.Citations))
		for i, c := range result.Citations {
			citationEntities[i] = &entity.ChatCitation{
				Id:            uuid.New(),
				ChatMessageId: modelMessage.Id,
				Page:          c.Page,
				Source:        c.Source,
				CreatedAt:     time.Now(),
			}
			citationDTOs = append(citationDTOs, dto.CitationDTO{Page: c.Page, Source: c.Source})
		}
		if err := uow.ChatCitationRepository().CreateBatch(ctx, citationEntities); err != nil {
			return nil, fmt.Errorf("failed to save citations: %w", err)
		}
	}

	// First user message titles the session (only the greeting preceded it).
	if priorMessages == 1 && chatSession.Title == constant.ChatSessionDefaultTitle {
		chatSession.Title = sessionTitle(request.Chat)
		if err := uow.ChatSessionRepository().Update(ctx, chatSession); err != nil {
			return nil, fmt.Errorf("failed to update session title: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit chat: %w", err)
	}

	cs.publishAnswerRecorded(chatSession.Id, modelMessage.Id, result)

	return &dto.SendChatResponse{
		ChatSessionId:    chatSession.Id,
		ChatSessionTitle: chatSession.Title,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Chat,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:          modelMessage.Id,
			Chat:        modelMessage.Chat,
			Role:        modelMessage.Role,
			QualityFlag: modelMessage.QualityFlag,
			CreatedAt:   modelMessage.CreatedAt,
			Citations:   citationDTOs,
		},
		Category: result.Classification.Tag(),
	}, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.ownedSession(ctx, uow, userId, request.ChatSessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, request.ChatSessionId); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if err := uow.ChatSessionRepository().Delete(ctx, request.ChatSessionId); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	cs.sessionRepo.Delete(request.ChatSessionId.String())
	return nil
}

// ownedSession loads the session and enforces user ownership.
func (cs *chatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	chatSession, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.NotDeleted{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if chatSession == nil || chatSession.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "chat session not found")
	}
	return chatSession, nil
}

func (cs *chatService) publishAnswerRecorded(sessionId, messageId uuid.UUID, result store.AnswerResult) {
	if cs.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	event := events.NewAnswerRecordedEvent(
		sessionId.String(),
		messageId.String(),
		result.Classification.Tag(),
		string(result.Flag),
		len(result.Citations),
	)
	if err := cs.publisher.Publish(ctx, event); err != nil {
		cs.ragLogger.Printf("[WARN] Failed to publish answer event: %v", err)
	}
}

// sessionTitle derives a short title from the first user message.
func sessionTitle(chat string) string {
	const maxTitle = 60
	runes := []rune(chat)
	if len(runes) <= maxTitle {
		return chat
	}
	return string(runes[:maxTitle]) + "..."
}
