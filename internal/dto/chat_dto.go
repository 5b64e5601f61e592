package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id       uuid.UUID `json:"id"`
	Greeting string    `json:"greeting"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type CitationDTO struct {
	Page   int    `json:"page"`
	Source string `json:"source"`
}

type GetChatHistoryResponse struct {
	Id          uuid.UUID     `json:"id"`
	Role        string        `json:"role"`
	Chat        string        `json:"chat"`
	QualityFlag string        `json:"quality_flag,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Citations   []CitationDTO `json:"citations,omitempty"`
}

type SendChatRequest struct {
	// Omitted session id starts a new session.
	ChatSessionId *uuid.UUID `json:"chat_session_id"`
	Chat          string     `json:"chat" validate:"required,max=2000"`
}

type SendChatResponseChat struct {
	Id          uuid.UUID     `json:"id"`
	Chat        string        `json:"chat"`
	Role        string        `json:"role"`
	QualityFlag string        `json:"quality_flag,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Citations   []CitationDTO `json:"citations,omitempty"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID             `json:"chat_session_id"`
	ChatSessionTitle string                `json:"title"`
	Sent             *SendChatResponseChat `json:"sent"`
	Reply            *SendChatResponseChat `json:"reply"`
	Category         string                `json:"category"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}

type FeedbackRequest struct {
	ChatMessageId uuid.UUID `json:"chat_message_id" validate:"required"`
	Helpful       *bool     `json:"helpful" validate:"required"`
	Comment       string    `json:"comment" validate:"max=1000"`
}
