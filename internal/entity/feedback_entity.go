package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageFeedback struct {
	Id            uuid.UUID
	ChatMessageId uuid.UUID
	Helpful       bool
	Comment       string
	CreatedAt     time.Time
}
