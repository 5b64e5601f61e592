package model

import (
	"time"

	"github.com/google/uuid"
)

type MessageFeedback struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatMessageId uuid.UUID `gorm:"type:uuid;not null;index"`
	Helpful       bool      `gorm:"not null"`
	Comment       string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (MessageFeedback) TableName() string {
	return "message_feedback"
}
