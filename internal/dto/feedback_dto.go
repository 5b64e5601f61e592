package dto

import "github.com/google/uuid"

// PublishFeedbackMessage is the payload carried on the feedback topic
// between the HTTP handler and the background consumer.
type PublishFeedbackMessage struct {
	ChatMessageId uuid.UUID `json:"chat_message_id"`
	Helpful       bool      `json:"helpful"`
	Comment       string    `json:"comment,omitempty"`
}
