package events

import "time"

const (
	EventAnswerRecorded   = "ANSWER_RECORDED"
	EventFeedbackReceived = "FEEDBACK_RECEIVED"
)

// NewAnswerRecordedEvent is published after every finished pipeline
// invocation, refusals included, for downstream analytics.
func NewAnswerRecordedEvent(sessionID, messageID, categoryTag string, qualityFlag string, citationCount int) Event {
	return BaseEvent{
		Type: EventAnswerRecorded,
		Data: map[string]interface{}{
			"session_id":     sessionID,
			"message_id":     messageID,
			"category":       categoryTag,
			"quality_flag":   qualityFlag,
			"citation_count": citationCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewFeedbackReceivedEvent(messageID string, helpful bool) Event {
	return BaseEvent{
		Type: EventFeedbackReceived,
		Data: map[string]interface{}{
			"message_id": messageID,
			"helpful":    helpful,
		},
		OccurredAt: time.Now(),
	}
}
