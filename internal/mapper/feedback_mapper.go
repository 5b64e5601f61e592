package mapper

import (
	"policy-chat-be/internal/entity"
	"policy-chat-be/internal/model"
)

type FeedbackMapper struct{}

func NewFeedbackMapper() *FeedbackMapper {
	return &FeedbackMapper{}
}

func (m *FeedbackMapper) ToEntity(f *model.MessageFeedback) *entity.MessageFeedback {
	if f == nil {
		return nil
	}

	return &entity.MessageFeedback{
		Id:            f.Id,
		ChatMessageId: f.ChatMessageId,
		Helpful:       f.Helpful,
		Comment:       f.Comment,
		CreatedAt:     f.CreatedAt,
	}
}

func (m *FeedbackMapper) ToModel(f *entity.MessageFeedback) *model.MessageFeedback {
	if f == nil {
		return nil
	}

	return &model.MessageFeedback{
		Id:            f.Id,
		ChatMessageId: f.ChatMessageId,
		Helpful:       f.Helpful,
		Comment:       f.Comment,
		CreatedAt:     f.CreatedAt,
	}
}
