package mapper

import (
	"testing"
	"time"

	"policy-chat-be/internal/entity"
	"policy-chat-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestChatSessionRoundTrip(t *testing.T) {
	m := NewChatMapper()
	now := time.Now()
	updated := now.Add(time.Minute)

	e := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Title:     "DDWP approval limits",
		CreatedAt: now,
		UpdatedAt: &updated,
	}

	got := m.ChatSessionToEntity(m.ChatSessionToModel(e))
	assert.Equal(t, e.Id, got.Id)
	assert.Equal(t, e.UserId, got.UserId)
	assert.Equal(t, e.Title, got.Title)
	assert.False(t, got.IsDeleted)
	assert.NotNil(t, got.UpdatedAt)
}

func TestChatSessionSoftDelete(t *testing.T) {
	m := NewChatMapper()
	s := &model.ChatSession{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Title:     "Untitled",
		CreatedAt: time.Now(),
		DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true},
	}

	e := m.ChatSessionToEntity(s)
	assert.True(t, e.IsDeleted)
	assert.NotNil(t, e.DeletedAt)

	back := m.ChatSessionToModel(e)
	assert.True(t, back.DeletedAt.Valid)
}

func TestChatMessageCarriesTrace(t *testing.T) {
	m := NewChatMapper()
	trace := []byte(`{"classification":"in_scope"}`)

	msg := &model.ChatMessage{
		Id:            uuid.New(),
		Chat:          "The DDWP can approve projects up to Rs. 2000 million.",
		Role:          "model",
		QualityFlag:   "normal",
		Trace:         datatypes.JSON(trace),
		ChatSessionId: uuid.New(),
		CreatedAt:     time.Now(),
	}

	e := m.ChatMessageToEntity(msg)
	assert.Equal(t, trace, e.Trace)
	assert.Equal(t, "model", e.Role)

	back := m.ChatMessageToModel(e)
	assert.Equal(t, datatypes.JSON(trace), back.Trace)
	assert.Equal(t, msg.QualityFlag, back.QualityFlag)
}

func TestNilMappings(t *testing.T) {
	m := NewChatMapper()
	assert.Nil(t, m.ChatSessionToEntity(nil))
	assert.Nil(t, m.ChatSessionToModel(nil))
	assert.Nil(t, m.ChatMessageToEntity(nil))
	assert.Nil(t, m.ChatMessageToModel(nil))
	assert.Nil(t, m.ChatCitationToEntity(nil))
	assert.Nil(t, m.ChatCitationToModel(nil))
}
