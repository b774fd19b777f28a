package mapper

import (
	"synthmind-be/internal/entity"
	"synthmind-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatHistory) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		UserID:       msg.UserID,
		Role:         msg.Role,
		Content:      msg.Content,
		CreatedAt:    msg.DateTime,
		SessionID:    msg.SessionID,
		SessionTitle: msg.SessionTitle,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatHistory {
	if msg == nil {
		return nil
	}
	return &model.ChatHistory{
		UserID:       msg.UserID,
		Role:         msg.Role,
		Content:      msg.Content,
		DateTime:     msg.CreatedAt,
		SessionID:    msg.SessionID,
		SessionTitle: msg.SessionTitle,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(msgs []*model.ChatHistory) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}

// Session Mappers

func (m *ChatMapper) ChatSessionRowToEntity(row *model.ChatSessionRow) *entity.ChatSessionSummary {
	if row == nil {
		return nil
	}
	return &entity.ChatSessionSummary{
		SessionID: row.SessionID,
		Title:     row.SessionTitle,
	}
}
