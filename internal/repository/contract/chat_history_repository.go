package contract

import (
	"context"

	"synthmind-be/internal/entity"
	"synthmind-be/internal/repository/specification"
)

type ChatHistoryRepository interface {
	Create(ctx context.Context, msg *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)

	// ListSessions groups a user's messages by session, most recently active first.
	ListSessions(ctx context.Context, userID string) ([]*entity.ChatSessionSummary, error)
}
