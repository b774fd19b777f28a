package implementation

import (
	"context"

	"synthmind-be/internal/entity"
	"synthmind-be/internal/mapper"
	"synthmind-be/internal/model"
	"synthmind-be/internal/repository/contract"
	"synthmind-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatHistoryRepository(db *gorm.DB) contract.ChatHistoryRepository {
	return &ChatHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatHistoryRepositoryImpl) Create(ctx context.Context, msg *entity.ChatMessage) error {
	return r.db.WithContext(ctx).Create(r.mapper.ChatMessageToModel(msg)).Error
}

func (r *ChatHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatHistory
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatMessagesToEntities(models), nil
}

func (r *ChatHistoryRepositoryImpl) ListSessions(ctx context.Context, userID string) ([]*entity.ChatSessionSummary, error) {
	sessionID := clause.Column{Name: "Session_ID"}
	title := clause.Column{Name: "Session_Title"}
	sentAt := clause.Column{Name: "DateTime"}

	var rows []*model.ChatSessionRow
	err := r.db.WithContext(ctx).
		Model(&model.ChatHistory{}).
		Select("?, ?", sessionID, title).
		Where(clause.Eq{Column: clause.Column{Name: "UserID"}, Value: userID}).
		Clauses(clause.GroupBy{Columns: []clause.Column{sessionID, title}}).
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "MAX(?) DESC", Vars: []interface{}{sentAt}}}).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*entity.ChatSessionSummary, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, r.mapper.ChatSessionRowToEntity(row))
	}
	return sessions, nil
}
