package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"synthmind-be/internal/entity"
	"synthmind-be/internal/pkg/credential"
	"synthmind-be/internal/pkg/logger"
	"synthmind-be/internal/pkg/metrics"
	"synthmind-be/internal/repository/specification"
	"synthmind-be/internal/repository/unitofwork"
	"synthmind-be/pkg/chat"

	"gorm.io/gorm"
)

const gatewayModule = "PersistenceGateway"

// dummyPassword is hashed once so unknown user ids cost the same as a wrong password.
const dummyPassword = "synthmind-timing-equalizer"

type persistenceGateway struct {
	uowFactory unitofwork.RepositoryFactory
	hasher     credential.Hasher
	logger     logger.ILogger
	clock      *monotonicClock
	dummyHash  string
}

// NewPersistenceGateway builds the store adapter used by the chat core.
// Every operation runs on its own pooled connection.
func NewPersistenceGateway(uowFactory unitofwork.RepositoryFactory, hasher credential.Hasher, log logger.ILogger) chat.Gateway {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		log.Warn(gatewayModule, "Could not prepare dummy hash", map[string]interface{}{"error": err})
	}
	return &persistenceGateway{
		uowFactory: uowFactory,
		hasher:     hasher,
		logger:     log,
		clock:      newMonotonicClock(time.Now),
		dummyHash:  dummy,
	}
}

func (g *persistenceGateway) Register(ctx context.Context, user *chat.UserRecord) error {
	if user == nil || user.UserID == "" {
		return fmt.Errorf("%w: user id is required", chat.ErrInvalidInput)
	}

	hash, err := g.hasher.Hash(user.Password)
	if err != nil {
		return fmt.Errorf("%w: hash password: %v", chat.ErrStore, err)
	}

	registeredAt := g.clock.Now()
	err = g.run(ctx, "register", func(uow unitofwork.UnitOfWork) error {
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()

		existing, err := uow.UserRepository().FindOne(ctx, specification.ByUserID{UserID: user.UserID})
		if err != nil {
			return err
		}
		if existing != nil {
			return chat.ErrAlreadyExists
		}

		if err := uow.UserRepository().Create(ctx, &entity.User{
			UserID:       user.UserID,
			Name:         user.Name,
			Age:          user.Age,
			Gender:       user.Gender,
			Country:      user.Country,
			City:         user.City,
			PasswordHash: hash,
			RegisteredAt: registeredAt,
		}); err != nil {
			return err
		}
		return uow.Commit()
	})

	result := "success"
	switch {
	case errors.Is(err, chat.ErrAlreadyExists):
		result = "duplicate"
	case err != nil:
		result = "error"
	}
	metrics.RecordAuthAttempt("register", result)

	if err != nil {
		return err
	}

	user.RegisteredAt = registeredAt
	g.logger.Info(gatewayModule, "User registered", map[string]interface{}{"user_id": user.UserID})
	return nil
}

// Authenticate returns nil, nil when the id is unknown or the password is wrong.
func (g *persistenceGateway) Authenticate(ctx context.Context, userID, password string) (*chat.UserRecord, error) {
	var found *entity.User
	err := g.run(ctx, "authenticate", func(uow unitofwork.UnitOfWork) error {
		u, err := uow.UserRepository().FindOne(ctx, specification.ByUserID{UserID: userID})
		found = u
		return err
	})
	if err != nil {
		metrics.RecordAuthAttempt("login", "error")
		return nil, err
	}

	if found == nil {
		g.hasher.Compare(g.dummyHash, password)
		metrics.RecordAuthAttempt("login", "rejected")
		return nil, nil
	}
	if !g.hasher.Compare(found.PasswordHash, password) {
		metrics.RecordAuthAttempt("login", "rejected")
		return nil, nil
	}

	metrics.RecordAuthAttempt("login", "success")
	return &chat.UserRecord{
		UserID:       found.UserID,
		Name:         found.Name,
		Age:          found.Age,
		Gender:       found.Gender,
		Country:      found.Country,
		City:         found.City,
		RegisteredAt: found.RegisteredAt,
	}, nil
}

func (g *persistenceGateway) SaveMessage(ctx context.Context, userID, sessionID, sessionTitle string, role chat.Role, content string) error {
	if userID == "" || sessionID == "" {
		return fmt.Errorf("%w: user id and session id are required", chat.ErrInvalidInput)
	}

	msg := &entity.ChatMessage{
		UserID:       userID,
		Role:         string(role),
		Content:      content,
		CreatedAt:    g.clock.Now(),
		SessionID:    sessionID,
		SessionTitle: sessionTitle,
	}
	return g.run(ctx, "save_message", func(uow unitofwork.UnitOfWork) error {
		return uow.ChatHistoryRepository().Create(ctx, msg)
	})
}

func (g *persistenceGateway) ListSessions(ctx context.Context, userID string) ([]chat.SessionSummary, error) {
	var rows []*entity.ChatSessionSummary
	err := g.run(ctx, "list_sessions", func(uow unitofwork.UnitOfWork) error {
		var err error
		rows, err = uow.ChatHistoryRepository().ListSessions(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	sessions := make([]chat.SessionSummary, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, chat.SessionSummary{SessionID: row.SessionID, Title: row.Title})
	}
	return sessions, nil
}

func (g *persistenceGateway) LoadMessages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	var rows []*entity.ChatMessage
	err := g.run(ctx, "load_messages", func(uow unitofwork.UnitOfWork) error {
		var err error
		rows, err = uow.ChatHistoryRepository().FindAll(ctx,
			specification.BySessionID{SessionID: sessionID},
			specification.Chronological{},
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	messages := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, chat.Message{
			Role:      chat.Role(row.Role),
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}
	return messages, nil
}

// run executes fn on a dedicated connection and maps driver errors onto the
// chat error kinds.
func (g *persistenceGateway) run(ctx context.Context, operation string, fn func(uow unitofwork.UnitOfWork) error) error {
	start := time.Now()
	err := classifyStoreError(g.uowFactory.WithConnection(ctx, fn))
	metrics.RecordStorageOperation(operation, err, time.Since(start))

	if err != nil && !errors.Is(err, chat.ErrAlreadyExists) {
		g.logger.Error(gatewayModule, "Store operation failed", map[string]interface{}{
			"operation": operation,
			"error":     err,
		})
	}
	return err
}

func classifyStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, chat.ErrAlreadyExists),
		errors.Is(err, chat.ErrConnectionFailure),
		errors.Is(err, chat.ErrStore),
		errors.Is(err, chat.ErrInvalidInput):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", chat.ErrAlreadyExists, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", chat.ErrConnectionFailure, err)
	default:
		return fmt.Errorf("%w: %v", chat.ErrStore, err)
	}
}

func isConnectionError(err error) bool {
	if errors.Is(err, unitofwork.ErrConnectionUnavailable) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// monotonicClock hands out strictly increasing UTC timestamps at microsecond
// precision so rows written in one process never tie on DateTime.
type monotonicClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newMonotonicClock(now func() time.Time) *monotonicClock {
	return &monotonicClock{now: now}
}

func (c *monotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
