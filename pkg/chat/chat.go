// Package chat holds the domain types shared by the session state machine,
// the quota gate and the conversation orchestrator.
package chat

import (
	"context"
	"errors"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation buffer. It is never mutated after creation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionSummary is one row of the history sidebar.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

// UserRecord is the registration payload and the result of a successful authentication.
type UserRecord struct {
	UserID       string
	Name         string
	Age          int
	Gender       string
	Country      string
	City         string
	Password     string
	RegisteredAt time.Time
}

var (
	ErrConnectionFailure   = errors.New("store unreachable")
	ErrAlreadyExists       = errors.New("user id already exists")
	ErrStore               = errors.New("store error")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotAuthenticated    = errors.New("login required")
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrQuotaExceeded       = errors.New("guest turn limit reached")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownConversation = errors.New("conversation not found or expired")
	ErrSessionNotFound     = errors.New("chat session not found")
)

// MessageSaver is the slice of the persistence gateway the orchestrator needs.
type MessageSaver interface {
	SaveMessage(ctx context.Context, userID, sessionID, sessionTitle string, role Role, content string) error
}

// Gateway is the persistence boundary of the chat core. Every call acquires
// and releases its own connection.
type Gateway interface {
	MessageSaver
	Register(ctx context.Context, user *UserRecord) error
	Authenticate(ctx context.Context, userID, password string) (*UserRecord, error)
	ListSessions(ctx context.Context, userID string) ([]SessionSummary, error)
	LoadMessages(ctx context.Context, sessionID string) ([]Message, error)
}
