package events

import (
	"context"
	"time"
)

// Activity event types emitted by the chat core.
const (
	UserRegistered = "USER_REGISTERED"
	UserLoggedIn   = "USER_LOGGED_IN"
	UserLoggedOut  = "USER_LOGGED_OUT"
	SessionStarted = "SESSION_STARTED"
	SessionOpened  = "SESSION_OPENED"
	GuestBlocked   = "GUEST_TURN_BLOCKED"
)

// Event defines the contract for all activity events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGGED_IN").
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds a BaseEvent stamped with the current UTC time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

// Publisher accepts activity events. Implementations must not block the caller
// on slow consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
