package state

import (
	"sync"

	"synthmind-be/pkg/chat"
)

type Phase string

const (
	PhaseAnonymousEmpty  Phase = "ANONYMOUS_EMPTY"
	PhaseAnonymousActive Phase = "ANONYMOUS_ACTIVE"
	PhaseBound           Phase = "BOUND"
	PhaseViewing         Phase = "VIEWING"
)

// ChatState is the per-visitor session context. One ChatState belongs to one
// browser conversation or one websocket connection and is never shared
// between visitors.
type ChatState struct {
	mu sync.Mutex

	ID               string
	Authenticated    bool
	UserID           string
	UserName         string
	Messages         []chat.Message
	SessionID        string
	SessionTitle     string
	InteractionCount int

	// Viewing is set when the buffer was loaded from stored history.
	Viewing bool

	// Stored counts the leading messages that were loaded from storage.
	Stored int
}

func New(id string) *ChatState {
	return &ChatState{
		ID:       id,
		Messages: []chat.Message{},
	}
}

// Lock serializes UI events for this visitor.
func (s *ChatState) Lock()   { s.mu.Lock() }
func (s *ChatState) Unlock() { s.mu.Unlock() }

func (s *ChatState) Phase() Phase {
	switch {
	case s.Viewing:
		return PhaseViewing
	case s.Authenticated:
		return PhaseBound
	case len(s.Messages) == 0:
		return PhaseAnonymousEmpty
	default:
		return PhaseAnonymousActive
	}
}

// HasSession reports whether a Session_ID has been minted.
func (s *ChatState) HasSession() bool {
	return s.SessionID != ""
}

// Append adds a message at the tail of the buffer.
func (s *ChatState) Append(msg chat.Message) {
	s.Messages = append(s.Messages, msg)
}

// History returns a copy of the buffer in chronological order.
func (s *ChatState) History() []chat.Message {
	out := make([]chat.Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// Unsaved returns the messages added since the buffer was loaded from storage.
func (s *ChatState) Unsaved() []chat.Message {
	if s.Stored >= len(s.Messages) {
		return nil
	}
	return s.Messages[s.Stored:]
}

// ResetConversation drops the buffer and the session identity, keeping auth and counter.
func (s *ChatState) ResetConversation() {
	s.Messages = []chat.Message{}
	s.SessionID = ""
	s.SessionTitle = ""
	s.Viewing = false
	s.Stored = 0
}

// Snapshot is a read-only view returned to clients.
type Snapshot struct {
	Authenticated    bool           `json:"authenticated"`
	UserID           string         `json:"user_id,omitempty"`
	Phase            Phase          `json:"phase"`
	SessionID        string         `json:"session_id,omitempty"`
	SessionTitle     string         `json:"session_title,omitempty"`
	Messages         []chat.Message `json:"messages"`
	InteractionCount int            `json:"interaction_count"`
	GuestTurnsLeft   int            `json:"guest_turns_left"`
}

// Snapshot captures the current state. guestLimit is the quota gate limit.
func (s *ChatState) Snapshot(guestLimit int) Snapshot {
	left := 0
	if !s.Authenticated && s.InteractionCount < guestLimit {
		left = guestLimit - s.InteractionCount
	}
	return Snapshot{
		Authenticated:    s.Authenticated,
		UserID:           s.UserID,
		Phase:            s.Phase(),
		SessionID:        s.SessionID,
		SessionTitle:     s.SessionTitle,
		Messages:         s.History(),
		InteractionCount: s.InteractionCount,
		GuestTurnsLeft:   left,
	}
}
