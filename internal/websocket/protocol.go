package websocket

import (
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/render"
	"synthmind-be/pkg/chat/state"
)

// Inbound frame types.
const (
	TypeLogin         = "login"
	TypeLogout        = "logout"
	TypeRegister      = "register"
	TypeNewChat       = "new_chat"
	TypeListHistory   = "list_history"
	TypeSelectHistory = "select_history"
	TypeSubmitPrompt  = "submit_prompt"
	TypeState         = "state"
)

// Outbound frame types.
const (
	TypeEvent    = "event"
	TypeSessions = "sessions"
	TypeError    = "error"
)

type RegisterPayload struct {
	Name            string `json:"name"`
	Age             int    `json:"age"`
	Gender          string `json:"gender"`
	Country         string `json:"country"`
	City            string `json:"city"`
	UserID          string `json:"user_id"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type InboundFrame struct {
	Type      string           `json:"type"`
	Prompt    string           `json:"prompt,omitempty"`
	UserID    string           `json:"user_id,omitempty"`
	Password  string           `json:"password,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Title     string           `json:"title,omitempty"`
	Register  *RegisterPayload `json:"register,omitempty"`
}

type OutboundFrame struct {
	Type     string                `json:"type"`
	Event    *render.Event         `json:"event,omitempty"`
	State    *state.Snapshot       `json:"state,omitempty"`
	Sessions []chat.SessionSummary `json:"sessions,omitempty"`
	Blocked  bool                  `json:"blocked,omitempty"`
	Message  string                `json:"message,omitempty"`
}
