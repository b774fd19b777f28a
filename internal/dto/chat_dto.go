package dto

import (
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/render"
	"synthmind-be/pkg/chat/state"
)

type CreateConversationResponse struct {
	Token string         `json:"token"`
	State state.Snapshot `json:"state"`
}

type PromptRequest struct {
	Prompt string `json:"prompt" validate:"max=8000"`
}

type SelectHistoryRequest struct {
	SessionID string `json:"session_id" validate:"required,max=64"`
	Title     string `json:"title" validate:"max=255"`
}

// EventResponse carries what the UI must draw after an event, plus the
// resulting state.
type EventResponse struct {
	Events []render.Event `json:"events"`
	State  state.Snapshot `json:"state"`
}

type TurnResponse struct {
	EventResponse
	Blocked     bool `json:"blocked"`
	ModelFailed bool `json:"model_failed"`
}

type HistoryResponse struct {
	EventResponse
	Sessions []chat.SessionSummary `json:"sessions"`
}
