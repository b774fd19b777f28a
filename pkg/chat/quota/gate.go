package quota

import "synthmind-be/pkg/chat/state"

const DefaultGuestTurnLimit = 3

const BlockedNotice = "To continue chatting with SynthMind, please login or register."

// Gate limits how many turns an unauthenticated visitor may take.
type Gate struct {
	limit int
}

func NewGate(limit int) *Gate {
	if limit < 0 {
		limit = DefaultGuestTurnLimit
	}
	return &Gate{limit: limit}
}

func (g *Gate) Limit() int {
	return g.limit
}

// Allow must be called after the interaction counter has been incremented
// for the current prompt. Guests are refused once the counter exceeds the limit.
func (g *Gate) Allow(s *state.ChatState) bool {
	if s.Authenticated {
		return true
	}
	return s.InteractionCount <= g.limit
}
