package quota

import (
	"testing"

	"synthmind-be/pkg/chat/state"

	"github.com/stretchr/testify/assert"
)

func TestGate_Allow(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		count         int
		want          bool
	}{
		{"guest first turn", false, 1, true},
		{"guest third turn", false, 3, true},
		{"guest fourth turn", false, 4, false},
		{"guest far over", false, 40, false},
		{"user over guest limit", true, 4, true},
		{"user many turns", true, 1000, true},
	}

	gate := NewGate(DefaultGuestTurnLimit)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := state.New("s")
			s.Authenticated = tt.authenticated
			s.InteractionCount = tt.count
			assert.Equal(t, tt.want, gate.Allow(s))
		})
	}
}

func TestNewGate_NegativeLimitFallsBack(t *testing.T) {
	assert.Equal(t, DefaultGuestTurnLimit, NewGate(-1).Limit())
	assert.Equal(t, 0, NewGate(0).Limit())
}

func TestGate_ZeroLimitBlocksFirstGuestTurn(t *testing.T) {
	s := state.New("s")
	s.InteractionCount = 1
	assert.False(t, NewGate(0).Allow(s))
}
