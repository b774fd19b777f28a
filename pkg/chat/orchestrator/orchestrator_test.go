package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"synthmind-be/internal/pkg/logger"
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/chattest"
	"synthmind-be/pkg/chat/quota"
	"synthmind-be/pkg/chat/render"
	"synthmind-be/pkg/chat/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(model *chattest.FakeLLM, store chat.MessageSaver, timeout time.Duration) *Orchestrator {
	o := New(model, store, quota.NewGate(quota.DefaultGuestTurnLimit), logger.NewNopLogger(), timeout)
	n := 0
	o.newID = func() string {
		n++
		return fmt.Sprintf("session-%d", n)
	}
	return o
}

func TestTurn_GuestGetsThreeTurnsThenBlocked(t *testing.T) {
	model := &chattest.FakeLLM{Reply: "ok"}
	store := chattest.NewFakeGateway()
	o := newTestOrchestrator(model, store, 0)
	s := state.New("v")

	for i := 1; i <= 3; i++ {
		res := o.Turn(context.Background(), s, fmt.Sprintf("prompt %d", i), render.Discard{})
		require.False(t, res.Blocked, "turn %d", i)
	}

	rec := render.NewRecorder()
	res := o.Turn(context.Background(), s, "prompt 4", rec)

	assert.True(t, res.Blocked)
	assert.Equal(t, 3, model.Calls())
	assert.Len(t, s.Messages, 6)
	assert.Equal(t, 4, s.InteractionCount)
	assert.Equal(t, 0, store.SaveCalls)
	assert.Equal(t, []render.Event{{Kind: render.KindNotice, Level: render.LevelWarning, Content: quota.BlockedNotice}}, rec.Events())
}

func TestTurn_BlockedGuestStaysBlocked(t *testing.T) {
	model := &chattest.FakeLLM{Reply: "ok"}
	o := newTestOrchestrator(model, chattest.NewFakeGateway(), 0)
	s := state.New("v")
	s.InteractionCount = 3

	for i := 0; i < 3; i++ {
		assert.True(t, o.Turn(context.Background(), s, "again", render.Discard{}).Blocked)
	}
	assert.Equal(t, 0, model.Calls())
	assert.Empty(t, s.Messages)
	assert.Equal(t, 6, s.InteractionCount)
}

func TestTurn_AuthenticatedNeverBlockedAndPersistsBothMessages(t *testing.T) {
	model := &chattest.FakeLLM{Reply: "answer"}
	store := chattest.NewFakeGateway()
	o := newTestOrchestrator(model, store, 0)
	s := state.New("v")
	s.Authenticated = true
	s.UserID = "alice"

	for i := 0; i < 10; i++ {
		res := o.Turn(context.Background(), s, "question", render.Discard{})
		require.False(t, res.Blocked)
	}

	assert.Equal(t, 10, model.Calls())
	assert.Equal(t, 20, store.SaveCalls)

	saved := store.SavedFor("session-1")
	require.Len(t, saved, 20)
	for i, m := range saved {
		assert.Equal(t, "alice", m.UserID)
		assert.Equal(t, "question...", m.Title)
		if i%2 == 0 {
			assert.Equal(t, chat.RoleUser, m.Role)
		} else {
			assert.Equal(t, chat.RoleAssistant, m.Role)
		}
	}
}

func TestTurn_MintsSessionOnceFromFirstPrompt(t *testing.T) {
	o := newTestOrchestrator(&chattest.FakeLLM{Reply: "ok"}, chattest.NewFakeGateway(), 0)
	s := state.New("v")

	o.Turn(context.Background(), s, "Tell me about the solar system please", render.Discard{})
	assert.Equal(t, "session-1", s.SessionID)
	assert.Equal(t, "Tell me about the solar system...", s.SessionTitle)

	o.Turn(context.Background(), s, "And the moon?", render.Discard{})
	assert.Equal(t, "session-1", s.SessionID)
	assert.Equal(t, "Tell me about the solar system...", s.SessionTitle)
}

func TestTurn_SendsFullHistoryIncludingNewPrompt(t *testing.T) {
	model := &chattest.FakeLLM{Reply: "r"}
	o := newTestOrchestrator(model, chattest.NewFakeGateway(), 0)
	s := state.New("v")

	o.Turn(context.Background(), s, "first", render.Discard{})
	o.Turn(context.Background(), s, "second", render.Discard{})

	require.Len(t, model.Histories, 2)
	last := model.Histories[1]
	require.Len(t, last, 3)
	assert.Equal(t, "user", last[0].Role)
	assert.Equal(t, "first", last[0].Content)
	assert.Equal(t, "assistant", last[1].Role)
	assert.Equal(t, "second", last[2].Content)
}

func TestTurn_ModelErrorBecomesAssistantReply(t *testing.T) {
	model := &chattest.FakeLLM{Err: errors.New("boom")}
	store := chattest.NewFakeGateway()
	o := newTestOrchestrator(model, store, 0)
	s := state.New("v")
	s.Authenticated = true
	s.UserID = "alice"
	rec := render.NewRecorder()

	res := o.Turn(context.Background(), s, "hi", rec)

	assert.True(t, res.ModelFailed)
	require.NotNil(t, res.Reply)
	assert.Equal(t, "⚠️ Error from the language model: boom", res.Reply.Content)
	assert.Equal(t, chat.RoleAssistant, s.Messages[1].Role)
	assert.Equal(t, 2, store.SaveCalls)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, render.KindMessage, events[1].Kind)
	assert.Equal(t, res.Reply.Content, events[1].Content)
}

func TestTurn_ModelTimeoutIsReportedAsModelError(t *testing.T) {
	model := &chattest.FakeLLM{Block: true}
	o := newTestOrchestrator(model, chattest.NewFakeGateway(), 20*time.Millisecond)
	s := state.New("v")

	res := o.Turn(context.Background(), s, "hi", render.Discard{})

	assert.True(t, res.ModelFailed)
	assert.Contains(t, res.Reply.Content, context.DeadlineExceeded.Error())
	assert.Len(t, s.Messages, 2)
}

func TestTurn_SaveFailureIsNoticedButTurnCompletes(t *testing.T) {
	model := &chattest.FakeLLM{Reply: "fine"}
	store := chattest.NewFakeGateway()
	store.SaveErr = fmt.Errorf("%w: disk full", chat.ErrStore)
	o := newTestOrchestrator(model, store, 0)
	s := state.New("v")
	s.Authenticated = true
	s.UserID = "alice"
	rec := render.NewRecorder()

	res := o.Turn(context.Background(), s, "hi", rec)

	assert.False(t, res.Blocked)
	assert.Equal(t, "fine", res.Reply.Content)
	assert.Equal(t, 1, model.Calls())
	assert.Len(t, s.Messages, 2)
	assert.Len(t, rec.Notices(), 2)
	assert.Equal(t, render.LevelError, rec.Notices()[0].Level)
}

func TestTurn_GuestMessagesAreNotPersisted(t *testing.T) {
	store := chattest.NewFakeGateway()
	o := newTestOrchestrator(&chattest.FakeLLM{Reply: "ok"}, store, 0)
	s := state.New("v")

	o.Turn(context.Background(), s, "hi", render.Discard{})

	assert.Equal(t, 0, store.SaveCalls)
	assert.Len(t, s.Messages, 2)
}
