package session

import (
	"context"
	"fmt"
	"testing"

	"synthmind-be/internal/pkg/logger"
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/chattest"
	"synthmind-be/pkg/chat/orchestrator"
	"synthmind-be/pkg/chat/quota"
	"synthmind-be/pkg/chat/render"
	"synthmind-be/pkg/chat/state"
	"synthmind-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	gateway *chattest.FakeGateway
	model   *chattest.FakeLLM
	manager *Manager
}

func newFixture() *fixture {
	gw := chattest.NewFakeGateway()
	model := &chattest.FakeLLM{Reply: "reply"}
	log := logger.NewNopLogger()
	orch := orchestrator.New(model, gw, quota.NewGate(quota.DefaultGuestTurnLimit), log, 0)
	return &fixture{gateway: gw, model: model, manager: NewManager(gw, orch, log)}
}

func validForm() RegistrationForm {
	return RegistrationForm{
		Name:            "Alice",
		Age:             30,
		Gender:          "Female",
		Country:         "FR",
		City:            "Paris",
		UserID:          "alice",
		Password:        "pw",
		ConfirmPassword: "pw",
	}
}

func (f *fixture) loggedIn(t *testing.T) *state.ChatState {
	t.Helper()
	f.gateway.AddUser(chat.UserRecord{UserID: "alice", Name: "Alice", Password: "pw"})
	s := state.New("v")
	require.NoError(t, f.manager.Login(context.Background(), s, "alice", "pw", render.Discard{}))
	return s
}

func TestLogin_SuccessResetsStateAndWelcomes(t *testing.T) {
	f := newFixture()
	f.gateway.AddUser(chat.UserRecord{UserID: "alice", Name: "Alice", Password: "pw"})
	s := state.New("v")
	s.InteractionCount = 4
	s.SessionID = "guest-session"
	s.Append(chat.Message{Role: chat.RoleUser, Content: "hi"})
	rec := render.NewRecorder()

	err := f.manager.Login(context.Background(), s, "alice", "pw", rec)

	require.NoError(t, err)
	assert.True(t, s.Authenticated)
	assert.Equal(t, "alice", s.UserID)
	assert.Equal(t, 0, s.InteractionCount)
	assert.Empty(t, s.Messages)
	assert.False(t, s.HasSession())
	assert.Equal(t, state.PhaseBound, s.Phase())
	assert.Equal(t, []render.Event{{Kind: render.KindNotice, Level: render.LevelSuccess, Content: "Welcome back, Alice!"}}, rec.Events())
}

func TestLogin_BadCredentialsLeaveStateUntouched(t *testing.T) {
	f := newFixture()
	f.gateway.AddUser(chat.UserRecord{UserID: "alice", Name: "Alice", Password: "pw"})

	for _, tc := range []struct{ name, user, pass string }{
		{"wrong password", "alice", "nope"},
		{"unknown user", "bob", "pw"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := state.New("v")
			s.InteractionCount = 2
			rec := render.NewRecorder()

			err := f.manager.Login(context.Background(), s, tc.user, tc.pass, rec)

			assert.ErrorIs(t, err, chat.ErrInvalidCredentials)
			assert.False(t, s.Authenticated)
			assert.Equal(t, 2, s.InteractionCount)
			assert.Equal(t, "Invalid credentials.", rec.Notices()[0].Content)
		})
	}
}

func TestLogin_StoreDownGivesConnectionNotice(t *testing.T) {
	f := newFixture()
	f.gateway.AuthErr = fmt.Errorf("%w: dial tcp: refused", chat.ErrConnectionFailure)
	s := state.New("v")
	rec := render.NewRecorder()

	err := f.manager.Login(context.Background(), s, "alice", "pw", rec)

	assert.ErrorIs(t, err, chat.ErrConnectionFailure)
	assert.False(t, s.Authenticated)
	assert.Equal(t, "Could not connect to the database. Please try again later.", rec.Notices()[0].Content)
}

func TestLogout_KeepsCounterAndDoesNotFlush(t *testing.T) {
	f := newFixture()
	s := f.loggedIn(t)
	f.manager.SubmitPrompt(context.Background(), s, "hi", render.Discard{})
	saves := f.gateway.SaveCalls

	f.manager.Logout(s, render.Discard{})

	assert.False(t, s.Authenticated)
	assert.Empty(t, s.UserID)
	assert.Empty(t, s.Messages)
	assert.False(t, s.HasSession())
	assert.Equal(t, 1, s.InteractionCount)
	assert.Equal(t, saves, f.gateway.SaveCalls)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegistrationForm)
		notice string
		err    error
	}{
		{"success", func(*RegistrationForm) {}, "Registered successfully! Please login.", nil},
		{"missing city", func(f *RegistrationForm) { f.City = " " }, "Please fill all fields.", chat.ErrInvalidRegistration},
		{"zero age", func(f *RegistrationForm) { f.Age = 0 }, "Please fill all fields.", chat.ErrInvalidRegistration},
		{"bad gender", func(f *RegistrationForm) { f.Gender = "x" }, "Gender must be Male, Female or Other.", chat.ErrInvalidRegistration},
		{"password mismatch", func(f *RegistrationForm) { f.ConfirmPassword = "other" }, "Passwords do not match.", chat.ErrInvalidRegistration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			form := validForm()
			tt.mutate(&form)
			rec := render.NewRecorder()

			err := f.manager.Register(context.Background(), form, rec)

			if tt.err == nil {
				assert.NoError(t, err)
				assert.Equal(t, 1, f.gateway.RegisterCalls)
			} else {
				assert.ErrorIs(t, err, tt.err)
				assert.Equal(t, 0, f.gateway.RegisterCalls)
			}
			assert.Equal(t, tt.notice, rec.Notices()[0].Content)
		})
	}
}

func TestRegister_DuplicateUserID(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.manager.Register(context.Background(), validForm(), render.Discard{}))
	rec := render.NewRecorder()

	err := f.manager.Register(context.Background(), validForm(), rec)

	assert.ErrorIs(t, err, chat.ErrAlreadyExists)
	assert.Equal(t, "UserID already exists. Please choose another.", rec.Notices()[0].Content)
}

func TestRegister_DoesNotLogIn(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.manager.Register(context.Background(), validForm(), render.Discard{}))
	assert.Equal(t, 0, f.gateway.AuthCalls)
}

func TestNewChat_GuestJustResets(t *testing.T) {
	f := newFixture()
	s := state.New("v")
	f.manager.SubmitPrompt(context.Background(), s, "hi", render.Discard{})

	f.manager.NewChat(context.Background(), s, render.Discard{})

	assert.Empty(t, s.Messages)
	assert.False(t, s.HasSession())
	assert.Equal(t, 1, s.InteractionCount)
	assert.Equal(t, 0, f.gateway.SaveCalls)
}

func TestNewChat_AuthenticatedFlushesBufferUnderSessionTitle(t *testing.T) {
	f := newFixture()
	s := f.loggedIn(t)
	f.manager.SubmitPrompt(context.Background(), s, "hello world", render.Discard{})
	sessionID := s.SessionID
	require.Equal(t, 2, f.gateway.SaveCalls)

	f.manager.NewChat(context.Background(), s, render.Discard{})

	saved := f.gateway.SavedFor(sessionID)
	require.Len(t, saved, 4)
	for _, m := range saved {
		assert.Equal(t, "hello world...", m.Title)
	}
	assert.Empty(t, s.Messages)
	assert.False(t, s.HasSession())
	assert.True(t, s.Authenticated)

	f.manager.NewChat(context.Background(), s, render.Discard{})
	assert.Equal(t, 4, f.gateway.SaveCalls)
}

func TestNewChat_FlushFailureStillResets(t *testing.T) {
	f := newFixture()
	s := f.loggedIn(t)
	f.manager.SubmitPrompt(context.Background(), s, "hello", render.Discard{})
	f.gateway.SaveErr = fmt.Errorf("%w: gone", chat.ErrConnectionFailure)
	rec := render.NewRecorder()

	f.manager.NewChat(context.Background(), s, rec)

	assert.Empty(t, s.Messages)
	require.Len(t, rec.Notices(), 1)
	assert.Contains(t, rec.Notices()[0].Content, "2 message(s) could not be saved")
}

func TestHistory_RequiresLogin(t *testing.T) {
	f := newFixture()
	s := state.New("v")

	_, err := f.manager.ListHistory(context.Background(), s, render.Discard{})
	assert.ErrorIs(t, err, chat.ErrNotAuthenticated)

	err = f.manager.SelectHistory(context.Background(), s, "sid", "t", render.Discard{})
	assert.ErrorIs(t, err, chat.ErrNotAuthenticated)
	assert.Equal(t, 0, f.gateway.ListCalls+f.gateway.LoadCalls)
}

func TestSelectHistory_LoadsAndContinuesSession(t *testing.T) {
	f := newFixture()
	s := f.loggedIn(t)
	f.manager.SubmitPrompt(context.Background(), s, "first question", render.Discard{})
	sessionID, title := s.SessionID, s.SessionTitle
	f.manager.NewChat(context.Background(), s, render.Discard{})

	sessions, err := f.manager.ListHistory(context.Background(), s, render.Discard{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, chat.SessionSummary{SessionID: sessionID, Title: title}, sessions[0])

	rec := render.NewRecorder()
	require.NoError(t, f.manager.SelectHistory(context.Background(), s, sessionID, title, rec))

	assert.Equal(t, state.PhaseViewing, s.Phase())
	assert.Equal(t, sessionID, s.SessionID)
	assert.Len(t, s.Messages, 4)
	assert.Len(t, rec.Events(), 4)

	// Continuing a loaded session appends under the same id and title.
	f.manager.SubmitPrompt(context.Background(), s, "follow up", render.Discard{})
	last := f.gateway.SavedFor(sessionID)
	assert.Equal(t, "follow up", last[len(last)-2].Content)
	assert.Equal(t, title, last[len(last)-1].Title)
}

func TestSelectHistory_RejectsSessionsNotOwnedByUser(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.gateway.SaveMessage(context.Background(), "bob", "bobs-session", "Bob...", chat.RoleUser, "secret"))
	s := f.loggedIn(t)
	f.manager.SubmitPrompt(context.Background(), s, "mine", render.Discard{})
	saves := f.gateway.SaveCalls

	for _, id := range []string{"bobs-session", "missing"} {
		rec := render.NewRecorder()
		err := f.manager.SelectHistory(context.Background(), s, id, "x", rec)

		assert.ErrorIs(t, err, chat.ErrSessionNotFound, id)
		assert.Equal(t, "Chat session not found.", rec.Notices()[0].Content)
	}

	assert.Equal(t, 0, f.gateway.LoadCalls)
	assert.Equal(t, state.PhaseBound, s.Phase())
	assert.Len(t, s.Messages, 2)

	f.manager.SubmitPrompt(context.Background(), s, "still mine", render.Discard{})
	assert.Empty(t, f.gateway.SavedFor("bobs-session")[1:])
	assert.Equal(t, saves+2, f.gateway.SaveCalls)
}

func TestSelectHistory_ThenNewChatWritesNothing(t *testing.T) {
	f := newFixture()
	s := f.loggedIn(t)
	f.manager.SubmitPrompt(context.Background(), s, "first question", render.Discard{})
	sessionID, title := s.SessionID, s.SessionTitle
	f.manager.NewChat(context.Background(), s, render.Discard{})
	stored := len(f.gateway.SavedFor(sessionID))

	require.NoError(t, f.manager.SelectHistory(context.Background(), s, sessionID, title, render.Discard{}))
	saves := f.gateway.SaveCalls
	f.manager.NewChat(context.Background(), s, render.Discard{})

	assert.Equal(t, saves, f.gateway.SaveCalls)
	assert.Len(t, f.gateway.SavedFor(sessionID), stored)
	assert.Empty(t, s.Messages)
	assert.False(t, s.HasSession())
}

func TestSelectHistory_NewChatFlushesOnlyMessagesAddedAfterLoad(t *testing.T) {
	f := newFixture()
	s := f.loggedIn(t)
	f.manager.SubmitPrompt(context.Background(), s, "first question", render.Discard{})
	sessionID, title := s.SessionID, s.SessionTitle
	f.manager.NewChat(context.Background(), s, render.Discard{})
	require.NoError(t, f.manager.SelectHistory(context.Background(), s, sessionID, title, render.Discard{}))
	loaded := len(s.Messages)

	f.manager.SubmitPrompt(context.Background(), s, "follow up", render.Discard{})
	saves := f.gateway.SaveCalls
	f.manager.NewChat(context.Background(), s, render.Discard{})

	assert.Equal(t, saves+2, f.gateway.SaveCalls)
	saved := f.gateway.SavedFor(sessionID)
	assert.Equal(t, "follow up", saved[len(saved)-2].Content)
	assert.Equal(t, "reply", saved[len(saved)-1].Content)
	assert.Len(t, saved, loaded+4)
}

func TestSelectHistory_StoreErrorKeepsBuffer(t *testing.T) {
	f := newFixture()
	s := f.loggedIn(t)
	f.manager.SubmitPrompt(context.Background(), s, "keep me", render.Discard{})
	f.gateway.LoadErr = fmt.Errorf("%w: boom", chat.ErrStore)
	rec := render.NewRecorder()

	err := f.manager.SelectHistory(context.Background(), s, s.SessionID, "x", rec)

	assert.ErrorIs(t, err, chat.ErrStore)
	assert.Len(t, s.Messages, 2)
	assert.Contains(t, rec.Notices()[0].Content, "Database error")
}

func TestSubmitPrompt_BlankIsIgnored(t *testing.T) {
	f := newFixture()
	s := state.New("v")

	res := f.manager.SubmitPrompt(context.Background(), s, "   ", render.Discard{})

	assert.False(t, res.Blocked)
	assert.Nil(t, res.Reply)
	assert.Equal(t, 0, s.InteractionCount)
	assert.Equal(t, 0, f.model.Calls())
}

func TestGuestLimit_SurvivesLogoutButResetsOnLogin(t *testing.T) {
	f := newFixture()
	f.gateway.AddUser(chat.UserRecord{UserID: "alice", Name: "Alice", Password: "pw"})
	s := state.New("v")
	for i := 0; i < 4; i++ {
		f.manager.SubmitPrompt(context.Background(), s, "q", render.Discard{})
	}
	require.Equal(t, 3, f.model.Calls())

	require.NoError(t, f.manager.Login(context.Background(), s, "alice", "pw", render.Discard{}))
	f.manager.Logout(s, render.Discard{})

	// Counter reset by login; logout keeps the post-login count.
	res := f.manager.SubmitPrompt(context.Background(), s, "q", render.Discard{})
	assert.False(t, res.Blocked)
	assert.Equal(t, 1, s.InteractionCount)
}

func TestManager_PublishesActivityEvents(t *testing.T) {
	f := newFixture()
	pub := &chattest.FakePublisher{}
	f.manager.WithEvents(pub)
	ctx := context.Background()

	require.NoError(t, f.manager.Register(ctx, validForm(), render.Discard{}))
	s := state.New("v")
	require.NoError(t, f.manager.Login(ctx, s, "alice", "pw", render.Discard{}))
	f.manager.SubmitPrompt(ctx, s, "first", render.Discard{})
	f.manager.SubmitPrompt(ctx, s, "second", render.Discard{})
	f.manager.Logout(s, render.Discard{})

	assert.Equal(t, []string{
		events.UserRegistered,
		events.UserLoggedIn,
		events.SessionStarted,
		events.UserLoggedOut,
	}, pub.Types())
}

func TestManager_PublishesGuestBlocked(t *testing.T) {
	f := newFixture()
	pub := &chattest.FakePublisher{}
	f.manager.WithEvents(pub)
	s := state.New("guest")

	for i := 0; i < 4; i++ {
		f.manager.SubmitPrompt(context.Background(), s, "q", render.Discard{})
	}

	assert.Equal(t, []string{events.SessionStarted, events.GuestBlocked}, pub.Types())
	assert.Equal(t, 4, pub.Events[1].Payload()["interaction_count"])
}

func TestManager_PublishFailureDoesNotBreakLogin(t *testing.T) {
	f := newFixture()
	f.manager.WithEvents(&chattest.FakePublisher{Err: assert.AnError})

	s := f.loggedIn(t)

	assert.True(t, s.Authenticated)
}
