package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"synthmind-be/internal/pkg/logger"
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/orchestrator"
	"synthmind-be/pkg/chat/render"
	"synthmind-be/pkg/chat/state"
	"synthmind-be/pkg/events"
)

const module = "SessionManager"

// UntitledSession is the title used when flushing a buffer that never got one.
const UntitledSession = "Untitled Session"

var genders = map[string]bool{"Male": true, "Female": true, "Other": true}

// RegistrationForm mirrors the registration form fields.
type RegistrationForm struct {
	Name            string
	Age             int
	Gender          string
	Country         string
	City            string
	UserID          string
	Password        string
	ConfirmPassword string
}

// Manager applies UI events to a visitor's ChatState. Callers must hold the
// state lock for the duration of a call.
type Manager struct {
	gateway      chat.Gateway
	orchestrator *orchestrator.Orchestrator
	logger       logger.ILogger
	events       events.Publisher
}

func NewManager(gateway chat.Gateway, orch *orchestrator.Orchestrator, log logger.ILogger) *Manager {
	return &Manager{
		gateway:      gateway,
		orchestrator: orch,
		logger:       log,
	}
}

// WithEvents makes the manager publish activity events to p.
func (m *Manager) WithEvents(p events.Publisher) *Manager {
	m.events = p
	return m
}

func (m *Manager) emit(ctx context.Context, eventType string, data map[string]interface{}) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, events.New(eventType, data)); err != nil {
		m.logger.Warn(module, "Failed to publish activity event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

// Login authenticates and, on success, starts a clean authenticated state.
func (m *Manager) Login(ctx context.Context, s *state.ChatState, userID, password string, r render.Renderer) error {
	user, err := m.gateway.Authenticate(ctx, userID, password)
	if err != nil {
		r.RenderNotice(render.LevelError, storeNotice(err))
		return err
	}
	if user == nil {
		r.RenderNotice(render.LevelError, "Invalid credentials.")
		return chat.ErrInvalidCredentials
	}

	s.Authenticated = true
	s.UserID = user.UserID
	s.UserName = user.Name
	s.InteractionCount = 0
	s.ResetConversation()

	m.logger.Info(module, "User logged in", map[string]interface{}{"state_id": s.ID, "user_id": user.UserID})
	m.emit(ctx, events.UserLoggedIn, map[string]interface{}{"state_id": s.ID, "user_id": user.UserID})
	r.RenderNotice(render.LevelSuccess, fmt.Sprintf("Welcome back, %s!", user.Name))
	return nil
}

// Logout drops the identity and the buffer. The interaction counter survives
// so a visitor cannot earn fresh guest turns by logging out.
func (m *Manager) Logout(s *state.ChatState, r render.Renderer) {
	if s.Authenticated {
		m.logger.Info(module, "User logged out", map[string]interface{}{"state_id": s.ID, "user_id": s.UserID})
		m.emit(context.Background(), events.UserLoggedOut, map[string]interface{}{"state_id": s.ID, "user_id": s.UserID})
	}
	s.Authenticated = false
	s.UserID = ""
	s.UserName = ""
	s.ResetConversation()
	r.RenderNotice(render.LevelInfo, "Logged out.")
}

// Register validates the form and stores a new user. It does not log the user in.
func (m *Manager) Register(ctx context.Context, form RegistrationForm, r render.Renderer) error {
	if !form.complete() {
		r.RenderNotice(render.LevelWarning, "Please fill all fields.")
		return chat.ErrInvalidRegistration
	}
	if !genders[form.Gender] {
		r.RenderNotice(render.LevelWarning, "Gender must be Male, Female or Other.")
		return chat.ErrInvalidRegistration
	}
	if form.Password != form.ConfirmPassword {
		r.RenderNotice(render.LevelError, "Passwords do not match.")
		return chat.ErrInvalidRegistration
	}

	err := m.gateway.Register(ctx, &chat.UserRecord{
		UserID:   form.UserID,
		Name:     form.Name,
		Age:      form.Age,
		Gender:   form.Gender,
		Country:  form.Country,
		City:     form.City,
		Password: form.Password,
	})
	switch {
	case errors.Is(err, chat.ErrAlreadyExists):
		r.RenderNotice(render.LevelError, "UserID already exists. Please choose another.")
		return err
	case err != nil:
		r.RenderNotice(render.LevelError, storeNotice(err))
		return err
	}

	m.emit(ctx, events.UserRegistered, map[string]interface{}{"user_id": form.UserID, "country": form.Country})
	r.RenderNotice(render.LevelSuccess, "Registered successfully! Please login.")
	return nil
}

func (f RegistrationForm) complete() bool {
	fields := []string{f.Name, f.Gender, f.Country, f.City, f.UserID, f.Password, f.ConfirmPassword}
	for _, v := range fields {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return f.Age > 0
}

// NewChat flushes the buffer for authenticated users and resets the conversation.
// Messages loaded from history are not written again. Store failures are
// reported as notices; the reset always happens.
func (m *Manager) NewChat(ctx context.Context, s *state.ChatState, r render.Renderer) {
	if s.Authenticated && s.UserID != "" && len(s.Unsaved()) > 0 {
		m.flush(ctx, s, r)
	}
	s.ResetConversation()
}

func (m *Manager) flush(ctx context.Context, s *state.ChatState, r render.Renderer) {
	if !s.HasSession() {
		m.logger.Warn(module, "Skipping flush of buffer without session id", map[string]interface{}{
			"state_id": s.ID,
			"messages": len(s.Messages),
		})
		return
	}

	title := s.SessionTitle
	if title == "" {
		title = UntitledSession
	}

	failed := 0
	var lastErr error
	for _, msg := range s.Unsaved() {
		if err := m.gateway.SaveMessage(ctx, s.UserID, s.SessionID, title, msg.Role, msg.Content); err != nil {
			failed++
			lastErr = err
		}
	}
	if failed > 0 {
		r.RenderNotice(render.LevelError, fmt.Sprintf("%d message(s) could not be saved: %v", failed, lastErr))
	}
}

// ListHistory returns the user's sessions, most recently active first.
func (m *Manager) ListHistory(ctx context.Context, s *state.ChatState, r render.Renderer) ([]chat.SessionSummary, error) {
	if !s.Authenticated {
		r.RenderNotice(render.LevelWarning, "Please login to view chat history.")
		return nil, chat.ErrNotAuthenticated
	}
	sessions, err := m.gateway.ListSessions(ctx, s.UserID)
	if err != nil {
		r.RenderNotice(render.LevelError, storeNotice(err))
		return []chat.SessionSummary{}, err
	}
	return sessions, nil
}

// SelectHistory replaces the buffer with a stored session and adopts its identity.
// Only sessions listed for the current user can be opened.
func (m *Manager) SelectHistory(ctx context.Context, s *state.ChatState, sessionID, title string, r render.Renderer) error {
	if !s.Authenticated {
		r.RenderNotice(render.LevelWarning, "Please login to view chat history.")
		return chat.ErrNotAuthenticated
	}
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", chat.ErrInvalidInput)
	}

	owned, err := m.ownsSession(ctx, s.UserID, sessionID)
	if err != nil {
		r.RenderNotice(render.LevelError, storeNotice(err))
		return err
	}
	if !owned {
		m.logger.Warn(module, "Rejected selection of a session not owned by the user", map[string]interface{}{
			"user_id":    s.UserID,
			"session_id": sessionID,
		})
		r.RenderNotice(render.LevelWarning, "Chat session not found.")
		return chat.ErrSessionNotFound
	}

	messages, err := m.gateway.LoadMessages(ctx, sessionID)
	if err != nil {
		r.RenderNotice(render.LevelError, storeNotice(err))
		return err
	}

	if messages == nil {
		messages = []chat.Message{}
	}
	s.Messages = messages
	s.SessionID = sessionID
	s.SessionTitle = title
	s.Viewing = true
	s.Stored = len(messages)
	m.emit(ctx, events.SessionOpened, map[string]interface{}{"user_id": s.UserID, "session_id": sessionID})

	for _, msg := range messages {
		r.RenderMessage(msg.Role, msg.Content)
	}
	return nil
}

func (m *Manager) ownsSession(ctx context.Context, userID, sessionID string) (bool, error) {
	sessions, err := m.gateway.ListSessions(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, sess := range sessions {
		if sess.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

// SubmitPrompt runs one turn. Blank prompts are ignored.
func (m *Manager) SubmitPrompt(ctx context.Context, s *state.ChatState, prompt string, r render.Renderer) orchestrator.TurnResult {
	if strings.TrimSpace(prompt) == "" {
		return orchestrator.TurnResult{}
	}
	hadSession := s.HasSession()
	result := m.orchestrator.Turn(ctx, s, prompt, r)

	switch {
	case result.Blocked:
		m.emit(ctx, events.GuestBlocked, map[string]interface{}{
			"state_id":          s.ID,
			"interaction_count": s.InteractionCount,
		})
	case !hadSession && s.HasSession():
		m.emit(ctx, events.SessionStarted, map[string]interface{}{
			"state_id":      s.ID,
			"session_id":    s.SessionID,
			"authenticated": s.Authenticated,
		})
	}
	return result
}

func storeNotice(err error) string {
	switch {
	case errors.Is(err, chat.ErrConnectionFailure):
		return "Could not connect to the database. Please try again later."
	default:
		return fmt.Sprintf("Database error: %v", err)
	}
}
