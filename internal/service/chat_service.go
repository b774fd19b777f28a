package service

import (
	"context"

	"synthmind-be/internal/dto"
	"synthmind-be/internal/pkg/logger"
	"synthmind-be/internal/repository/memory"
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/render"
	"synthmind-be/pkg/chat/session"
	"synthmind-be/pkg/chat/state"

	"github.com/google/uuid"
)

const chatModule = "ChatService"

type IChatService interface {
	CreateConversation(ctx context.Context) (string, state.Snapshot)
	EndConversation(ctx context.Context, conversationID string) error
	State(ctx context.Context, conversationID string) (*dto.EventResponse, error)
	SubmitPrompt(ctx context.Context, conversationID string, req *dto.PromptRequest) (*dto.TurnResponse, error)
	NewChat(ctx context.Context, conversationID string) (*dto.EventResponse, error)
	ListHistory(ctx context.Context, conversationID string) (*dto.HistoryResponse, error)
	SelectHistory(ctx context.Context, conversationID string, req *dto.SelectHistoryRequest) (*dto.EventResponse, error)
	Login(ctx context.Context, conversationID string, req *dto.LoginRequest) (*dto.EventResponse, error)
	Logout(ctx context.Context, conversationID string) (*dto.EventResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) ([]render.Event, error)
}

type chatService struct {
	states     *memory.ChatStateRepository
	manager    *session.Manager
	guestLimit int
	logger     logger.ILogger
}

func NewChatService(states *memory.ChatStateRepository, manager *session.Manager, guestLimit int, log logger.ILogger) IChatService {
	return &chatService{
		states:     states,
		manager:    manager,
		guestLimit: guestLimit,
		logger:     log,
	}
}

func (s *chatService) CreateConversation(ctx context.Context) (string, state.Snapshot) {
	st := state.New(uuid.NewString())
	s.states.Save(st)
	s.logger.Debug(chatModule, "Conversation created", map[string]interface{}{"conversation_id": st.ID})
	return st.ID, st.Snapshot(s.guestLimit)
}

// EndConversation discards the state without flushing it, like closing the tab.
func (s *chatService) EndConversation(ctx context.Context, conversationID string) error {
	st, ok := s.states.Get(conversationID)
	if !ok {
		return chat.ErrUnknownConversation
	}

	st.Lock()
	defer st.Unlock()
	s.states.Delete(conversationID)
	s.logger.Debug(chatModule, "Conversation ended", map[string]interface{}{"conversation_id": conversationID})
	return nil
}

// withState runs fn while holding the conversation lock, so events for one
// conversation are applied one at a time.
func (s *chatService) withState(conversationID string, fn func(st *state.ChatState, rec *render.Recorder) error) (*dto.EventResponse, error) {
	st, ok := s.states.Get(conversationID)
	if !ok {
		return nil, chat.ErrUnknownConversation
	}

	st.Lock()
	defer st.Unlock()

	rec := render.NewRecorder()
	err := fn(st, rec)
	return &dto.EventResponse{
		Events: rec.Events(),
		State:  st.Snapshot(s.guestLimit),
	}, err
}

func (s *chatService) State(ctx context.Context, conversationID string) (*dto.EventResponse, error) {
	return s.withState(conversationID, func(*state.ChatState, *render.Recorder) error { return nil })
}

func (s *chatService) SubmitPrompt(ctx context.Context, conversationID string, req *dto.PromptRequest) (*dto.TurnResponse, error) {
	var blocked, modelFailed bool
	res, err := s.withState(conversationID, func(st *state.ChatState, rec *render.Recorder) error {
		result := s.manager.SubmitPrompt(ctx, st, req.Prompt, rec)
		blocked = result.Blocked
		modelFailed = result.ModelFailed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.TurnResponse{EventResponse: *res, Blocked: blocked, ModelFailed: modelFailed}, nil
}

func (s *chatService) NewChat(ctx context.Context, conversationID string) (*dto.EventResponse, error) {
	return s.withState(conversationID, func(st *state.ChatState, rec *render.Recorder) error {
		s.manager.NewChat(ctx, st, rec)
		return nil
	})
}

func (s *chatService) ListHistory(ctx context.Context, conversationID string) (*dto.HistoryResponse, error) {
	var sessions []chat.SessionSummary
	res, err := s.withState(conversationID, func(st *state.ChatState, rec *render.Recorder) error {
		var err error
		sessions, err = s.manager.ListHistory(ctx, st, rec)
		return err
	})
	if res == nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []chat.SessionSummary{}
	}
	return &dto.HistoryResponse{EventResponse: *res, Sessions: sessions}, err
}

func (s *chatService) SelectHistory(ctx context.Context, conversationID string, req *dto.SelectHistoryRequest) (*dto.EventResponse, error) {
	return s.withState(conversationID, func(st *state.ChatState, rec *render.Recorder) error {
		return s.manager.SelectHistory(ctx, st, req.SessionID, req.Title, rec)
	})
}

func (s *chatService) Login(ctx context.Context, conversationID string, req *dto.LoginRequest) (*dto.EventResponse, error) {
	return s.withState(conversationID, func(st *state.ChatState, rec *render.Recorder) error {
		return s.manager.Login(ctx, st, req.UserID, req.Password, rec)
	})
}

func (s *chatService) Logout(ctx context.Context, conversationID string) (*dto.EventResponse, error) {
	return s.withState(conversationID, func(st *state.ChatState, rec *render.Recorder) error {
		s.manager.Logout(st, rec)
		return nil
	})
}

func (s *chatService) Register(ctx context.Context, req *dto.RegisterRequest) ([]render.Event, error) {
	rec := render.NewRecorder()
	err := s.manager.Register(ctx, session.RegistrationForm{
		Name:            req.Name,
		Age:             req.Age,
		Gender:          req.Gender,
		Country:         req.Country,
		City:            req.City,
		UserID:          req.UserID,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}, rec)
	return rec.Events(), err
}
