package orchestrator

import (
	"context"
	"fmt"
	"time"

	"synthmind-be/internal/pkg/logger"
	"synthmind-be/internal/pkg/metrics"
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/quota"
	"synthmind-be/pkg/chat/render"
	"synthmind-be/pkg/chat/state"
	"synthmind-be/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const module = "Orchestrator"

// Orchestrator runs a single conversation turn from prompt to persisted reply.
type Orchestrator struct {
	llm     llm.LLMProvider
	store   chat.MessageSaver
	gate    *quota.Gate
	logger  logger.ILogger
	timeout time.Duration
	tracer  trace.Tracer

	now   func() time.Time
	newID func() string
}

// New builds an orchestrator. A zero modelTimeout leaves model calls bounded
// only by the caller's context.
func New(provider llm.LLMProvider, store chat.MessageSaver, gate *quota.Gate, log logger.ILogger, modelTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		llm:     provider,
		store:   store,
		gate:    gate,
		logger:  log,
		timeout: modelTimeout,
		tracer:  otel.Tracer("synthmind-be/orchestrator"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// TurnResult describes what happened during a turn.
type TurnResult struct {
	Blocked     bool          `json:"blocked"`
	UserMessage *chat.Message `json:"user_message,omitempty"`
	Reply       *chat.Message `json:"reply,omitempty"`
	ModelFailed bool          `json:"model_failed"`
}

// Turn appends the prompt, gates guests, calls the model and appends the reply.
// It always finishes with an assistant message unless the quota gate refused
// the prompt; model failures become the reply text.
func (o *Orchestrator) Turn(ctx context.Context, s *state.ChatState, prompt string, r render.Renderer) TurnResult {
	if !s.HasSession() {
		s.SessionID = o.newID()
		s.SessionTitle = GenerateTitle(prompt)
		o.logger.Debug(module, "Session minted", map[string]interface{}{
			"state_id":   s.ID,
			"session_id": s.SessionID,
		})
	}

	s.InteractionCount++

	if !o.gate.Allow(s) {
		r.RenderNotice(render.LevelWarning, quota.BlockedNotice)
		metrics.RecordTurn(metrics.TurnBlocked)
		o.logger.Info(module, "Guest turn blocked", map[string]interface{}{
			"state_id":          s.ID,
			"interaction_count": s.InteractionCount,
		})
		return TurnResult{Blocked: true}
	}

	userMsg := chat.Message{Role: chat.RoleUser, Content: prompt, CreatedAt: o.now()}
	s.Append(userMsg)
	r.RenderMessage(chat.RoleUser, prompt)
	o.persist(ctx, s, userMsg, r)

	reply, err := o.callModel(ctx, s)
	if err != nil {
		reply = fmt.Sprintf("⚠️ Error from the language model: %v", err)
	}

	replyMsg := chat.Message{Role: chat.RoleAssistant, Content: reply, CreatedAt: o.now()}
	s.Append(replyMsg)
	r.RenderMessage(chat.RoleAssistant, reply)
	o.persist(ctx, s, replyMsg, r)

	if err != nil {
		metrics.RecordTurn(metrics.TurnModelFail)
	} else {
		metrics.RecordTurn(metrics.TurnCompleted)
	}

	return TurnResult{
		UserMessage: &userMsg,
		Reply:       &replyMsg,
		ModelFailed: err != nil,
	}
}

func (o *Orchestrator) callModel(ctx context.Context, s *state.ChatState) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	ctx, span := o.tracer.Start(ctx, "llm.chat", trace.WithAttributes(
		attribute.String("llm.model", o.llm.ModelName()),
		attribute.Int("llm.history_length", len(s.Messages)),
	))
	defer span.End()

	history := make([]llm.Message, len(s.Messages))
	for i, m := range s.Messages {
		history[i] = llm.Message{Role: string(m.Role), Content: m.Content}
	}

	start := time.Now()
	reply, err := o.llm.Chat(ctx, history)
	metrics.RecordModelRequest(o.llm.ModelName(), err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Error(module, "Model call failed", map[string]interface{}{
			"state_id":   s.ID,
			"session_id": s.SessionID,
			"error":      err,
		})
		return "", err
	}
	return reply, nil
}

// persist writes one message immediately when the owner is authenticated.
// A failed write is reported but never stops the turn.
func (o *Orchestrator) persist(ctx context.Context, s *state.ChatState, msg chat.Message, r render.Renderer) {
	if !s.Authenticated || s.UserID == "" {
		return
	}
	if err := o.store.SaveMessage(ctx, s.UserID, s.SessionID, s.SessionTitle, msg.Role, msg.Content); err != nil {
		r.RenderNotice(render.LevelError, SaveFailedNotice(err))
	}
}

// SaveFailedNotice is the user-facing text for a message that could not be stored.
func SaveFailedNotice(err error) string {
	return fmt.Sprintf("Could not save message to history: %v", err)
}
