// Package chattest provides in-memory fakes of the chat core's collaborators.
package chattest

import (
	"context"
	"sync"
	"time"

	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/events"
	"synthmind-be/pkg/llm"
)

// FakeLLM returns a canned reply and records every history it was given.
type FakeLLM struct {
	mu        sync.Mutex
	Reply     string
	Err       error
	Block     bool // wait for ctx cancellation instead of answering
	Histories [][]llm.Message
}

func (f *FakeLLM) Chat(ctx context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.mu.Lock()
	cp := make([]llm.Message, len(history))
	copy(cp, history)
	f.Histories = append(f.Histories, cp)
	block, reply, err := f.Block, f.Reply, f.Err
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return reply, err
}

func (f *FakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (f *FakeLLM) ModelName() string { return "fake-model" }

func (f *FakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Histories)
}

type SavedMessage struct {
	UserID    string
	SessionID string
	Title     string
	Role      chat.Role
	Content   string
	At        time.Time
}

// FakeGateway keeps users and messages in memory. The *Err fields force the
// matching operation to fail.
type FakeGateway struct {
	mu sync.Mutex

	Users map[string]chat.UserRecord
	Saved []SavedMessage

	RegisterErr error
	AuthErr     error
	SaveErr     error
	ListErr     error
	LoadErr     error

	RegisterCalls int
	AuthCalls     int
	SaveCalls     int
	ListCalls     int
	LoadCalls     int
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{Users: map[string]chat.UserRecord{}}
}

// AddUser stores a user whose password is compared verbatim.
func (g *FakeGateway) AddUser(u chat.UserRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Users[u.UserID] = u
}

func (g *FakeGateway) Register(_ context.Context, user *chat.UserRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.RegisterCalls++
	if g.RegisterErr != nil {
		return g.RegisterErr
	}
	if _, ok := g.Users[user.UserID]; ok {
		return chat.ErrAlreadyExists
	}
	g.Users[user.UserID] = *user
	return nil
}

func (g *FakeGateway) Authenticate(_ context.Context, userID, password string) (*chat.UserRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.AuthCalls++
	if g.AuthErr != nil {
		return nil, g.AuthErr
	}
	u, ok := g.Users[userID]
	if !ok || u.Password != password {
		return nil, nil
	}
	u.Password = ""
	return &u, nil
}

func (g *FakeGateway) SaveMessage(_ context.Context, userID, sessionID, sessionTitle string, role chat.Role, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.SaveCalls++
	if g.SaveErr != nil {
		return g.SaveErr
	}
	g.Saved = append(g.Saved, SavedMessage{
		UserID:    userID,
		SessionID: sessionID,
		Title:     sessionTitle,
		Role:      role,
		Content:   content,
		At:        time.Now(),
	})
	return nil
}

// ListSessions groups saved messages by session and title, latest activity first.
func (g *FakeGateway) ListSessions(_ context.Context, userID string) ([]chat.SessionSummary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ListCalls++
	if g.ListErr != nil {
		return nil, g.ListErr
	}

	seen := map[string]bool{}
	var out []chat.SessionSummary
	for i := len(g.Saved) - 1; i >= 0; i-- {
		m := g.Saved[i]
		key := m.SessionID + "\x00" + m.Title
		if m.UserID != userID || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, chat.SessionSummary{SessionID: m.SessionID, Title: m.Title})
	}
	return out, nil
}

func (g *FakeGateway) LoadMessages(_ context.Context, sessionID string) ([]chat.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.LoadCalls++
	if g.LoadErr != nil {
		return nil, g.LoadErr
	}

	var out []chat.Message
	for _, m := range g.Saved {
		if m.SessionID == sessionID {
			out = append(out, chat.Message{Role: m.Role, Content: m.Content, CreatedAt: m.At})
		}
	}
	return out, nil
}

// SavedFor returns the messages saved under one session, in save order.
func (g *FakeGateway) SavedFor(sessionID string) []SavedMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []SavedMessage
	for _, m := range g.Saved {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out
}

// FakePublisher records activity events.
type FakePublisher struct {
	mu     sync.Mutex
	Err    error
	Events []events.Event
}

func (p *FakePublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

// Types lists the recorded event types in publish order.
func (p *FakePublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Events))
	for i, e := range p.Events {
		out[i] = e.EventType()
	}
	return out
}
