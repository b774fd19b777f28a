package render

import (
	"sync"

	"synthmind-be/pkg/chat"
)

type Kind string

const (
	KindMessage Kind = "message"
	KindNotice  Kind = "notice"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is what the UI layer draws: either a chat bubble or a notice banner.
type Event struct {
	Kind    Kind      `json:"kind"`
	Role    chat.Role `json:"role,omitempty"`
	Level   Level     `json:"level,omitempty"`
	Content string    `json:"content"`
}

// Renderer is the visual boundary consumed by the chat core.
type Renderer interface {
	RenderMessage(role chat.Role, content string)
	RenderNotice(level Level, text string)
}

// Recorder collects rendered events so a request/response transport can return them.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{events: []Event{}}
}

func (r *Recorder) RenderMessage(role chat.Role, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: KindMessage, Role: role, Content: content})
}

func (r *Recorder) RenderNotice(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: KindNotice, Level: level, Content: text})
}

// Events returns a copy of everything rendered so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Notices returns only the notice events, in order.
func (r *Recorder) Notices() []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == KindNotice {
			out = append(out, e)
		}
	}
	return out
}

// Discard is a Renderer that drops everything.
type Discard struct{}

func (Discard) RenderMessage(chat.Role, string) {}
func (Discard) RenderNotice(Level, string)      {}
