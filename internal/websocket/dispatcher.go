package websocket

import (
	"context"
	"fmt"

	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/render"
	"synthmind-be/pkg/chat/session"
	"synthmind-be/pkg/chat/state"
)

// Dispatcher applies one inbound frame to a connection's ChatState. Rendered
// events go to r as they happen; the returned frames follow them.
type Dispatcher struct {
	manager    *session.Manager
	guestLimit int
}

func NewDispatcher(manager *session.Manager, guestLimit int) *Dispatcher {
	return &Dispatcher{manager: manager, guestLimit: guestLimit}
}

func (d *Dispatcher) Dispatch(ctx context.Context, s *state.ChatState, frame InboundFrame, r render.Renderer) []OutboundFrame {
	s.Lock()
	defer s.Unlock()

	var out []OutboundFrame
	switch frame.Type {
	case TypeLogin:
		_ = d.manager.Login(ctx, s, frame.UserID, frame.Password, r)
	case TypeLogout:
		d.manager.Logout(s, r)
	case TypeRegister:
		if frame.Register == nil {
			return []OutboundFrame{errorFrame("register payload is required")}
		}
		p := frame.Register
		_ = d.manager.Register(ctx, session.RegistrationForm{
			Name:            p.Name,
			Age:             p.Age,
			Gender:          p.Gender,
			Country:         p.Country,
			City:            p.City,
			UserID:          p.UserID,
			Password:        p.Password,
			ConfirmPassword: p.ConfirmPassword,
		}, r)
	case TypeNewChat:
		d.manager.NewChat(ctx, s, r)
	case TypeListHistory:
		sessions, err := d.manager.ListHistory(ctx, s, r)
		if err == nil {
			if sessions == nil {
				sessions = []chat.SessionSummary{}
			}
			out = append(out, OutboundFrame{Type: TypeSessions, Sessions: sessions})
		}
	case TypeSelectHistory:
		if frame.SessionID == "" {
			return []OutboundFrame{errorFrame("session_id is required")}
		}
		_ = d.manager.SelectHistory(ctx, s, frame.SessionID, frame.Title, r)
	case TypeSubmitPrompt:
		result := d.manager.SubmitPrompt(ctx, s, frame.Prompt, r)
		snap := s.Snapshot(d.guestLimit)
		return append(out, OutboundFrame{Type: TypeState, State: &snap, Blocked: result.Blocked})
	case TypeState:
	default:
		return []OutboundFrame{errorFrame(fmt.Sprintf("unknown frame type %q", frame.Type))}
	}

	snap := s.Snapshot(d.guestLimit)
	return append(out, OutboundFrame{Type: TypeState, State: &snap})
}

func errorFrame(message string) OutboundFrame {
	return OutboundFrame{Type: TypeError, Message: message}
}
