package websocket

import (
	"context"
	"encoding/json"
	"time"

	"synthmind-be/internal/pkg/logger"
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/render"
	"synthmind-be/pkg/chat/state"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client owns one websocket connection and the ChatState bound to it.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	State *state.ChatState

	// Buffered channel of outbound frames.
	Send chan []byte

	dispatcher *Dispatcher
	logger     logger.ILogger
}

// readPump processes inbound frames one at a time. A frame is handled to
// completion, model call included, before the next one is read.
func (c *Client) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Client", "Unexpected close", map[string]interface{}{"state_id": c.State.ID, "error": err})
			}
			return
		}

		var frame InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.enqueue(errorFrame("malformed frame"))
			continue
		}

		// The model call can outlast the read deadline.
		c.Conn.SetReadDeadline(time.Time{})
		for _, out := range c.dispatcher.Dispatch(ctx, c.State, frame, c) {
			c.enqueue(out)
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// writePump pumps frames from Send to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) RenderMessage(role chat.Role, content string) {
	c.enqueue(OutboundFrame{Type: TypeEvent, Event: &render.Event{Kind: render.KindMessage, Role: role, Content: content}})
}

func (c *Client) RenderNotice(level render.Level, text string) {
	c.enqueue(OutboundFrame{Type: TypeEvent, Event: &render.Event{Kind: render.KindNotice, Level: level, Content: text}})
}

func (c *Client) enqueue(frame OutboundFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error("Client", "Failed to encode frame", map[string]interface{}{"error": err})
		return
	}
	select {
	case c.Send <- data:
	default:
		c.logger.Warn("Client", "Outbound buffer full, dropping frame", map[string]interface{}{"state_id": c.State.ID})
	}
}
