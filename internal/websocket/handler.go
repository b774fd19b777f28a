package websocket

import (
	"synthmind-be/internal/pkg/logger"
	"synthmind-be/pkg/chat/state"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs binds a fresh ChatState to the connection and runs it until the peer leaves.
func ServeWs(hub *Hub, dispatcher *Dispatcher, c *websocket.Conn, log logger.ILogger) {
	client := &Client{
		Hub:        hub,
		Conn:       c,
		State:      state.New(uuid.NewString()),
		Send:       make(chan []byte, 256),
		dispatcher: dispatcher,
		logger:     log,
	}
	client.Hub.Register(client)

	go client.writePump()
	client.readPump()
}
