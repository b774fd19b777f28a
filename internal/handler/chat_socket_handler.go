package handler

import (
	"synthmind-be/internal/pkg/logger"
	internalWS "synthmind-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type ChatSocketHandler struct {
	hub        *internalWS.Hub
	dispatcher *internalWS.Dispatcher
	logger     logger.ILogger
}

func NewChatSocketHandler(hub *internalWS.Hub, dispatcher *internalWS.Dispatcher, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		hub:        hub,
		dispatcher: dispatcher,
		logger:     log,
	}
}

func (h *ChatSocketHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/ws/chat", h.ServeWs)
}

// ServeWs upgrades the request. Each connection is one visitor with its own
// chat state; no token is needed to chat as a guest.
func (h *ChatSocketHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatSocketHandler", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeWs(h.hub, h.dispatcher, conn, h.logger)
		h.logger.Info("ChatSocketHandler", "WebSocket session ended", nil)
	})(c)
}
