package bootstrap

import (
	"context"
	"fmt"
	"log"

	"synthmind-be/internal/config"
	"synthmind-be/internal/controller"
	"synthmind-be/internal/handler"
	"synthmind-be/internal/pkg/credential"
	"synthmind-be/internal/pkg/logger"
	"synthmind-be/internal/pkg/serverutils"
	"synthmind-be/internal/repository/memory"
	"synthmind-be/internal/repository/unitofwork"
	"synthmind-be/internal/service"
	"synthmind-be/internal/websocket"
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/chat/orchestrator"
	"synthmind-be/pkg/chat/quota"
	"synthmind-be/pkg/chat/session"
	"synthmind-be/pkg/events"
	"synthmind-be/pkg/llm"
	"synthmind-be/pkg/llm/factory"
	"synthmind-be/pkg/nats"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController
	AuthController controller.IAuthController

	// WebSockets
	ChatSocketHandler *handler.ChatSocketHandler
	WebSocketHub      *websocket.Hub

	// Shared
	ChatStates  *memory.ChatStateRepository
	TokenIssuer *serverutils.TokenIssuer
	Gateway     chat.Gateway
	Logger      logger.ILogger

	// Event Bus
	EventBus      *events.Bus
	natsPublisher *nats.Publisher
}

// Close stops background workers and releases broker connections.
func (c *Container) Close() {
	c.WebSocketHub.Stop()
	if err := c.EventBus.Close(); err != nil {
		c.Logger.Warn("Bootstrap", "Failed to close event bus", map[string]interface{}{"error": err.Error()})
	}
	if c.natsPublisher != nil {
		c.natsPublisher.Close()
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURL,
		cfg.Ai.APIKey,
		cfg.Ai.Timeout,
	)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	return NewContainerWith(db, llmProvider, cfg, sysLogger)
}

// NewContainerWith wires the application around an already built model
// provider and logger. Tests use it to inject fakes.
func NewContainerWith(db *gorm.DB, llmProvider llm.LLMProvider, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	hasher, err := credential.NewHasher(cfg.Auth.PasswordScheme, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("init password hasher: %w", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	gateway := service.NewPersistenceGateway(uowFactory, hasher, sysLogger)

	gate := quota.NewGate(cfg.Chat.GuestTurnLimit)
	orch := orchestrator.New(llmProvider, gateway, gate, sysLogger, cfg.Ai.Timeout)

	// Event Bus
	eventBus := events.NewBus(cfg.Events.BusBuffer)
	var natsPublisher *nats.Publisher
	var forward events.Publisher
	if cfg.Events.NatsURL != "" {
		natsPublisher, err = nats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS unavailable, activity events stay in-process", map[string]interface{}{"error": err.Error()})
		} else {
			forward = natsPublisher
			log.Printf("[INFO] Forwarding activity events to NATS at %s", cfg.Events.NatsURL)
		}
	}
	if err := service.NewActivityService(eventBus, forward, sysLogger).Consume(context.Background()); err != nil {
		return nil, fmt.Errorf("start activity consumer: %w", err)
	}

	manager := session.NewManager(gateway, orch, sysLogger).WithEvents(eventBus)

	chatStates := memory.NewChatStateRepository(cfg.Chat.StateTTL)
	tokenIssuer := serverutils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.ConversationTTL)
	chatService := service.NewChatService(chatStates, manager, gate.Limit(), sysLogger)

	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()
	dispatcher := websocket.NewDispatcher(manager, gate.Limit())

	return &Container{
		ChatController:    controller.NewChatController(chatService, tokenIssuer),
		AuthController:    controller.NewAuthController(chatService),
		ChatSocketHandler: handler.NewChatSocketHandler(wsHub, dispatcher, sysLogger),
		WebSocketHub:      wsHub,
		ChatStates:        chatStates,
		TokenIssuer:       tokenIssuer,
		Gateway:           gateway,
		Logger:            sysLogger,
		EventBus:          eventBus,
		natsPublisher:     natsPublisher,
	}, nil
}
