package controller

import (
	"synthmind-be/internal/dto"
	"synthmind-be/internal/pkg/serverutils"
	"synthmind-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, conversation fiber.Handler)
	CreateConversation(ctx *fiber.Ctx) error
	EndConversation(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
	SubmitPrompt(ctx *fiber.Ctx) error
	NewChat(ctx *fiber.Ctx) error
	ListHistory(ctx *fiber.Ctx) error
	SelectHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	tokens  *serverutils.TokenIssuer
}

func NewChatController(service service.IChatService, tokens *serverutils.TokenIssuer) IChatController {
	return &chatController{service: service, tokens: tokens}
}

func (c *chatController) RegisterRoutes(r fiber.Router, conversation fiber.Handler) {
	h := r.Group("/chat")
	h.Post("/conversations", c.CreateConversation)
	h.Delete("/conversations", conversation, c.EndConversation)

	h.Get("/state", conversation, c.State)
	h.Post("/prompt", conversation, c.SubmitPrompt)
	h.Post("/new", conversation, c.NewChat)
	h.Get("/history", conversation, c.ListHistory)
	h.Post("/history/select", conversation, c.SelectHistory)
}

func (c *chatController) CreateConversation(ctx *fiber.Ctx) error {
	id, snapshot := c.service.CreateConversation(ctx.Context())
	token, err := c.tokens.Issue(id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Conversation created", dto.CreateConversationResponse{
		Token: token,
		State: snapshot,
	}))
}

func (c *chatController) EndConversation(ctx *fiber.Ctx) error {
	err := c.service.EndConversation(ctx.Context(), conversationID(ctx))
	return respond(ctx, "Conversation ended", nil, err)
}

func (c *chatController) State(ctx *fiber.Ctx) error {
	res, err := c.service.State(ctx.Context(), conversationID(ctx))
	return respond(ctx, "Conversation state", res, err)
}

func (c *chatController) SubmitPrompt(ctx *fiber.Ctx) error {
	var req dto.PromptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitPrompt(ctx.Context(), conversationID(ctx), &req)
	return respond(ctx, "Prompt processed", res, err)
}

func (c *chatController) NewChat(ctx *fiber.Ctx) error {
	res, err := c.service.NewChat(ctx.Context(), conversationID(ctx))
	return respond(ctx, "New chat started", res, err)
}

func (c *chatController) ListHistory(ctx *fiber.Ctx) error {
	res, err := c.service.ListHistory(ctx.Context(), conversationID(ctx))
	return respond(ctx, "Chat history", res, err)
}

func (c *chatController) SelectHistory(ctx *fiber.Ctx) error {
	var req dto.SelectHistoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SelectHistory(ctx.Context(), conversationID(ctx), &req)
	return respond(ctx, "History loaded", res, err)
}
