package controller

import (
	"synthmind-be/internal/dto"
	"synthmind-be/internal/pkg/serverutils"
	"synthmind-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, conversation fiber.Handler, throttle fiber.Handler)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IChatService
}

func NewAuthController(service service.IChatService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router, conversation fiber.Handler, throttle fiber.Handler) {
	h := r.Group("/auth")
	h.Post("/register", throttle, c.Register)
	h.Post("/login", throttle, conversation, c.Login)
	h.Post("/logout", conversation, c.Logout)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	events, err := c.service.Register(ctx.Context(), &req)
	return respond(ctx, "Registered successfully", fiber.Map{"events": events}, err)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), conversationID(ctx), &req)
	return respond(ctx, "Logged in", res, err)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	res, err := c.service.Logout(ctx.Context(), conversationID(ctx))
	return respond(ctx, "Logged out", res, err)
}
