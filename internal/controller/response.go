package controller

import (
	"synthmind-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// respond writes the envelope. A failed chat event still returns its rendered
// events so the client can show the notices.
func respond(ctx *fiber.Ctx, message string, data interface{}, err error) error {
	if err != nil {
		code := serverutils.StatusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponseWithData(code, err.Error(), data))
	}
	return ctx.JSON(serverutils.SuccessResponse(message, data))
}

func conversationID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(serverutils.LocalsConversationID).(string)
	return id
}
