package serverutils

import (
	"errors"

	"synthmind-be/pkg/chat"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error returned by a controller to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	var ve *ValidationError

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.Is(err, chat.ErrInvalidCredentials), errors.Is(err, chat.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, chat.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, chat.ErrInvalidRegistration), errors.Is(err, chat.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, chat.ErrUnknownConversation), errors.Is(err, chat.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, chat.ErrConnectionFailure):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns errors returned further down the chain into
// the standard envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		res := ErrorResponse(code, err.Error())

		var ve *ValidationError
		if errors.As(err, &ve) {
			res.Message = "Invalid request"
			res.Data = ve.Fields
		}
		return ctx.Status(code).JSON(res)
	}
}
