package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"synthmind-be/pkg/chat"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{&ValidationError{Fields: map[string]string{"Prompt": "max=8000"}}, fiber.StatusBadRequest},
		{chat.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{chat.ErrNotAuthenticated, fiber.StatusUnauthorized},
		{chat.ErrAlreadyExists, fiber.StatusConflict},
		{chat.ErrInvalidRegistration, fiber.StatusBadRequest},
		{fmt.Errorf("%w: session id is required", chat.ErrInvalidInput), fiber.StatusBadRequest},
		{chat.ErrUnknownConversation, fiber.StatusNotFound},
		{chat.ErrSessionNotFound, fiber.StatusNotFound},
		{fmt.Errorf("%w: dial tcp", chat.ErrConnectionFailure), fiber.StatusServiceUnavailable},
		{fmt.Errorf("%w: syntax", chat.ErrStore), fiber.StatusInternalServerError},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestErrorHandlerMiddleware_WritesEnvelope(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/conflict", func(ctx *fiber.Ctx) error { return chat.ErrAlreadyExists })
	app.Get("/invalid", func(ctx *fiber.Ctx) error {
		return ValidateRequest(struct {
			SessionID string `validate:"required"`
		}{})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var res Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, chat.ErrAlreadyExists.Error(), res.Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/invalid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	res = Response{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "Invalid request", res.Message)
	assert.Equal(t, map[string]interface{}{"SessionID": "required"}, res.Data)
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Name string `validate:"required,max=3"`
		Age  int    `validate:"gte=0"`
	}

	assert.NoError(t, ValidateRequest(req{Name: "abc"}))

	err := ValidateRequest(req{Name: "abcd", Age: -1})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{"Name": "max=3", "Age": "gte=0"}, ve.Fields)
}
