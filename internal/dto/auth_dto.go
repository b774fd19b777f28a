package dto

type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=255"`
}

// RegisterRequest only bounds field sizes; completeness and the password
// confirmation are checked by the session manager so the client gets the
// same notices as every other surface.
type RegisterRequest struct {
	Name            string `json:"name" validate:"max=255"`
	Age             int    `json:"age" validate:"gte=0,lte=150"`
	Gender          string `json:"gender" validate:"max=20"`
	Country         string `json:"country" validate:"max=100"`
	City            string `json:"city" validate:"max=100"`
	UserID          string `json:"user_id" validate:"max=100"`
	Password        string `json:"password" validate:"max=255"`
	ConfirmPassword string `json:"confirm_password" validate:"max=255"`
}
