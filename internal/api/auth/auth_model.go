package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Username string `json:"username" example:"johndoe"`          // Desired username. Must be unique.
	Email    string `json:"email" example:"john@example.com"`    // Email address. Must be unique.
	FullName string `json:"full_name" example:"John Doe"`        // Display name.
	Password string `json:"password" example:"securepassword"`   // Plaintext password, hashed before storage.
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50), is.Alphanumeric),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.FullName, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(3, 64)),
	)
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Username string `json:"username" example:"johndoe"`
	Password string `json:"password" example:"securepassword"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// TokenResponse represents the successful JSON response after login.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJI..."`
	TokenType   string `json:"token_type" example:"bearer"`
}
