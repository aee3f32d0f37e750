package types

import "time"

// User represents the core user entity in the domain.
type User struct {
	ID           string    `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Username     string    `json:"username" example:"johndoe"`                        // Unique username used for login.
	Email        string    `json:"email" example:"john.doe@example.com"`              // Unique email address.
	FullName     string    `json:"full_name" example:"John Doe"`                      // Display name.
	PasswordHash string    `json:"-"`                                                 // Hashed password (never exposed).
	IsActive     bool      `json:"is_active"`                                         // Whether the account is active.
	CreatedAt    time.Time `json:"created_at"`                                        // Timestamp when the user was created.
	UpdatedAt    time.Time `json:"updated_at"`                                        // Timestamp when the user was last updated.
}
