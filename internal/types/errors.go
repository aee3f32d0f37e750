package types

import "errors"

// Sentinel errors returned by services and repositories. Handlers map these
// to HTTP statuses with errors.Is; anything unmatched surfaces as a 500.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmailTaken      = errors.New("email already exists")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
)
