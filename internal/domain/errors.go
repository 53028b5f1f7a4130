package domain

import "errors"

// Error taxonomy. Handlers translate these to HTTP status codes; the three
// token failures are all surfaced as 401 so callers cannot probe token state.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateResource  = errors.New("duplicate resource")
	ErrInvalidInput       = errors.New("invalid input")
)
