package shop

import (
	"errors"

	"bookstore/internal/auth"
	"bookstore/internal/db"
)

// Error kinds surfaced to the route boundary.
var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = auth.ErrUnauthenticated
	ErrForbidden          = auth.ErrForbidden
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotInitialized     = db.ErrNotInitialized
)
