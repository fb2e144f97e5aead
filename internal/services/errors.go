package services

import (
	"errors"

	"github.com/google/uuid"
)

// Domain errors. Handlers map them to HTTP status codes with errors.Is; any
// other error from a service is a persistence failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// validID reports whether id has the shape of a record identifier.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
