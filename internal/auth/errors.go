package auth

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is the root of every credential failure.
var ErrUnauthenticated = errors.New("unauthenticated")

var (
	ErrMissingToken   = fmt.Errorf("%w: missing token", ErrUnauthenticated)
	ErrMalformedToken = fmt.Errorf("%w: malformed authorization header", ErrUnauthenticated)
	// ErrInvalidToken covers bad signatures, wrong algorithms and expiry.
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
)
