package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/artverse-be/internal/auth"
	"github.com/isdelr/artverse-be/internal/services"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeServiceError maps a service error to a status code. Unexpected errors
// are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, http.StatusBadRequest, detail(err, services.ErrValidation))
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, detail(err, services.ErrNotFound))
	case errors.Is(err, services.ErrForbidden):
		writeMessage(w, http.StatusForbidden, detail(err, services.ErrForbidden))
	case errors.Is(err, services.ErrConflict):
		writeMessage(w, http.StatusConflict, detail(err, services.ErrConflict))
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg(fallback)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}

// detail strips the sentinel prefix so clients see only the specific reason.
func detail(err, sentinel error) string {
	if err == sentinel {
		return sentinel.Error()
	}
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// decodeJSON reads the request body into dst and runs struct validation.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return false
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
		return false
	}
	return true
}

// currentUser returns the claims set by the auth middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return claims, true
}
