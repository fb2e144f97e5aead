package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isdelr/artverse-be/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", fmt.Errorf("%w: message content cannot be empty", services.ErrValidation), http.StatusBadRequest, `{"message":"Message content cannot be empty"}`},
		{"not found", fmt.Errorf("%w: receiver not found", services.ErrNotFound), http.StatusNotFound, `{"message":"Receiver not found"}`},
		{"bare sentinel", services.ErrForbidden, http.StatusForbidden, `{"message":"forbidden"}`},
		{"conflict", fmt.Errorf("%w: email already registered", services.ErrConflict), http.StatusConflict, `{"message":"Email already registered"}`},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, `{"message":"Invalid credentials"}`},
		{"persistence", errors.New("disk I/O error"), http.StatusInternalServerError, `{"message":"Error sending message"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/messages/x", nil)
			writeServiceError(rec, req, tt.err, "Error sending message")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":`))
	var payload SendPayload
	assert.False(t, decodeJSON(rec, req, &payload))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid request body"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	var wish WishlistPayload
	assert.False(t, decodeJSON(rec, req, &wish))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ArtworkID":"Field 'ArtworkID' failed on the 'required' tag"`)
}

func TestCheckOrigin(t *testing.T) {
	h := &RealtimeHandler{opts: RealtimeOptions{AllowedOrigins: []string{"https://artverse.example"}}}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://artverse.example", true},
		{"https://artverse.example/", true},
		{"http://api.artverse.test", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://api.artverse.test/socket.io/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, h.checkOrigin(req))
		})
	}
}
