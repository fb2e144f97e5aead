package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/artverse-be/internal/services"
)

// MessageHandler handles HTTP requests for direct messages.
type MessageHandler struct {
	service services.DirectMessageServiceProvider
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service services.DirectMessageServiceProvider) *MessageHandler {
	return &MessageHandler{service: service}
}

// SendPayload is the body of a new direct message.
type SendPayload struct {
	Content string `json:"content"`
}

// Conversation handles listing the messages between the caller and receiverId.
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	messages, err := h.service.ListConversation(r.Context(), claims.UserID, chi.URLParam(r, "receiverId"))
	if err != nil {
		writeServiceError(w, r, err, "Error fetching messages")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// Send handles sending a direct message from the caller to receiverId.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload SendPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	view, err := h.service.Send(r.Context(), claims.UserID, chi.URLParam(r, "receiverId"), payload.Content)
	if err != nil {
		writeServiceError(w, r, err, "Error sending message")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}
