package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/artverse-be/internal/services"
)

// ChatHandler handles HTTP requests for chat groups.
type ChatHandler struct {
	service services.ChatGroupServiceProvider
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service services.ChatGroupServiceProvider) *ChatHandler {
	return &ChatHandler{service: service}
}

// CreateGroup handles creating a chat group owned by the caller.
func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload services.ChatGroupInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	group, err := h.service.CreateGroup(r.Context(), claims.UserID, payload)
	if err != nil {
		writeServiceError(w, r, err, "Error creating group")
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *ChatHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error fetching groups")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// JoinGroup handles adding the caller to a group.
func (h *ChatHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	group, err := h.service.JoinGroup(r.Context(), claims.UserID, chi.URLParam(r, "groupId"))
	if err != nil {
		writeServiceError(w, r, err, "Error joining group")
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	messages, err := h.service.ListMessages(r.Context(), claims.UserID, chi.URLParam(r, "groupId"))
	if err != nil {
		writeServiceError(w, r, err, "Error fetching messages")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// PostMessage handles a group message sent over HTTP. It is relayed to
// subscribed sockets like one sent over the realtime channel.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload services.ChatMessageInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	message, err := h.service.PostMessage(r.Context(), claims.UserID, chi.URLParam(r, "groupId"), payload)
	if err != nil {
		writeServiceError(w, r, err, "Error sending message")
		return
	}
	writeJSON(w, http.StatusCreated, message)
}
