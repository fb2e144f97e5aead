package handlers

import (
	"net/http"

	"github.com/isdelr/artverse-be/internal/services"
)

// WishlistHandler handles HTTP requests for likes and wishlists.
type WishlistHandler struct {
	service services.WishlistServiceProvider
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service services.WishlistServiceProvider) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// WishlistPayload identifies the artwork to like or unlike.
type WishlistPayload struct {
	ArtworkID string `json:"artworkId" validate:"required"`
}

// Add handles liking an artwork.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload WishlistPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	artwork, err := h.service.Add(r.Context(), claims.UserID, payload.ArtworkID)
	if err != nil {
		writeServiceError(w, r, err, "Error adding to wishlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Added to wishlist",
		"artwork": artwork,
	})
}

// Remove handles unliking an artwork.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload WishlistPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	artwork, err := h.service.Remove(r.Context(), claims.UserID, payload.ArtworkID)
	if err != nil {
		writeServiceError(w, r, err, "Error removing from wishlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Removed from wishlist",
		"artwork": artwork,
	})
}

// List handles returning the caller's wishlist.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.service.List(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err, "Error fetching wishlist")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
