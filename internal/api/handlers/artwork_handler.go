package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/isdelr/artverse-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ArtworkHandler handles HTTP requests for artwork listings.
type ArtworkHandler struct {
	service services.ArtworkServiceProvider
}

// NewArtworkHandler creates a new ArtworkHandler.
func NewArtworkHandler(service services.ArtworkServiceProvider) *ArtworkHandler {
	return &ArtworkHandler{service: service}
}

// Create handles publishing a new artwork for the caller.
func (h *ArtworkHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload services.ArtworkInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	artwork, err := h.service.CreateArtwork(r.Context(), claims.UserID, payload)
	if err != nil {
		writeServiceError(w, r, err, "Error uploading artwork")
		return
	}

	log.Info().Str("artwork_id", artwork.ID).Str("artist_id", claims.UserID).Msg("Artwork created")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Artwork uploaded successfully",
		"artwork": artwork,
	})
}

// Get handles retrieving a single artwork.
func (h *ArtworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	artwork, err := h.service.GetArtworkByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Error fetching artwork")
		return
	}
	writeJSON(w, http.StatusOK, artwork)
}

// Explore handles listing every artwork with its artist name.
func (h *ArtworkHandler) Explore(w http.ResponseWriter, r *http.Request) {
	artworks, err := h.service.Explore(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error fetching artworks")
		return
	}
	writeJSON(w, http.StatusOK, artworks)
}

// Featured handles returning a random sample of artworks.
func (h *ArtworkHandler) Featured(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || n <= 0 || n > 50 {
		n = 8
	}
	artworks, err := h.service.Featured(r.Context(), n)
	if err != nil {
		writeServiceError(w, r, err, "Error fetching featured artworks")
		return
	}
	writeJSON(w, http.StatusOK, artworks)
}

// Mine handles listing the caller's own artworks.
func (h *ArtworkHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	artworks, err := h.service.ListByArtist(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err, "Error fetching artworks")
		return
	}
	writeJSON(w, http.StatusOK, artworks)
}

// ByArtist handles listing the artworks of a given artist.
func (h *ArtworkHandler) ByArtist(w http.ResponseWriter, r *http.Request) {
	artistID := chi.URLParam(r, "artistId")
	if _, err := uuid.Parse(artistID); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid artist ID format")
		return
	}
	artworks, err := h.service.ListByArtist(r.Context(), artistID)
	if err != nil {
		writeServiceError(w, r, err, "Error fetching artist artworks")
		return
	}
	writeJSON(w, http.StatusOK, artworks)
}

// Delete handles removing one of the caller's artworks.
func (h *ArtworkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteArtwork(r.Context(), claims.UserID, id); err != nil {
		writeServiceError(w, r, err, "Error deleting artwork")
		return
	}

	log.Info().Str("artwork_id", id).Str("artist_id", claims.UserID).Msg("Artwork deleted")
	writeMessage(w, http.StatusOK, "Artwork deleted successfully")
}
