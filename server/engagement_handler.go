package server

import (
	"net/http"
	"strconv"

	"melodex/apperr"
	"melodex/model"
)

// ListeningRequest records a playback event.
type ListeningRequest struct {
	SongID           uint64 `json:"song_id"`
	DurationListened int    `json:"duration_listened"`
}

func (h *APIHandler) FavoriteSongHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		respondError(w, apperr.AuthenticationFailed("authentication required"))
		return
	}
	songID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	song, err := h.songs.FindByID(r.Context(), songID)
	if err != nil {
		respondError(w, err)
		return
	}
	if song == nil {
		respondError(w, apperr.NotFound("song"))
		return
	}

	created, err := h.engagement.Favorite(r.Context(), claims.UserID, songID)
	if err != nil {
		respondError(w, err)
		return
	}
	if created {
		respond(w, http.StatusCreated, nil, "Song added to favorites")
		return
	}
	respond(w, http.StatusOK, nil, "Song is already in favorites")
}

func (h *APIHandler) UnfavoriteSongHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		respondError(w, apperr.AuthenticationFailed("authentication required"))
		return
	}
	songID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	removed, err := h.engagement.Unfavorite(r.Context(), claims.UserID, songID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !removed {
		respondError(w, apperr.NotFound("favorite"))
		return
	}
	respond(w, http.StatusNoContent, nil, "")
}

func (h *APIHandler) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		respondError(w, apperr.AuthenticationFailed("authentication required"))
		return
	}

	favorites, err := h.engagement.ListFavorites(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, favorites, "")
}

func (h *APIHandler) RecordListeningHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		respondError(w, apperr.AuthenticationFailed("authentication required"))
		return
	}

	var req ListeningRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.DurationListened < 0 {
		respondError(w, apperr.Validation("duration_listened", "must not be negative"))
		return
	}

	song, err := h.songs.FindByID(r.Context(), req.SongID)
	if err != nil {
		respondError(w, err)
		return
	}
	if song == nil {
		respondError(w, apperr.NotFound("song"))
		return
	}

	entry := &model.ListeningHistory{
		UserID:           claims.UserID,
		SongID:           req.SongID,
		DurationListened: req.DurationListened,
	}
	if err := h.engagement.RecordListening(r.Context(), entry); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, entry, "")
}

func (h *APIHandler) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		respondError(w, apperr.AuthenticationFailed("authentication required"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, apperr.Validation("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}

	history, err := h.engagement.ListHistory(r.Context(), claims.UserID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, history, "")
}
