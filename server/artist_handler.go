package server

import (
	"net/http"

	"melodex/apperr"
	"melodex/model"
)

// ArtistRequest is the artist create/update body.
type ArtistRequest struct {
	Name             string `json:"name"`
	Bio              string `json:"bio,omitempty"`
	ProfilePicture   string `json:"profile_picture,omitempty"`
	Verified         bool   `json:"verified"`
	MonthlyListeners int64  `json:"monthly_listeners"`
}

func (h *APIHandler) ListArtistsHandler(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artists.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, artists, "")
}

func (h *APIHandler) CreateArtistHandler(w http.ResponseWriter, r *http.Request) {
	var req ArtistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name", "name is required"))
		return
	}

	artist := &model.Artist{
		Name:             req.Name,
		Bio:              req.Bio,
		ProfilePicture:   req.ProfilePicture,
		Verified:         req.Verified,
		MonthlyListeners: req.MonthlyListeners,
	}
	if err := h.artists.Create(r.Context(), artist); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, artist, "")
}

func (h *APIHandler) GetArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	artist, err := h.artists.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if artist == nil {
		respondError(w, apperr.NotFound("artist"))
		return
	}
	respond(w, http.StatusOK, artist, "")
}

func (h *APIHandler) UpdateArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	artist, err := h.artists.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if artist == nil {
		respondError(w, apperr.NotFound("artist"))
		return
	}

	var req ArtistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name", "name is required"))
		return
	}

	artist.Name = req.Name
	artist.Bio = req.Bio
	artist.ProfilePicture = req.ProfilePicture
	artist.Verified = req.Verified
	artist.MonthlyListeners = req.MonthlyListeners
	if err := h.artists.Update(r.Context(), artist); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, artist, "")
}

func (h *APIHandler) DeleteArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	artist, err := h.artists.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if artist == nil {
		respondError(w, apperr.NotFound("artist"))
		return
	}

	if err := h.artists.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil, "")
}
