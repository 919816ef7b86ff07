package server

import (
	"net/http"

	"melodex/apperr"
	"melodex/model"
)

// GenreRequest is the genre create/update body.
type GenreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (h *APIHandler) ListGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genres.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, genres, "")
}

func (h *APIHandler) CreateGenreHandler(w http.ResponseWriter, r *http.Request) {
	var req GenreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name", "name is required"))
		return
	}

	genre := &model.Genre{Name: req.Name, Description: req.Description}
	if err := h.genres.Create(r.Context(), genre); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, genre, "")
}

func (h *APIHandler) GetGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	genre, err := h.genres.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if genre == nil {
		respondError(w, apperr.NotFound("genre"))
		return
	}
	respond(w, http.StatusOK, genre, "")
}

func (h *APIHandler) UpdateGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	genre, err := h.genres.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if genre == nil {
		respondError(w, apperr.NotFound("genre"))
		return
	}

	var req GenreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name", "name is required"))
		return
	}

	genre.Name = req.Name
	genre.Description = req.Description
	if err := h.genres.Update(r.Context(), genre); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, genre, "")
}

func (h *APIHandler) DeleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	genre, err := h.genres.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if genre == nil {
		respondError(w, apperr.NotFound("genre"))
		return
	}

	if err := h.genres.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil, "")
}
