package server

import (
	"net/http"

	"melodex/apperr"
)

// CreatePlaylistRequest distinguishes an absent songs field (nil) from
// an explicitly empty one, which is rejected.
type CreatePlaylistRequest struct {
	Name   string    `json:"name"`
	Public *bool     `json:"public,omitempty"`
	Songs  *[]uint64 `json:"songs,omitempty"`
}

// UpdatePlaylistRequest carries the mutable playlist attributes.
type UpdatePlaylistRequest struct {
	Name   string `json:"name"`
	Public *bool  `json:"public,omitempty"`
}

// PlaylistSongsRequest carries song IDs for membership changes.
type PlaylistSongsRequest struct {
	Songs []uint64 `json:"songs"`
}

func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	lists, err := h.playlists.List(r.Context(), requester(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, lists, "")
}

func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		respondError(w, apperr.AuthenticationFailed("authentication required"))
		return
	}

	var req CreatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	public := false
	if req.Public != nil {
		public = *req.Public
	}
	var songIDs []uint64
	if req.Songs != nil {
		songIDs = *req.Songs
		if songIDs == nil {
			songIDs = []uint64{}
		}
	}

	created, err := h.playlists.Create(r.Context(), claims.UserID, req.Name, public, songIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, created, "Playlist created successfully")
}

func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	list, err := h.playlists.Get(r.Context(), id, requester(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, list, "")
}

func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req UpdatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" && req.Public == nil {
		respondError(w, apperr.Validation("name", "nothing to update"))
		return
	}

	updated, err := h.playlists.Rename(r.Context(), id, requester(r), req.Name, req.Public)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, updated, "Playlist updated successfully")
}

func (h *APIHandler) AddPlaylistSongsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req PlaylistSongsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	updated, msg, err := h.playlists.AddSongs(r.Context(), id, requester(r), req.Songs)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, updated, msg)
}

func (h *APIHandler) RemovePlaylistSongsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req PlaylistSongsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	updated, msg, err := h.playlists.RemoveSongs(r.Context(), id, requester(r), req.Songs)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, updated, msg)
}

// DeletePlaylistHandler removes the playlist. For compatibility with
// older clients the DELETE body may carry a songs field, in which case
// only those songs are removed and the playlist survives. Presence of
// the field decides, not its length, so an empty songs array is a
// subset removal that removes nothing.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if r.Body != nil && r.ContentLength != 0 {
		var req struct {
			Songs *[]uint64 `json:"songs"`
		}
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if req.Songs != nil {
			updated, msg, err := h.playlists.RemoveSongs(r.Context(), id, requester(r), *req.Songs)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, updated, msg)
			return
		}
	}

	if err := h.playlists.Delete(r.Context(), id, requester(r)); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil, "")
}
