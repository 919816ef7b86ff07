package server

import (
	"net/http"
	"time"

	"melodex/apperr"
	"melodex/model"
)

// AlbumRequest is the album create/update body.
type AlbumRequest struct {
	Title       string  `json:"title"`
	ArtistID    uint64  `json:"artist_id"`
	GenreID     *uint64 `json:"genre_id,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"` // YYYY-MM-DD
	CoverImage  string  `json:"cover_image,omitempty"`
	TotalSongs  int     `json:"total_songs"`
}

// validateAlbumRefs checks the referenced artist and genre exist and
// parses the release date.
func (h *APIHandler) validateAlbumRefs(r *http.Request, req *AlbumRequest) (*time.Time, error) {
	fields := map[string][]string{}
	if req.Title == "" {
		fields["title"] = append(fields["title"], "title is required")
	}

	artist, err := h.artists.FindByID(r.Context(), req.ArtistID)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		fields["artist_id"] = append(fields["artist_id"], "artist does not exist")
	}

	if req.GenreID != nil {
		genre, err := h.genres.FindByID(r.Context(), *req.GenreID)
		if err != nil {
			return nil, err
		}
		if genre == nil {
			fields["genre_id"] = append(fields["genre_id"], "genre does not exist")
		}
	}

	var release *time.Time
	if req.ReleaseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			fields["release_date"] = append(fields["release_date"], "release date must be YYYY-MM-DD")
		} else {
			release = &parsed
		}
	}

	if len(fields) > 0 {
		return nil, apperr.ValidationFields("invalid album data", fields)
	}
	return release, nil
}

func (h *APIHandler) ListAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albums.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, albums, "")
}

func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var req AlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	release, err := h.validateAlbumRefs(r, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	album := &model.Album{
		Title:       req.Title,
		ArtistID:    req.ArtistID,
		GenreID:     req.GenreID,
		ReleaseDate: release,
		CoverImage:  req.CoverImage,
		TotalSongs:  req.TotalSongs,
	}
	if err := h.albums.Create(r.Context(), album); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, album, "")
}

func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	album, err := h.albums.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if album == nil {
		respondError(w, apperr.NotFound("album"))
		return
	}
	respond(w, http.StatusOK, album, "")
}

func (h *APIHandler) UpdateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	album, err := h.albums.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if album == nil {
		respondError(w, apperr.NotFound("album"))
		return
	}

	var req AlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	release, err := h.validateAlbumRefs(r, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	album.Title = req.Title
	album.ArtistID = req.ArtistID
	album.GenreID = req.GenreID
	album.ReleaseDate = release
	album.CoverImage = req.CoverImage
	album.TotalSongs = req.TotalSongs
	album.Artist = nil
	album.Genre = nil
	if err := h.albums.Update(r.Context(), album); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, album, "")
}

func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	album, err := h.albums.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if album == nil {
		respondError(w, apperr.NotFound("album"))
		return
	}

	if err := h.albums.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil, "")
}
