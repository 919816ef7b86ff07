package server

import (
	"net/http"

	"melodex/apperr"
	"melodex/model"

	"github.com/gorilla/mux"
)

// SongRequest is the song create/update body.
type SongRequest struct {
	Title     string  `json:"title"`
	ArtistID  uint64  `json:"artist_id"`
	AlbumID   *uint64 `json:"album_id,omitempty"`
	GenreID   *uint64 `json:"genre_id,omitempty"`
	AudioFile string  `json:"audio_file,omitempty"`
	Image     string  `json:"image,omitempty"`
	Duration  int     `json:"duration"`
	IsPremium bool    `json:"is_premium"`
}

// validateSongRefs checks the referenced artist, album and genre exist.
func (h *APIHandler) validateSongRefs(r *http.Request, req *SongRequest) error {
	fields := map[string][]string{}
	if req.Title == "" {
		fields["title"] = append(fields["title"], "title is required")
	}

	artist, err := h.artists.FindByID(r.Context(), req.ArtistID)
	if err != nil {
		return err
	}
	if artist == nil {
		fields["artist_id"] = append(fields["artist_id"], "artist does not exist")
	}

	if req.AlbumID != nil {
		album, err := h.albums.FindByID(r.Context(), *req.AlbumID)
		if err != nil {
			return err
		}
		if album == nil {
			fields["album_id"] = append(fields["album_id"], "album does not exist")
		}
	}
	if req.GenreID != nil {
		genre, err := h.genres.FindByID(r.Context(), *req.GenreID)
		if err != nil {
			return err
		}
		if genre == nil {
			fields["genre_id"] = append(fields["genre_id"], "genre does not exist")
		}
	}

	if len(fields) > 0 {
		return apperr.ValidationFields("invalid song data", fields)
	}
	return nil
}

func (h *APIHandler) ListSongsHandler(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, songs, "")
}

func (h *APIHandler) CreateSongHandler(w http.ResponseWriter, r *http.Request) {
	var req SongRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.validateSongRefs(r, &req); err != nil {
		respondError(w, err)
		return
	}

	song := &model.Song{
		Title:     req.Title,
		ArtistID:  req.ArtistID,
		AlbumID:   req.AlbumID,
		GenreID:   req.GenreID,
		AudioFile: req.AudioFile,
		Image:     req.Image,
		Duration:  req.Duration,
		IsPremium: req.IsPremium,
	}
	if err := h.songs.Create(r.Context(), song); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, song, "")
}

func (h *APIHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	song, err := h.songs.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if song == nil {
		respondError(w, apperr.NotFound("song"))
		return
	}
	respond(w, http.StatusOK, song, "")
}

func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	song, err := h.songs.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if song == nil {
		respondError(w, apperr.NotFound("song"))
		return
	}

	var req SongRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.validateSongRefs(r, &req); err != nil {
		respondError(w, err)
		return
	}

	song.Title = req.Title
	song.ArtistID = req.ArtistID
	song.AlbumID = req.AlbumID
	song.GenreID = req.GenreID
	song.AudioFile = req.AudioFile
	song.Image = req.Image
	song.Duration = req.Duration
	song.IsPremium = req.IsPremium
	song.Artist = nil
	song.Album = nil
	song.Genre = nil
	if err := h.songs.Update(r.Context(), song); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, song, "")
}

func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	song, err := h.songs.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if song == nil {
		respondError(w, apperr.NotFound("song"))
		return
	}

	if err := h.songs.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil, "")
}

// Filter endpoints return plain arrays.

func (h *APIHandler) SongsByTitleHandler(w http.ResponseWriter, r *http.Request) {
	title := mux.Vars(r)["title"]
	songs, err := h.songs.FilterByTitle(r.Context(), title)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, songs, "")
}

func (h *APIHandler) SongsByArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	songs, err := h.songs.FilterByArtist(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, songs, "")
}

func (h *APIHandler) SongsByAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	songs, err := h.songs.FilterByAlbum(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, songs, "")
}

func (h *APIHandler) SongsByGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	songs, err := h.songs.FilterByGenre(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, songs, "")
}
