package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"melodex/apperr"
	"melodex/config"
	"melodex/core/auth"
	"melodex/core/otc"
	"melodex/core/playlist"
	"melodex/repository"
	"melodex/storage"

	"github.com/gorilla/mux"
)

// APIHandler holds the services and repositories behind the HTTP
// surface. Everything is injected; there is no ambient global state.
type APIHandler struct {
	cfg *config.Config

	users      repository.UserRepository
	artists    repository.ArtistRepository
	genres     repository.GenreRepository
	albums     repository.AlbumRepository
	songs      repository.SongRepository
	engagement repository.EngagementRepository
	billing    repository.BillingRepository

	playlists *playlist.Engine
	otc       *otc.Service
	tokens    *auth.TokenIssuer
	media     *storage.Store // nil when no object store is configured
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(
	cfg *config.Config,
	users repository.UserRepository,
	artists repository.ArtistRepository,
	genres repository.GenreRepository,
	albums repository.AlbumRepository,
	songs repository.SongRepository,
	engagement repository.EngagementRepository,
	billing repository.BillingRepository,
	playlists *playlist.Engine,
	otcService *otc.Service,
	tokens *auth.TokenIssuer,
	media *storage.Store,
) *APIHandler {
	return &APIHandler{
		cfg:        cfg,
		users:      users,
		artists:    artists,
		genres:     genres,
		albums:     albums,
		songs:      songs,
		engagement: engagement,
		billing:    billing,
		playlists:  playlists,
		otc:        otcService,
		tokens:     tokens,
		media:      media,
	}
}

// decodeJSON decodes the request body into dst, converting malformed
// bodies into a validation error.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("body", "invalid request body")
	}
	return nil
}

// pathID parses the named mux variable as an unsigned ID.
func pathID(r *http.Request, name string) (uint64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation(name, "invalid identifier")
	}
	return id, nil
}

// requester builds the playlist-engine requester from the request's
// claims.
func requester(r *http.Request) playlist.Requester {
	claims := claimsFrom(r.Context())
	if claims == nil {
		return playlist.Requester{}
	}
	return playlist.Requester{UserID: claims.UserID, Admin: claims.Admin()}
}
