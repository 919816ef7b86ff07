package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"melodex/cache"
	"melodex/config"
	"melodex/core/auth"
	"melodex/core/mail"
	"melodex/core/otc"
	"melodex/core/playlist"
	"melodex/db"
	"melodex/logger"
	"melodex/repository"
	"melodex/storage"

	"github.com/gorilla/mux"
)

// Start initializes all collaborators and runs the HTTP server until
// interrupted.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogFile,
	})

	gdb, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		logger.Fatal("failed to migrate database", logger.ErrorField(err))
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		logger.Info("connected to Redis", logger.String("addr", cfg.RedisAddr))
	}

	var media *storage.Store
	if cfg.MinioEndpoint != "" {
		media, err = storage.New(cfg)
		if err != nil {
			logger.Fatal("failed to connect to MinIO", logger.ErrorField(err))
		}
		logger.Info("connected to MinIO", logger.String("endpoint", cfg.MinioEndpoint))
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	mailer := mail.FromConfig(cfg)
	throttle := cache.NewCodeThrottle(redisClient, cfg.LoginCodeThrottle)
	otcService := otc.NewService(gdb, tokens, mailer, throttle, cfg.LoginCodeTTL)
	playlists := playlist.NewEngine(gdb)

	users := repository.NewUserRepository(gdb)
	artists := repository.NewArtistRepository(gdb)
	genres := repository.NewGenreRepository(gdb)
	albums := repository.NewAlbumRepository(gdb)
	songs := repository.NewSongRepository(gdb)
	engagement := repository.NewEngagementRepository(gdb)
	billing := repository.NewBillingRepository(gdb)

	h := NewAPIHandler(cfg, users, artists, genres, albums, songs, engagement, billing, playlists, otcService, tokens, media)
	router := newRouter(h)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", logger.ErrorField(err))
	}
	logger.Info("server stopped")
}

// newRouter wires every API route onto a gorilla/mux router.
func newRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Accounts and authentication.
	router.HandleFunc("/api/register/", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/login/", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/login/email/", h.EmailLoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/login/email/verify/", h.EmailVerifyHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/users/", h.requireAdmin(h.ListUsersHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}/", h.requireAuth(h.GetUserHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/me/profile/", h.requireAuth(h.UpdateProfileHandler)).Methods(http.MethodPatch, http.MethodPut)

	// Catalog.
	router.HandleFunc("/api/artists/", h.requireAuth(h.ListArtistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/", h.requireAdmin(h.CreateArtistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/artists/{id}/", h.requireAuth(h.GetArtistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}/", h.requireAdmin(h.UpdateArtistHandler)).Methods(http.MethodPut, http.MethodPatch)
	router.HandleFunc("/api/artists/{id}/", h.requireAdmin(h.DeleteArtistHandler)).Methods(http.MethodDelete)

	router.HandleFunc("/api/genres/", h.requireAuth(h.ListGenresHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/genres/", h.requireAdmin(h.CreateGenreHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/genres/{id}/", h.requireAuth(h.GetGenreHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/genres/{id}/", h.requireAdmin(h.UpdateGenreHandler)).Methods(http.MethodPut, http.MethodPatch)
	router.HandleFunc("/api/genres/{id}/", h.requireAdmin(h.DeleteGenreHandler)).Methods(http.MethodDelete)

	router.HandleFunc("/api/albums/", h.requireAuth(h.ListAlbumsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/", h.requireAdmin(h.CreateAlbumHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/albums/{id}/", h.requireAuth(h.GetAlbumHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/{id}/", h.requireAdmin(h.UpdateAlbumHandler)).Methods(http.MethodPut, http.MethodPatch)
	router.HandleFunc("/api/albums/{id}/", h.requireAdmin(h.DeleteAlbumHandler)).Methods(http.MethodDelete)

	router.HandleFunc("/api/songs/", h.requireAuth(h.ListSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/", h.requireAdmin(h.CreateSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id}/", h.requireAuth(h.GetSongHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}/", h.requireAdmin(h.UpdateSongHandler)).Methods(http.MethodPut, http.MethodPatch)
	router.HandleFunc("/api/songs/{id}/", h.requireAdmin(h.DeleteSongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/songs/title/{title}/", h.requireAuth(h.SongsByTitleHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/artist/{id}/", h.requireAuth(h.SongsByArtistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/album/{id}/", h.requireAuth(h.SongsByAlbumHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/genre/{id}/", h.requireAuth(h.SongsByGenreHandler)).Methods(http.MethodGet)

	// Playlists.
	router.HandleFunc("/api/playlists/", h.requireAuth(h.ListPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/", h.requireAuth(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/", h.requireAuth(h.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}/", h.requireAuth(h.UpdatePlaylistHandler)).Methods(http.MethodPut, http.MethodPatch)
	router.HandleFunc("/api/playlists/{id}/", h.requireAuth(h.AddPlaylistSongsHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/", h.requireAuth(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/songs/", h.requireAuth(h.AddPlaylistSongsHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/songs/", h.requireAuth(h.RemovePlaylistSongsHandler)).Methods(http.MethodDelete)

	// Favorites and listening history.
	router.HandleFunc("/api/songs/{id}/favorite/", h.requireAuth(h.FavoriteSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id}/favorite/", h.requireAuth(h.UnfavoriteSongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/me/favorites/", h.requireAuth(h.ListFavoritesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/history/", h.requireAuth(h.RecordListeningHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/me/history/", h.requireAuth(h.ListHistoryHandler)).Methods(http.MethodGet)

	// Plans and subscriptions.
	router.HandleFunc("/api/plans/", h.requireAuth(h.ListPlansHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/plans/", h.requireAdmin(h.CreatePlanHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/subscribe/", h.requireAuth(h.SubscribeHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/subscriptions/{id}/cancel/", h.requireAuth(h.CancelSubscriptionHandler)).Methods(http.MethodPost)

	// Media uploads, only when an object store is configured.
	if h.media != nil {
		router.HandleFunc("/api/upload/audio/", h.requireAdmin(h.UploadAudioHandler)).Methods(http.MethodPost)
		router.HandleFunc("/api/upload/cover/", h.requireAdmin(h.UploadCoverHandler)).Methods(http.MethodPost)
		router.HandleFunc("/api/me/avatar/", h.requireAuth(h.UploadAvatarHandler)).Methods(http.MethodPost)
	}

	return router
}
