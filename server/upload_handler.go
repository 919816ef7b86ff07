package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"melodex/apperr"
	"melodex/logger"
)

const maxUploadSize = 64 << 20 // 64 MiB

var audioExtensions = map[string]bool{
	".mp3": true, ".flac": true, ".wav": true, ".ogg": true, ".m4a": true,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// uploadFile reads the multipart "file" part and stores it under the
// given prefix, returning the public URL.
func (h *APIHandler) uploadFile(r *http.Request, prefix string, allowed map[string]bool) (string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return "", apperr.Validation("file", "invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", apperr.Validation("file", "file field is required")
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowed[ext] {
		return "", apperr.Validation("file", "unsupported file type "+ext)
	}

	contentType := header.Header.Get("Content-Type")
	url, err := h.media.Upload(r.Context(), prefix, header.Filename, file, header.Size, contentType)
	if err != nil {
		logger.Error("upload failed", logger.String("prefix", prefix), logger.ErrorField(err))
		return "", err
	}
	return url, nil
}

// UploadAudioHandler stores a song audio file. Admin only.
func (h *APIHandler) UploadAudioHandler(w http.ResponseWriter, r *http.Request) {
	url, err := h.uploadFile(r, "audio", audioExtensions)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"url": url}, "")
}

// UploadCoverHandler stores cover art. Admin only.
func (h *APIHandler) UploadCoverHandler(w http.ResponseWriter, r *http.Request) {
	url, err := h.uploadFile(r, "covers", imageExtensions)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"url": url}, "")
}

// UploadAvatarHandler stores the caller's profile picture and points
// their profile at it.
func (h *APIHandler) UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		respondError(w, apperr.AuthenticationFailed("authentication required"))
		return
	}

	url, err := h.uploadFile(r, "avatars", imageExtensions)
	if err != nil {
		respondError(w, err)
		return
	}

	err = h.users.UpdateProfile(r.Context(), claims.UserID, map[string]interface{}{
		"profile_picture": url,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"url": url}, "Profile picture updated")
}
