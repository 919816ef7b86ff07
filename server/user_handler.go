package server

import (
	"net/http"
	"strconv"
	"time"

	"melodex/apperr"
)

// ListUsersHandler returns a paginated user listing. Admin only.
func (h *APIHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := h.users.List(r.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"users":     users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// GetUserHandler returns one user by ID. Any authenticated caller.
func (h *APIHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		respondError(w, apperr.NotFound("user"))
		return
	}

	respond(w, http.StatusOK, user, "")
}

// UpdateProfileRequest carries profile updates for the authenticated
// user.
type UpdateProfileRequest struct {
	Gender         *string `json:"gender,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// UpdateProfileHandler updates the caller's own profile attributes.
func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Gender != nil {
		switch *req.Gender {
		case "M", "F", "O", "":
			updates["gender"] = *req.Gender
		default:
			respondError(w, apperr.Validation("gender", "gender must be M, F or O"))
			return
		}
	}
	if req.DateOfBirth != nil {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			respondError(w, apperr.Validation("date_of_birth", "date of birth must be YYYY-MM-DD"))
			return
		}
		updates["date_of_birth"] = parsed
	}
	if req.ProfilePicture != nil {
		updates["profile_picture"] = *req.ProfilePicture
	}

	if len(updates) == 0 {
		respondError(w, apperr.Validation("body", "no profile fields supplied"))
		return
	}

	if err := h.users.UpdateProfile(r.Context(), claims.UserID, updates); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, user, "profile updated")
}
