package server

import (
	"net/http"
	"time"

	"melodex/apperr"
	"melodex/core/auth"
	"melodex/logger"
	"melodex/model"
)

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Gender          string `json:"gender,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	ProfilePicture  string `json:"profile_picture,omitempty"`
}

// RegisterHandler creates a new account. Validation errors come back
// field-keyed.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	fields := map[string][]string{}
	if req.Username == "" {
		fields["username"] = append(fields["username"], "username is required")
	}
	if req.Email == "" {
		fields["email"] = append(fields["email"], "email is required")
	}
	if req.Password == "" {
		fields["password"] = append(fields["password"], "password is required")
	}
	if req.Password != req.ConfirmPassword {
		fields["password"] = append(fields["password"], "passwords do not match")
	}
	switch req.Gender {
	case "M", "F", "O", "":
	default:
		fields["gender"] = append(fields["gender"], "gender must be M, F or O")
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			fields["date_of_birth"] = append(fields["date_of_birth"], "date of birth must be YYYY-MM-DD")
		} else {
			dob = &parsed
		}
	}

	ctx := r.Context()
	if req.Username != "" {
		existing, err := h.users.FindByUsername(ctx, req.Username)
		if err != nil {
			respondError(w, err)
			return
		}
		if existing != nil {
			fields["username"] = append(fields["username"], "a user with this username already exists")
		}
	}
	if req.Email != "" {
		existing, err := h.users.FindByEmail(ctx, req.Email)
		if err != nil {
			respondError(w, err)
			return
		}
		if existing != nil {
			fields["email"] = append(fields["email"], "a user with this email already exists")
		}
	}

	if len(fields) > 0 {
		respondError(w, apperr.ValidationFields("registration failed", fields))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   hash,
		Gender:         req.Gender,
		DateOfBirth:    dob,
		ProfilePicture: req.ProfilePicture,
	}
	if err := h.users.Create(ctx, user); err != nil {
		respondError(w, err)
		return
	}

	logger.Info("user registered", logger.String("username", user.Username))
	respond(w, http.StatusCreated, user.Snapshot(), "User registered successfully")
}

// LoginRequest is the password login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler exchanges username/password for a credential pair.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("password login failed", logger.String("username", req.Username))
		respondError(w, apperr.AuthenticationFailed("no active account found with the given credentials"))
		return
	}

	pair, err := h.tokens.IssuePair(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"access":  pair.Access,
		"refresh": pair.Refresh,
		"user":    user.Snapshot(),
	}, "")
}

// EmailLoginRequest asks for a one-time code.
type EmailLoginRequest struct {
	Email string `json:"email"`
}

// EmailLoginHandler issues a one-time login code to a registered
// email. The response never contains the code.
func (h *APIHandler) EmailLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req EmailLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Email == "" {
		respondError(w, apperr.Validation("email", "email is required"))
		return
	}

	if err := h.otc.IssueCode(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, nil, "a verification code has been sent to your email")
}

// EmailVerifyRequest exchanges a code for credentials.
type EmailVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// EmailVerifyHandler verifies a one-time code and returns a credential
// pair plus the public profile snapshot.
func (h *APIHandler) EmailVerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req EmailVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Email == "" || req.Code == "" {
		respondError(w, apperr.Validation("code", "email and code are required"))
		return
	}

	pair, snapshot, err := h.otc.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"access":  pair.Access,
		"refresh": pair.Refresh,
		"user":    snapshot,
	}, "")
}
