package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/endcrown/liberty-engine/internal/config"
	"github.com/endcrown/liberty-engine/internal/logging"
	"github.com/endcrown/liberty-engine/internal/middleware"
)

// Handler exposes the auth service over HTTP.
type Handler struct {
	svc *Service
	cfg *config.Config
	log logging.Logger
}

func NewHandler(svc *Service, cfg *config.Config, log logging.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, log: log}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, err := h.svc.SignUp(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
			return
		}
		h.log.Error(r.Context(), "sign-up failed", "error", err)
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	access, refresh, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		h.log.Error(r.Context(), "login failed", "error", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	access, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		h.log.Error(r.Context(), "token refresh failed", "error", err)
		http.Error(w, "Refresh failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": access})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.svc.FindByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	err := h.svc.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "Invalid current password", http.StatusUnauthorized)
			return
		}
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
			return
		}
		h.log.Error(r.Context(), "password update failed", "error", err)
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "listing users failed", "error", err)
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// MailConfirm is the confirmation callback linked from the mail. Unknown
// username, wrong code and expired code all collapse to the same 400.
func (h *Handler) MailConfirm(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	code := r.URL.Query().Get("code")

	err := h.svc.ConfirmEmail(r.Context(), username, code)
	if err != nil {
		if errors.Is(err, ErrConfirmation) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		h.log.Error(r.Context(), "mail confirmation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
