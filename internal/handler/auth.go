package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/pokedex/internal/service"
)

// AuthHandler exposes registration and login over HTTP.
//
// It owns nothing but the translation between JSON and the AuthService —
// credential rules, hashing, and token issuance all live below it.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// credentialsRequest is the shared request body for register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new trainer account.
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"email": "...", "password": "..."}
// RESPONSES: 201 {message, token} | 400 (missing field, duplicate email) | 500
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully.",
		"token":   result.Token,
	})
}

// HandleLogin authenticates an existing trainer.
//
// HTTP: POST /api/auth/login
// RESPONSES: 200 {token} | 400 (missing field, bad credentials) | 500
//
// A failed login always returns the same body, whatever actually went wrong —
// see service.AuthService.Login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": result.Token})
}
