package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sebuszqo/ExpenseTracker/internal/user"
)

type Handler struct {
	authService  Service
	logger       *slog.Logger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewHandler(
	authService Service,
	logger *slog.Logger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *Handler {
	return &Handler{
		authService:  authService,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type AuthResponse struct {
	User  user.Profile `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	newUser, token, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailAlreadyExists):
			h.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, user.ErrMissingCredentials),
			errors.Is(err, user.ErrInvalidEmail),
			errors.Is(err, user.ErrPasswordTooShort),
			errors.Is(err, user.ErrPasswordTooLong),
			errors.Is(err, user.ErrNameTooLong):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("registration failed", "path", r.URL.Path, "error", err)
			h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	h.respondJSON(w, http.StatusCreated, AuthResponse{User: newUser.Profile(), Token: token})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existingUser, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			h.respondError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, ErrMissingCredentials), errors.Is(err, ErrInvalidEmail):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("login failed", "path", r.URL.Path, "error", err)
			h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, AuthResponse{User: existingUser.Profile(), Token: token})
}
