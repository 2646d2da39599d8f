package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sebuszqo/ExpenseTracker/internal/logger"
)

type Handler struct {
	userService  Service
	logger       *slog.Logger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewHandler(
	userService Service,
	logger *slog.Logger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *Handler {
	return &Handler{
		userService:  userService,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// HandleGetMe returns the profile of the authenticated user.
func (h *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("fetching user profile failed", logger.FieldPath, r.URL.Path, logger.FieldUserID, userID, logger.FieldError, err)
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.respondJSON(w, http.StatusOK, user.Profile())
}
