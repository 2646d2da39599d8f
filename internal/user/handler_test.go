package user

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func newTestHandler(t *testing.T) (*Handler, Service) {
	t.Helper()
	svc := NewUserService(NewMemoryRepository(), NewBcryptHasher(bcrypt.MinCost))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(svc, logger, respondJSON, respondError), svc
}

func TestHandleGetMe_Success(t *testing.T) {
	h, svc := newTestHandler(t)
	u, err := svc.Register(context.Background(), "Jo", "jo@example.com", "password123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(ContextWithID(req.Context(), u.ID))
	w := httptest.NewRecorder()
	h.HandleGetMe(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, u.ID, body["id"])
	assert.Equal(t, "jo@example.com", body["email"])
	assert.Equal(t, "Jo", body["name"])
	assert.NotContains(t, body, "passwordHash")
}

func TestHandleGetMe_UserGone(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(ContextWithID(req.Context(), "deleted-user"))
	w := httptest.NewRecorder()
	h.HandleGetMe(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "User not found", body["error"])
}

func TestHandleGetMe_NoUserInContext(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleGetMe(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
