package interfaces

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/stretchr/testify/require"
)

const (
	aliceID = "11111111-1111-1111-1111-111111111111"
	bobID   = "22222222-2222-2222-2222-222222222222"
)

type testAPI struct {
	mux *http.ServeMux
}

func newTestAPI() *testAPI {
	store := infrastructure.NewMemoryStore()
	categories := application.NewCategoryService(store)
	expenses := application.NewExpenseService(store, categories)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	categoryHandler := NewCategoryHandler(categories, logger, respondJSON, respondError)
	expenseHandler := NewExpenseHandler(expenses, logger, respondJSON, respondError)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /categories", categoryHandler.CreateCategory)
	mux.HandleFunc("GET /categories", categoryHandler.GetCategories)
	mux.Handle("PUT /categories/{categoryID}", ValidatePathParamsMiddleware(respondError, http.HandlerFunc(categoryHandler.UpdateCategory), "categoryID"))
	mux.Handle("DELETE /categories/{categoryID}", ValidatePathParamsMiddleware(respondError, http.HandlerFunc(categoryHandler.DeleteCategory), "categoryID"))
	mux.HandleFunc("POST /expenses", expenseHandler.CreateExpense)
	mux.HandleFunc("GET /expenses", expenseHandler.GetExpenses)
	mux.Handle("GET /expenses/{expenseID}", ValidatePathParamsMiddleware(respondError, http.HandlerFunc(expenseHandler.GetExpense), "expenseID"))
	mux.Handle("PUT /expenses/{expenseID}", ValidatePathParamsMiddleware(respondError, http.HandlerFunc(expenseHandler.UpdateExpense), "expenseID"))
	mux.Handle("DELETE /expenses/{expenseID}", ValidatePathParamsMiddleware(respondError, http.HandlerFunc(expenseHandler.DeleteExpense), "expenseID"))
	return &testAPI{mux: mux}
}

// do sends a request as userID; an empty userID sends it unauthenticated.
func (a *testAPI) do(t *testing.T, userID, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req = req.WithContext(user.ContextWithID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, w, &body)
	return body["error"]
}

type categoryResponse struct {
	Category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"category"`
}

func (a *testAPI) createCategory(t *testing.T, userID, name string) string {
	t.Helper()
	w := a.do(t, userID, http.MethodPost, "/categories", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp categoryResponse
	decodeBody(t, w, &resp)
	return resp.Category.ID
}

type expenseResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"userId"`
	Amount     string  `json:"amount"`
	Currency   string  `json:"currency"`
	Note       *string `json:"note"`
	Date       string  `json:"date"`
	CategoryID string  `json:"categoryId"`
	Category   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"category"`
}

func (a *testAPI) createExpense(t *testing.T, userID string, body map[string]interface{}) expenseResponse {
	t.Helper()
	w := a.do(t, userID, http.MethodPost, "/expenses", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp expenseResponse
	decodeBody(t, w, &resp)
	return resp
}
