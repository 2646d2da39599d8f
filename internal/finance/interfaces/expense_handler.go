package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type ExpenseServiceInterface interface {
	CreateExpense(ctx context.Context, userID string, input domain.NewExpense) (*domain.Expense, error)
	GetUserExpenses(ctx context.Context, userID string, params domain.ListParams) (*domain.ExpensePage, error)
	GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, patch domain.ExpensePatch) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error
}

type ExpenseHandler struct {
	service      ExpenseServiceInterface
	logger       *slog.Logger
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
}

func NewExpenseHandler(
	service ExpenseServiceInterface,
	logger *slog.Logger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *ExpenseHandler {
	if service == nil || logger == nil || respondJSON == nil || respondError == nil {
		panic("Service, logger and response functions must not be nil")
	}
	return &ExpenseHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// optionalString tells an absent field from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

type expenseRequest struct {
	Amount     *decimal.Decimal `json:"amount"`
	CategoryID *string          `json:"categoryId"`
	Date       *string          `json:"date"`
	Note       optionalString   `json:"note"`
	Currency   *string          `json:"currency"`
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := domain.NewExpense{Amount: req.Amount, Note: req.Note.Value}
	if req.CategoryID != nil {
		input.CategoryID = *req.CategoryID
	}
	if req.Currency != nil {
		input.Currency = *req.Currency
	}
	if req.Date != nil && *req.Date != "" {
		date, _, err := parseDate(*req.Date)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Please enter a valid date")
			return
		}
		input.Date = &date
	}

	expense, err := h.service.CreateExpense(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, r, h.logger, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params, message := parseListParams(r)
	if message != "" {
		h.respondError(w, http.StatusBadRequest, message)
		return
	}

	page, err := h.service.GetUserExpenses(r.Context(), userID, params)
	if err != nil {
		handleServiceError(w, r, h.logger, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// parseListParams reads page, limit, from, to and categoryId. Unusable paging
// values fall back to the defaults; a malformed filter value is a client error.
func parseListParams(r *http.Request) (domain.ListParams, string) {
	query := r.URL.Query()
	params := domain.ListParams{
		Page:  atoiOrZero(query.Get("page")),
		Limit: atoiOrZero(query.Get("limit")),
	}

	if from := query.Get("from"); from != "" {
		t, _, err := parseDate(from)
		if err != nil {
			return params, "Invalid from date"
		}
		params.Filter.From = &t
	}
	if to := query.Get("to"); to != "" {
		t, dateOnly, err := parseDate(to)
		if err != nil {
			return params, "Invalid to date"
		}
		if dateOnly {
			// a plain date covers that whole day
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		params.Filter.To = &t
	}
	if categoryID := query.Get("categoryId"); categoryID != "" {
		if _, err := uuid.Parse(categoryID); err != nil {
			return params, "Invalid categoryId"
		}
		params.Filter.CategoryID = &categoryID
	}
	return params.Normalize(), ""
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	expense, err := h.service.GetExpense(r.Context(), userID, r.PathValue("expenseID"))
	if err != nil {
		handleServiceError(w, r, h.logger, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := domain.ExpensePatch{
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
		Currency:   req.Currency,
	}
	if req.Note.Set {
		note := ""
		if req.Note.Value != nil {
			note = *req.Note.Value
		}
		patch.Note = &note
	}
	if req.Date != nil && *req.Date != "" {
		date, _, err := parseDate(*req.Date)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Please enter a valid date")
			return
		}
		patch.Date = &date
	}

	expense, err := h.service.UpdateExpense(r.Context(), userID, r.PathValue("expenseID"), patch)
	if err != nil {
		handleServiceError(w, r, h.logger, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteExpense(r.Context(), userID, r.PathValue("expenseID")); err != nil {
		handleServiceError(w, r, h.logger, h.respondError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
