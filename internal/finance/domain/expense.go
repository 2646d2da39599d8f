package domain

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency  = "USD"
	DefaultPage      = 1
	DefaultPageSize  = 20
	MaxPageSize      = 100
	maxNoteLength    = 500
	amountDecimalPos = 2
)

// MaxPage keeps (page-1)*limit inside int for every allowed limit.
const MaxPage = math.MaxInt / MaxPageSize

type Expense struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Note       *string         `json:"note"`
	Date       time.Time       `json:"date"`
	CategoryID string          `json:"categoryId"`
	Category   *CategoryRef    `json:"category,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// MarshalJSON renders the amount with exactly two decimals, e.g. "12.50".
func (e Expense) MarshalJSON() ([]byte, error) {
	type expenseAlias Expense
	return json.Marshal(struct {
		expenseAlias
		Amount string `json:"amount"`
	}{expenseAlias(e), e.Amount.StringFixed(amountDecimalPos)})
}

// NewExpense holds the fields accepted when creating an expense. Nil means
// the client did not send the field.
type NewExpense struct {
	Amount     *decimal.Decimal
	CategoryID string
	Date       *time.Time
	Note       *string
	Currency   string
}

// ExpensePatch carries a partial update; nil fields keep their stored value.
type ExpensePatch struct {
	Amount     *decimal.Decimal
	CategoryID *string
	Date       *time.Time
	Note       *string
	Currency   *string
}

// ExpenseFilter narrows a listing. Only non-nil fields take part in the query.
type ExpenseFilter struct {
	From       *time.Time
	To         *time.Time
	CategoryID *string
}

// Matches reports whether e satisfies every present bound. Both date bounds are inclusive.
func (f ExpenseFilter) Matches(e Expense) bool {
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	if f.CategoryID != nil && e.CategoryID != *f.CategoryID {
		return false
	}
	return true
}

type ListParams struct {
	Page   int
	Limit  int
	Filter ExpenseFilter
}

// Normalize applies the paging defaults and caps the page and page size.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

type ExpensePage struct {
	Expenses   []Expense  `json:"expenses"`
	Pagination Pagination `json:"pagination"`
}

// ExpenseRepository. FindExpenseByID is unscoped so callers can
// tell a missing expense from one that belongs to another user; every other
// read is scoped by userID.
type ExpenseRepository interface {
	CreateExpense(ctx context.Context, expense *Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*Expense, error)
	FindUserExpense(ctx context.Context, userID, expenseID string) (*Expense, error)
	FindExpenses(ctx context.Context, userID string, filter ExpenseFilter, limit, offset int) ([]Expense, error)
	CountExpenses(ctx context.Context, userID string, filter ExpenseFilter) (int, error)
	UpdateExpense(ctx context.Context, expense *Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
}

// NormalizeAmount rounds to cents; anything that rounds to zero or below is rejected.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(amountDecimalPos)
	if !rounded.IsPositive() {
		return decimal.Zero, financeErrors.NewValidationError("Please enter a valid amount")
	}
	return rounded, nil
}

func NormalizeCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency, nil
	}
	if len(currency) != 3 {
		return "", financeErrors.NewValidationError("Currency must be a 3-letter code")
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return "", financeErrors.NewValidationError("Currency must be a 3-letter code")
		}
	}
	return currency, nil
}

// NormalizeNote maps an empty note to nil.
func NormalizeNote(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil, nil
	}
	if len([]rune(trimmed)) > maxNoteLength {
		return nil, financeErrors.NewValidationErrorf("Note must be at most %d characters", maxNoteLength)
	}
	return &trimmed, nil
}
