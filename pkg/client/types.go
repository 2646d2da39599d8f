package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

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

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ExpensePage struct {
	Expenses   []Expense  `json:"expenses"`
	Pagination Pagination `json:"pagination"`
}

// NewExpense is the create payload. Currency defaults to USD server-side.
type NewExpense struct {
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"categoryId"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note,omitempty"`
	Currency   string          `json:"currency,omitempty"`
}

// ExpensePatch sends only the non-nil fields. ClearNote removes the stored note.
type ExpensePatch struct {
	Amount     *decimal.Decimal
	CategoryID *string
	Date       *time.Time
	Note       *string
	ClearNote  bool
	Currency   *string
}

func (p ExpensePatch) body() map[string]interface{} {
	body := make(map[string]interface{})
	if p.Amount != nil {
		body["amount"] = *p.Amount
	}
	if p.CategoryID != nil {
		body["categoryId"] = *p.CategoryID
	}
	if p.Date != nil {
		body["date"] = p.Date.UTC().Format(time.RFC3339Nano)
	}
	if p.ClearNote {
		body["note"] = nil
	} else if p.Note != nil {
		body["note"] = *p.Note
	}
	if p.Currency != nil {
		body["currency"] = *p.Currency
	}
	return body
}

// ListOptions filter and page GET /api/expenses. Zero values are omitted.
type ListOptions struct {
	Page       int
	Limit      int
	From       *time.Time
	To         *time.Time
	CategoryID string
}
