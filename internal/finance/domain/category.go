package domain

import (
	"context"
	"strings"
	"time"

	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

const maxCategoryNameLength = 100

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryRef is the category summary embedded in expense responses.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository lookups are always scoped by the owning user.
// CreateCategory and UpdateCategory return ErrCategoryNameTaken when the
// store's (user_id, name) constraint rejects the row, DeleteCategory returns
// ErrCategoryInUse when expenses still reference the category.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *Category) error
	FindCategoryByID(ctx context.Context, userID, categoryID string) (*Category, error)
	FindCategoryByName(ctx context.Context, userID, name string) (*Category, error)
	FindCategoriesByUser(ctx context.Context, userID string) ([]Category, error)
	UpdateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	CountExpensesByCategory(ctx context.Context, categoryID string) (int, error)
}

// NormalizeCategoryName trims the name and checks it is usable.
func NormalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", financeErrors.NewValidationError("Please enter a name for the category")
	}
	if len([]rune(name)) > maxCategoryNameLength {
		return "", financeErrors.NewValidationErrorf("Category name must be at most %d characters", maxCategoryNameLength)
	}
	return name, nil
}
