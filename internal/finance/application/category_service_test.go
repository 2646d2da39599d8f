package application

import (
	"context"
	"testing"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/infrastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userA = "user-a"
	userB = "user-b"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(infrastructure.NewMemoryStore())

	c, err := svc.CreateCategory(ctx, userA, "  Groceries ")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", c.Name)
	assert.Equal(t, userA, c.UserID)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	_, err = svc.CreateCategory(ctx, userA, "Groceries")
	assert.ErrorIs(t, err, financeErrors.ErrCategoryNameTaken)

	_, err = svc.CreateCategory(ctx, userB, "Groceries")
	assert.NoError(t, err)

	_, err = svc.CreateCategory(ctx, userA, "   ")
	assert.True(t, financeErrors.IsValidationError(err))
}

func TestGetAllUserCategories_NeverNil(t *testing.T) {
	svc := NewCategoryService(infrastructure.NewMemoryStore())

	categories, err := svc.GetAllUserCategories(context.Background(), userA)
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestUpdateCategory_Order(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(infrastructure.NewMemoryStore())
	a, _ := svc.CreateCategory(ctx, userA, "A")
	_, _ = svc.CreateCategory(ctx, userA, "B")

	// ownership is checked before the name
	_, err := svc.UpdateCategory(ctx, userB, a.ID, "")
	assert.ErrorIs(t, err, financeErrors.ErrCategoryNotFound)

	_, err = svc.UpdateCategory(ctx, userA, a.ID, " ")
	assert.True(t, financeErrors.IsValidationError(err))

	_, err = svc.UpdateCategory(ctx, userA, a.ID, "B")
	assert.ErrorIs(t, err, financeErrors.ErrCategoryNameTaken)

	updated, err := svc.UpdateCategory(ctx, userA, a.ID, "C")
	require.NoError(t, err)
	assert.Equal(t, "C", updated.Name)
}

func TestDeleteCategory_InUse(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.NewMemoryStore()
	categories := NewCategoryService(store)
	expenses := NewExpenseService(store, categories)

	c, err := categories.CreateCategory(ctx, userA, "Food")
	require.NoError(t, err)
	e, err := expenses.CreateExpense(ctx, userA, newExpenseInput("4.20", c.ID))
	require.NoError(t, err)

	assert.ErrorIs(t, categories.DeleteCategory(ctx, userA, c.ID), financeErrors.ErrCategoryInUse)
	assert.ErrorIs(t, categories.DeleteCategory(ctx, userB, c.ID), financeErrors.ErrCategoryNotFound)

	require.NoError(t, expenses.DeleteExpense(ctx, userA, e.ID))
	require.NoError(t, categories.DeleteCategory(ctx, userA, c.ID))

	_, err = categories.GetCategory(ctx, userA, c.ID)
	assert.ErrorIs(t, err, financeErrors.ErrCategoryNotFound)
}

// racingCategoryRepo lets the name pre-check pass while the store rejects the insert.
type racingCategoryRepo struct {
	domain.CategoryRepository
}

func (racingCategoryRepo) FindCategoryByName(context.Context, string, string) (*domain.Category, error) {
	return nil, financeErrors.ErrCategoryNotFound
}

func (racingCategoryRepo) CreateCategory(context.Context, *domain.Category) error {
	return financeErrors.ErrCategoryNameTaken
}

func TestCreateCategory_StoreConstraintWins(t *testing.T) {
	svc := NewCategoryService(racingCategoryRepo{})
	_, err := svc.CreateCategory(context.Background(), userA, "Food")
	assert.ErrorIs(t, err, financeErrors.ErrCategoryNameTaken)
}
