package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MemoryStoreTestSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func (s *MemoryStoreTestSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func (s *MemoryStoreTestSuite) addCategory(id, userID, name string) {
	now := time.Now().UTC()
	require.NoError(s.T(), s.store.CreateCategory(s.ctx, &domain.Category{
		ID: id, UserID: userID, Name: name, CreatedAt: now, UpdatedAt: now,
	}))
}

func (s *MemoryStoreTestSuite) addExpense(id, userID, categoryID string, date time.Time) {
	require.NoError(s.T(), s.store.CreateExpense(s.ctx, &domain.Expense{
		ID: id, UserID: userID, CategoryID: categoryID, Amount: decimal.NewFromInt(1),
		Currency: "USD", Date: date, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}))
}

func (s *MemoryStoreTestSuite) TestCategoryNameUniquePerUser() {
	s.addCategory("c1", "u1", "Food")
	err := s.store.CreateCategory(s.ctx, &domain.Category{ID: "c2", UserID: "u1", Name: "Food"})
	assert.ErrorIs(s.T(), err, financeErrors.ErrCategoryNameTaken)

	s.addCategory("c3", "u2", "Food")
	s.addCategory("c4", "u1", "Rent")

	err = s.store.UpdateCategory(s.ctx, &domain.Category{ID: "c4", UserID: "u1", Name: "Food"})
	assert.ErrorIs(s.T(), err, financeErrors.ErrCategoryNameTaken)
}

func (s *MemoryStoreTestSuite) TestExpenseNeedsOwnedCategory() {
	s.addCategory("c1", "u1", "Food")
	err := s.store.CreateExpense(s.ctx, &domain.Expense{ID: "e1", UserID: "u2", CategoryID: "c1"})
	assert.ErrorIs(s.T(), err, financeErrors.ErrCategoryNotFound)
}

func (s *MemoryStoreTestSuite) TestDeleteCategoryRestricted() {
	s.addCategory("c1", "u1", "Food")
	s.addExpense("e1", "u1", "c1", time.Now())

	assert.ErrorIs(s.T(), s.store.DeleteCategory(s.ctx, "u1", "c1"), financeErrors.ErrCategoryInUse)
	require.NoError(s.T(), s.store.DeleteExpense(s.ctx, "e1"))
	assert.NoError(s.T(), s.store.DeleteCategory(s.ctx, "u1", "c1"))
}

func (s *MemoryStoreTestSuite) TestFindExpensesFilterOrderAndCategoryName() {
	s.addCategory("c1", "u1", "Food")
	s.addCategory("c2", "u1", "Rent")
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.addExpense("e1", "u1", "c1", base)
	s.addExpense("e2", "u1", "c2", base.AddDate(0, 0, 1))
	s.addExpense("e3", "u1", "c1", base.AddDate(0, 0, 2))

	categoryID := "c1"
	filter := domain.ExpenseFilter{CategoryID: &categoryID}
	expenses, err := s.store.FindExpenses(s.ctx, "u1", filter, 10, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 2)
	assert.Equal(s.T(), "e3", expenses[0].ID)
	assert.Equal(s.T(), "e1", expenses[1].ID)
	assert.Equal(s.T(), "Food", expenses[0].Category.Name)

	total, err := s.store.CountExpenses(s.ctx, "u1", filter)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, total)

	// renaming the category is visible on later reads
	require.NoError(s.T(), s.store.UpdateCategory(s.ctx, &domain.Category{ID: "c1", UserID: "u1", Name: "Groceries"}))
	e, err := s.store.FindUserExpense(s.ctx, "u1", "e1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Groceries", e.Category.Name)

	_, err = s.store.FindUserExpense(s.ctx, "u2", "e1")
	assert.ErrorIs(s.T(), err, financeErrors.ErrExpenseNotFound)
}

func (s *MemoryStoreTestSuite) TestReturnedExpensesAreCopies() {
	s.addCategory("c1", "u1", "Food")
	note := "original"
	require.NoError(s.T(), s.store.CreateExpense(s.ctx, &domain.Expense{
		ID: "e1", UserID: "u1", CategoryID: "c1", Amount: decimal.NewFromInt(1), Note: &note,
	}))

	e, err := s.store.FindExpenseByID(s.ctx, "e1")
	require.NoError(s.T(), err)
	*e.Note = "changed"

	again, err := s.store.FindExpenseByID(s.ctx, "e1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "original", *again.Note)
}

func (s *MemoryStoreTestSuite) TestFindExpensesOutOfRangeOffset() {
	s.addCategory("c1", "u1", "Food")
	s.addExpense("e1", "u1", "c1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	for _, offset := range []int{-80, 1, 1000} {
		expenses, err := s.store.FindExpenses(s.ctx, "u1", domain.ExpenseFilter{}, 100, offset)
		require.NoError(s.T(), err)
		assert.NotNil(s.T(), expenses)
		assert.Empty(s.T(), expenses, "offset %d", offset)
	}
}

func TestMemoryStoreTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}
