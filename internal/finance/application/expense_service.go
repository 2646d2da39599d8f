package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"golang.org/x/sync/errgroup"
)

type CategoryServiceInterface interface {
	GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error)
}

type ExpenseService struct {
	repo            domain.ExpenseRepository
	categoryService CategoryServiceInterface
	now             func() time.Time
}

func NewExpenseService(repo domain.ExpenseRepository, categoryService CategoryServiceInterface) *ExpenseService {
	return &ExpenseService{repo: repo, categoryService: categoryService, now: time.Now}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, input domain.NewExpense) (*domain.Expense, error) {
	if input.Amount == nil {
		return nil, financeErrors.NewValidationError("Please enter a valid amount")
	}
	amount, err := domain.NormalizeAmount(*input.Amount)
	if err != nil {
		return nil, err
	}
	categoryID := strings.TrimSpace(input.CategoryID)
	if categoryID == "" {
		return nil, financeErrors.NewValidationError("Please select a category")
	}
	if input.Date == nil || input.Date.IsZero() {
		return nil, financeErrors.NewValidationError("Please enter a date")
	}
	currency, err := domain.NormalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}
	note, err := domain.NormalizeNote(input.Note)
	if err != nil {
		return nil, err
	}

	// the category has to resolve under the same user, otherwise the expense would point across accounts
	category, err := s.categoryService.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expense := &domain.Expense{
		ID:         uuid.NewString(),
		UserID:     userID,
		Amount:     amount,
		Currency:   currency,
		Note:       note,
		Date:       input.Date.UTC(),
		CategoryID: category.ID,
		Category:   &domain.CategoryRef{ID: category.ID, Name: category.Name},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// GetUserExpenses returns one page of the user's expenses, newest first, with
// the total row count of the whole filtered set.
func (s *ExpenseService) GetUserExpenses(ctx context.Context, userID string, params domain.ListParams) (*domain.ExpensePage, error) {
	params = params.Normalize()

	var (
		expenses []domain.Expense
		total    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.repo.FindExpenses(gctx, userID, params.Filter, params.Limit, params.Offset())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountExpenses(gctx, userID, params.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return &domain.ExpensePage{
		Expenses:   expenses,
		Pagination: domain.NewPagination(total, params.Page, params.Limit),
	}, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	return s.repo.FindUserExpense(ctx, userID, expenseID)
}

// UpdateExpense applies patch to an expense owned by userID. A missing expense
// is ErrExpenseNotFound, someone else's is ErrExpenseForbidden.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, expenseID string, patch domain.ExpensePatch) (*domain.Expense, error) {
	expense, err := s.ownedExpense(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	if patch.Amount != nil {
		amount, err := domain.NormalizeAmount(*patch.Amount)
		if err != nil {
			return nil, err
		}
		expense.Amount = amount
	}
	if patch.Currency != nil && strings.TrimSpace(*patch.Currency) != "" {
		currency, err := domain.NormalizeCurrency(*patch.Currency)
		if err != nil {
			return nil, err
		}
		expense.Currency = currency
	}
	if patch.Note != nil {
		note, err := domain.NormalizeNote(patch.Note)
		if err != nil {
			return nil, err
		}
		expense.Note = note
	}
	if patch.Date != nil && !patch.Date.IsZero() {
		expense.Date = patch.Date.UTC()
	}
	if patch.CategoryID != nil {
		categoryID := strings.TrimSpace(*patch.CategoryID)
		if categoryID != "" && categoryID != expense.CategoryID {
			category, err := s.categoryService.GetCategory(ctx, userID, categoryID)
			if err != nil {
				return nil, err
			}
			expense.CategoryID = category.ID
			expense.Category = &domain.CategoryRef{ID: category.ID, Name: category.Name}
		}
	}

	expense.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.ownedExpense(ctx, userID, expenseID)
	if err != nil {
		return err
	}
	return s.repo.DeleteExpense(ctx, expense.ID)
}

func (s *ExpenseService) ownedExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	expense, err := s.repo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.UserID != userID {
		return nil, financeErrors.ErrExpenseForbidden
	}
	return expense, nil
}
