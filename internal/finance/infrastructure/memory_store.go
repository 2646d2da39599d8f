package infrastructure

import (
	"context"
	"sort"
	"sync"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

// MemoryStore keeps categories and expenses in process memory. It satisfies
// both CategoryRepository and ExpenseRepository and enforces the same
// constraints as the postgres schema: unique (user, name) categories, expenses
// referencing an existing category of their owner, and restricted deletes.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[string]domain.Category
	expenses   map[string]domain.Expense
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[string]domain.Category),
		expenses:   make(map[string]domain.Expense),
	}
}

func (m *MemoryStore) nameTaken(userID, name, exceptID string) bool {
	for _, c := range m.categories {
		if c.UserID == userID && c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MemoryStore) CreateCategory(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTaken(category.UserID, category.Name, "") {
		return financeErrors.ErrCategoryNameTaken
	}
	m.categories[category.ID] = *category
	return nil
}

func (m *MemoryStore) FindCategoryByID(_ context.Context, userID, categoryID string) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[categoryID]
	if !ok || c.UserID != userID {
		return nil, financeErrors.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *MemoryStore) FindCategoryByName(_ context.Context, userID, name string) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.categories {
		if c.UserID == userID && c.Name == name {
			return &c, nil
		}
	}
	return nil, financeErrors.ErrCategoryNotFound
}

func (m *MemoryStore) FindCategoriesByUser(_ context.Context, userID string) ([]domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := []domain.Category{}
	for _, c := range m.categories {
		if c.UserID == userID {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *MemoryStore) UpdateCategory(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return financeErrors.ErrCategoryNotFound
	}
	if m.nameTaken(category.UserID, category.Name, category.ID) {
		return financeErrors.ErrCategoryNameTaken
	}
	m.categories[category.ID] = *category
	return nil
}

func (m *MemoryStore) DeleteCategory(_ context.Context, userID, categoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.categories[categoryID]
	if !ok || c.UserID != userID {
		return financeErrors.ErrCategoryNotFound
	}
	for _, e := range m.expenses {
		if e.CategoryID == categoryID {
			return financeErrors.ErrCategoryInUse
		}
	}
	delete(m.categories, categoryID)
	return nil
}

func (m *MemoryStore) CountExpensesByCategory(_ context.Context, categoryID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, e := range m.expenses {
		if e.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) checkCategory(userID, categoryID string) error {
	c, ok := m.categories[categoryID]
	if !ok || c.UserID != userID {
		return financeErrors.ErrCategoryNotFound
	}
	return nil
}

// withCategory returns a copy of e carrying the current category name.
func (m *MemoryStore) withCategory(e domain.Expense) domain.Expense {
	if c, ok := m.categories[e.CategoryID]; ok {
		e.Category = &domain.CategoryRef{ID: c.ID, Name: c.Name}
	}
	e.Note = copyNote(e.Note)
	return e
}

func copyNote(note *string) *string {
	if note == nil {
		return nil
	}
	n := *note
	return &n
}

func (m *MemoryStore) CreateExpense(_ context.Context, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkCategory(expense.UserID, expense.CategoryID); err != nil {
		return err
	}
	stored := *expense
	stored.Category = nil
	stored.Note = copyNote(expense.Note)
	m.expenses[expense.ID] = stored
	return nil
}

func (m *MemoryStore) FindExpenseByID(_ context.Context, expenseID string) (*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.expenses[expenseID]
	if !ok {
		return nil, financeErrors.ErrExpenseNotFound
	}
	e = m.withCategory(e)
	return &e, nil
}

func (m *MemoryStore) FindUserExpense(_ context.Context, userID, expenseID string) (*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.expenses[expenseID]
	if !ok || e.UserID != userID {
		return nil, financeErrors.ErrExpenseNotFound
	}
	e = m.withCategory(e)
	return &e, nil
}

func (m *MemoryStore) matching(userID string, filter domain.ExpenseFilter) []domain.Expense {
	var matched []domain.Expense
	for _, e := range m.expenses {
		if e.UserID == userID && filter.Matches(e) {
			matched = append(matched, e)
		}
	}
	return matched
}

func (m *MemoryStore) FindExpenses(_ context.Context, userID string, filter domain.ExpenseFilter, limit, offset int) ([]domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.matching(userID, filter)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	expenses := []domain.Expense{}
	if offset < 0 || offset >= len(matched) {
		return expenses, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	for _, e := range matched[offset:end] {
		expenses = append(expenses, m.withCategory(e))
	}
	return expenses, nil
}

func (m *MemoryStore) CountExpenses(_ context.Context, userID string, filter domain.ExpenseFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.matching(userID, filter)), nil
}

func (m *MemoryStore) UpdateExpense(_ context.Context, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[expense.ID]; !ok {
		return financeErrors.ErrExpenseNotFound
	}
	if err := m.checkCategory(expense.UserID, expense.CategoryID); err != nil {
		return err
	}
	stored := *expense
	stored.Category = nil
	stored.Note = copyNote(expense.Note)
	m.expenses[expense.ID] = stored
	return nil
}

func (m *MemoryStore) DeleteExpense(_ context.Context, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[expenseID]; !ok {
		return financeErrors.ErrExpenseNotFound
	}
	delete(m.expenses, expenseID)
	return nil
}
