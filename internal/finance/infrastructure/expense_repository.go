package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseSelect = `SELECT e.id, e.user_id, e.amount, e.currency, e.note, e.date, e.category_id,
	c.name, e.created_at, e.updated_at
	FROM expenses e
	JOIN categories c ON c.id = e.category_id`

func scanExpense(row interface{ Scan(...any) error }) (*domain.Expense, error) {
	var (
		expense      domain.Expense
		note         sql.NullString
		categoryName string
	)
	err := row.Scan(&expense.ID, &expense.UserID, &expense.Amount, &expense.Currency, &note, &expense.Date,
		&expense.CategoryID, &categoryName, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if note.Valid {
		expense.Note = &note.String
	}
	expense.Date = expense.Date.UTC()
	expense.Category = &domain.CategoryRef{ID: expense.CategoryID, Name: categoryName}
	return &expense, nil
}

// buildExpenseWhere turns a filter into a WHERE clause over the "e" alias.
// Values always travel as bind parameters.
func buildExpenseWhere(userID string, filter domain.ExpenseFilter) (string, []any) {
	clauses := []string{"e.user_id = $1"}
	args := []any{userID}

	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("e.date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("e.date <= $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("e.category_id = $%d", len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *ExpenseRepository) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, amount, currency, note, date, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		expense.ID, expense.UserID, expense.Amount, expense.Currency, expense.Note, expense.Date,
		expense.CategoryID, expense.CreatedAt, expense.UpdatedAt,
	)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return financeErrors.ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	if !validID(expenseID) {
		return nil, financeErrors.ErrExpenseNotFound
	}
	expense, err := scanExpense(r.db.QueryRowContext(ctx, expenseSelect+" WHERE e.id = $1", expenseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrExpenseNotFound
	}
	return expense, err
}

func (r *ExpenseRepository) FindUserExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	if !validID(expenseID) {
		return nil, financeErrors.ErrExpenseNotFound
	}
	expense, err := scanExpense(r.db.QueryRowContext(ctx,
		expenseSelect+" WHERE e.id = $1 AND e.user_id = $2", expenseID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrExpenseNotFound
	}
	return expense, err
}

func (r *ExpenseRepository) FindExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter, limit, offset int) ([]domain.Expense, error) {
	expenses := []domain.Expense{}
	if filter.CategoryID != nil && !validID(*filter.CategoryID) {
		return expenses, nil
	}

	where, args := buildExpenseWhere(userID, filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf("%s%s ORDER BY e.date DESC, e.created_at DESC LIMIT $%d OFFSET $%d",
		expenseSelect, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) CountExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter) (int, error) {
	if filter.CategoryID != nil && !validID(*filter.CategoryID) {
		return 0, nil
	}
	where, args := buildExpenseWhere(userID, filter)
	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses e"+where, args...).Scan(&total)
	return total, err
}

func (r *ExpenseRepository) UpdateExpense(ctx context.Context, expense *domain.Expense) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount = $1, currency = $2, note = $3, date = $4, category_id = $5, updated_at = $6
		WHERE id = $7`,
		expense.Amount, expense.Currency, expense.Note, expense.Date, expense.CategoryID, expense.UpdatedAt, expense.ID,
	)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return financeErrors.ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return financeErrors.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	if !validID(expenseID) {
		return financeErrors.ErrExpenseNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, expenseID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return financeErrors.ErrExpenseNotFound
	}
	return nil
}
