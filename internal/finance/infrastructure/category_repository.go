package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = "id, user_id, name, created_at, updated_at"

func scanCategory(row interface{ Scan(...any) error }) (*domain.Category, error) {
	var category domain.Category
	if err := row.Scan(&category.ID, &category.UserID, &category.Name, &category.CreatedAt, &category.UpdatedAt); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.UserID, category.Name, category.CreatedAt, category.UpdatedAt,
	)
	if pgErrorCode(err) == pgUniqueViolation {
		return financeErrors.ErrCategoryNameTaken
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	if !validID(categoryID) {
		return nil, financeErrors.ErrCategoryNotFound
	}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = $1 AND user_id = $2", categoryID, userID)
	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrCategoryNotFound
	}
	return category, err
}

func (r *CategoryRepository) FindCategoryByName(ctx context.Context, userID, name string) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE user_id = $1 AND name = $2", userID, name)
	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrCategoryNotFound
	}
	return category, err
}

func (r *CategoryRepository) FindCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE user_id = $1 ORDER BY name ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		category.Name, category.UpdatedAt, category.ID, category.UserID,
	)
	if pgErrorCode(err) == pgUniqueViolation {
		return financeErrors.ErrCategoryNameTaken
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return financeErrors.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if !validID(categoryID) {
		return financeErrors.ErrCategoryNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	// the expenses FK catches rows created after the service counted them
	if pgErrorCode(err) == pgForeignKeyViolation {
		return financeErrors.ErrCategoryInUse
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return financeErrors.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) CountExpensesByCategory(ctx context.Context, categoryID string) (int, error) {
	if !validID(categoryID) {
		return 0, nil
	}
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}
