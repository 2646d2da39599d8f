package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

type CategoryService struct {
	repo domain.CategoryRepository
	now  func() time.Time
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, now: time.Now}
}

// CreateCategory stores a new category for userID. The name lookup only gives
// a friendlier error early; the store's unique constraint decides under races.
func (s *CategoryService) CreateCategory(ctx context.Context, userID, name string) (*domain.Category, error) {
	name, err := domain.NormalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, userID, name, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	category := &domain.Category{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetAllUserCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.repo.FindCategoriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// GetCategory returns the category only when userID owns it.
func (s *CategoryService) GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	return s.repo.FindCategoryByID(ctx, userID, categoryID)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID, name string) (*domain.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	name, err = domain.NormalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, userID, name, category.ID); err != nil {
		return nil, err
	}

	category.Name = name
	category.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	category, err := s.repo.FindCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountExpensesByCategory(ctx, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return financeErrors.ErrCategoryInUse
	}

	return s.repo.DeleteCategory(ctx, userID, category.ID)
}

func (s *CategoryService) ensureNameAvailable(ctx context.Context, userID, name, exceptID string) error {
	existing, err := s.repo.FindCategoryByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, financeErrors.ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != exceptID {
		return financeErrors.ErrCategoryNameTaken
	}
	return nil
}
