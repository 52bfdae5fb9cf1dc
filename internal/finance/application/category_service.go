package application

import (
	"errors"

	"github.com/google/uuid"

	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
)

// CategoryUpdate carries the fields of a partial category update. Nil fields
// keep their prior values.
type CategoryUpdate struct {
	Name      *string
	Kind      *string
	SortOrder *int
}

type CategoryService struct {
	repo         domain.CategoryRepository
	transactions domain.TransactionRepository
}

func NewCategoryService(repo domain.CategoryRepository, transactions domain.TransactionRepository) *CategoryService {
	return &CategoryService{repo: repo, transactions: transactions}
}

// CreateDefaultCategories seeds the starter catalog for a freshly created
// user. The whole catalog lands atomically; a duplicate-name rejection means
// the user was already seeded and the call is NOT retried here. Callers must
// invoke this exactly once, right after user creation.
func (s *CategoryService) CreateDefaultCategories(userID string) error {
	categories := make([]domain.Category, 0, len(domain.StarterCategories))
	for _, starter := range domain.StarterCategories {
		categories = append(categories, domain.Category{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      starter.Name,
			Kind:      starter.Kind,
			Role:      starter.Role,
			IsDefault: true,
			SortOrder: starter.SortOrder,
			IsVisible: true,
		})
	}
	return s.repo.SaveBatch(categories)
}

func (s *CategoryService) CreateCategory(userID, name, kind string, sortOrder int) (*domain.Category, error) {
	category := domain.Category{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Kind:      kind,
		Role:      domain.RoleNone,
		IsDefault: false,
		SortOrder: sortOrder,
		IsVisible: true,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	// Fast pre-check; the unique index remains the source of truth.
	if _, err := s.repo.FindByUserAndName(userID, category.Name); err == nil {
		return nil, financeErrors.ErrDuplicateCategoryName
	} else if !errors.Is(err, financeErrors.ErrCategoryNotFound) {
		return nil, err
	}

	if err := s.repo.Save(category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) ListCategories(userID string) ([]domain.Category, error) {
	categories, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// ResolveCategory resolves a category id on behalf of another service,
// enforcing that it belongs to the given user.
func (s *CategoryService) ResolveCategory(userID, categoryID string) (*domain.Category, error) {
	return s.findOwned(userID, categoryID)
}

// findOwned resolves a category id and checks it belongs to userID.
func (s *CategoryService) findOwned(userID, categoryID string) (*domain.Category, error) {
	category, err := s.repo.FindByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, financeErrors.ErrForbidden
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(userID, categoryID string, update CategoryUpdate) (*domain.Category, error) {
	category, err := s.findOwned(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != category.Name {
		existing, err := s.repo.FindByUserAndName(userID, *update.Name)
		if err == nil && existing.ID != categoryID {
			return nil, financeErrors.ErrDuplicateCategoryName
		} else if err != nil && !errors.Is(err, financeErrors.ErrCategoryNotFound) {
			return nil, err
		}
		category.Name = *update.Name
	}
	if update.Kind != nil {
		category.Kind = *update.Kind
	}
	if update.SortOrder != nil {
		category.SortOrder = *update.SortOrder
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(*category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) SetCategoryVisibility(userID, categoryID string, visible bool) (*domain.Category, error) {
	category, err := s.findOwned(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault && !visible {
		return nil, financeErrors.ErrDefaultCategoryHidden
	}

	category.IsVisible = visible
	if err := s.repo.Update(*category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a non-default category after rewriting every
// transaction that referenced it to the fallback category of the same kind.
// Reassignment is durable before the row is deleted, so a failure in between
// leaves transactions pointing at the fallback and the category still
// present; re-running the delete is safe. Returns the number of transactions
// reassigned.
func (s *CategoryService) DeleteCategory(userID, categoryID string) (int64, error) {
	category, err := s.findOwned(userID, categoryID)
	if err != nil {
		return 0, err
	}
	if category.IsDefault {
		return 0, financeErrors.ErrDefaultCategoryDelete
	}

	fallback, err := s.ensureFallback(userID, category.Kind)
	if err != nil {
		return 0, err
	}

	reassigned, err := s.transactions.ReassignCategory(userID, categoryID, fallback.ID)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Delete(categoryID); err != nil {
		return reassigned, err
	}
	return reassigned, nil
}

// ensureFallback finds the user's fallback category for a kind, creating it
// on demand for accounts that predate the starter catalog. Two concurrent
// deletes may both attempt the creation; the loser gets the unique-index
// rejection and resolves it with one more lookup.
func (s *CategoryService) ensureFallback(userID, kind string) (*domain.Category, error) {
	fallback, err := s.repo.FindFallback(userID, kind)
	if err == nil {
		return fallback, nil
	}
	if !errors.Is(err, financeErrors.ErrCategoryNotFound) {
		return nil, err
	}

	created := domain.Category{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      domain.FallbackName(kind),
		Kind:      kind,
		Role:      domain.RoleFallback,
		IsDefault: true,
		SortOrder: len(domain.StarterCategories),
		IsVisible: true,
	}
	if err := s.repo.Save(created); err != nil {
		if errors.Is(err, financeErrors.ErrDuplicateCategoryName) {
			return s.repo.FindFallback(userID, kind)
		}
		return nil, err
	}
	return &created, nil
}
