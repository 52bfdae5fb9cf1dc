package interfaces

import (
	"github.com/finanzasimple/api/internal/finance/application"
	"github.com/finanzasimple/api/internal/finance/domain"
)

// MockCategoryService returns canned values for handler tests. Err, when set,
// is returned by every method.
type MockCategoryService struct {
	Categories []domain.Category
	Category   *domain.Category
	Reassigned int64
	Err        error
}

func (m *MockCategoryService) CreateDefaultCategories(userID string) error {
	return m.Err
}

func (m *MockCategoryService) CreateCategory(userID, name, kind string, sortOrder int) (*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Category, nil
}

func (m *MockCategoryService) ListCategories(userID string) ([]domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}

func (m *MockCategoryService) UpdateCategory(userID, categoryID string, update application.CategoryUpdate) (*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Category, nil
}

func (m *MockCategoryService) SetCategoryVisibility(userID, categoryID string, visible bool) (*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Category, nil
}

func (m *MockCategoryService) DeleteCategory(userID, categoryID string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Reassigned, nil
}

var _ CategoryServiceInterface = (*MockCategoryService)(nil)
