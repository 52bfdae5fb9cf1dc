package infrastructure

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
)

// MockCategoryRepository is an in-memory CategoryRepository for unit tests.
// It enforces the same uniqueness rules the database schema does:
// (user, lower(name)) and one fallback per (user, kind).
type MockCategoryRepository struct {
	mu         sync.Mutex
	Categories map[string]domain.Category
	FailWith   error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[string]domain.Category)}
}

func (m *MockCategoryRepository) violatesConstraints(candidate domain.Category) bool {
	for _, existing := range m.Categories {
		if existing.ID == candidate.ID || existing.UserID != candidate.UserID {
			continue
		}
		if strings.EqualFold(existing.Name, candidate.Name) {
			return true
		}
		if candidate.Role == domain.RoleFallback && existing.Role == domain.RoleFallback &&
			existing.Kind == candidate.Kind {
			return true
		}
	}
	return false
}

func (m *MockCategoryRepository) Save(category domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if m.violatesConstraints(category) {
		return financeErrors.ErrDuplicateCategoryName
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) SaveBatch(categories []domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	staged := make(map[string]domain.Category, len(m.Categories)+len(categories))
	for id, c := range m.Categories {
		staged[id] = c
	}
	saved := m.Categories
	m.Categories = staged
	for _, category := range categories {
		if m.violatesConstraints(category) {
			m.Categories = saved
			return financeErrors.ErrDuplicateCategoryName
		}
		category.CreatedAt = time.Now()
		category.UpdatedAt = category.CreatedAt
		staged[category.ID] = category
	}
	return nil
}

func (m *MockCategoryRepository) FindByID(categoryID string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	category, ok := m.Categories[categoryID]
	if !ok {
		return nil, financeErrors.ErrCategoryNotFound
	}
	return &category, nil
}

func (m *MockCategoryRepository) FindByUser(userID string) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var categories []domain.Category
	for _, category := range m.Categories {
		if category.UserID == userID {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func (m *MockCategoryRepository) FindByUserAndName(userID, name string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, category := range m.Categories {
		if category.UserID == userID && strings.EqualFold(category.Name, name) {
			return &category, nil
		}
	}
	return nil, financeErrors.ErrCategoryNotFound
}

func (m *MockCategoryRepository) FindFallback(userID, kind string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, category := range m.Categories {
		if category.UserID == userID && category.Kind == kind && category.Role == domain.RoleFallback {
			return &category, nil
		}
	}
	return nil, financeErrors.ErrCategoryNotFound
}

func (m *MockCategoryRepository) Update(category domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	existing, ok := m.Categories[category.ID]
	if !ok {
		return financeErrors.ErrCategoryNotFound
	}
	if m.violatesConstraints(category) {
		return financeErrors.ErrDuplicateCategoryName
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	m.Categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) Delete(categoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.Categories, categoryID)
	return nil
}

var _ domain.CategoryRepository = (*MockCategoryRepository)(nil)

// ErrMockStorage is a generic failure mocks can be primed with.
var ErrMockStorage = errors.New("mock storage failure")
