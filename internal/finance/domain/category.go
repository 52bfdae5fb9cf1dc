package domain

import (
	"strings"
	"time"

	"github.com/finanzasimple/api/internal/finance/errors"
)

const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Category roles. The fallback category of a kind is the reassignment target
// used when another category of the same kind is deleted.
const (
	RoleNone     = "none"
	RoleFallback = "fallback"
)

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Role      string    `json:"role"`
	IsDefault bool      `json:"is_default"`
	SortOrder int       `json:"sort_order"`
	IsVisible bool      `json:"is_visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidCategoryKind(kind string) bool {
	return kind == KindIncome || kind == KindExpense
}

func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.NewValidationError("Name must not be empty")
	}
	if len(c.Name) > 100 {
		return errors.NewValidationError("Name must be of length less than 100")
	}
	if !IsValidCategoryKind(c.Kind) {
		return errors.NewValidationError("Kind must be 'income' or 'expense'")
	}
	return nil
}

type CategoryRepository interface {
	Save(category Category) error
	// SaveBatch persists all categories atomically: either every row lands
	// or none do.
	SaveBatch(categories []Category) error
	FindByID(categoryID string) (*Category, error)
	FindByUser(userID string) ([]Category, error)
	FindByUserAndName(userID, name string) (*Category, error)
	FindFallback(userID, kind string) (*Category, error)
	Update(category Category) error
	Delete(categoryID string) error
}
