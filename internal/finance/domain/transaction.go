package domain

import (
	"math"
	"strings"
	"time"

	"github.com/finanzasimple/api/internal/finance/errors"
)

type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	CategoryID  string    `json:"category_id"`
	Amount      float64   `json:"amount"`
	Kind        string    `json:"kind"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func IsValidTransactionKind(kind string) bool {
	return kind == KindIncome || kind == KindExpense
}

func (t *Transaction) RoundToTwoDecimalPlaces() {
	t.Amount = math.Round(t.Amount*100) / 100
}

func (t *Transaction) Validate() error {
	if !IsValidTransactionKind(t.Kind) {
		return errors.NewValidationError("Kind must be 'income' or 'expense'")
	}
	t.Description = strings.TrimSpace(t.Description)
	if t.Description == "" {
		return errors.NewValidationError("Description must not be empty")
	}
	if len(t.Description) > 200 {
		return errors.NewValidationError("Description must be of length less than 200")
	}
	if t.CategoryID == "" {
		return errors.NewValidationError("Category is required")
	}
	if t.Date.IsZero() {
		return errors.NewValidationError("Date is required")
	}
	return nil
}

// TransactionFilter narrows FindByUser results. Zero values mean "no filter".
type TransactionFilter struct {
	Kind      string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Page      int
}

type TransactionRepository interface {
	Save(transaction Transaction) error
	FindByID(transactionID string) (*Transaction, error)
	FindByUser(userID string, filter TransactionFilter) ([]Transaction, error)
	Update(transaction Transaction) error
	Delete(transactionID string) error
	CountByCategory(userID, categoryID string) (int64, error)
	ReassignCategory(userID, fromCategoryID, toCategoryID string) (int64, error)
}
