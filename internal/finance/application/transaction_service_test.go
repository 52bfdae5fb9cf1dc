package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
	"github.com/finanzasimple/api/internal/finance/infrastructure"
)

func newTransactionFixture(t *testing.T) (*TransactionService, *CategoryService, *infrastructure.MockTransactionRepository) {
	t.Helper()
	categoryRepo := infrastructure.NewMockCategoryRepository()
	transactionRepo := infrastructure.NewMockTransactionRepository()
	categoryService := NewCategoryService(categoryRepo, transactionRepo)
	return NewTransactionService(transactionRepo, categoryService), categoryService, transactionRepo
}

func TestCreateTransaction(t *testing.T) {
	service, categories, _ := newTransactionFixture(t)
	category, err := categories.CreateCategory("user-1", "Food", domain.KindExpense, 1)
	require.NoError(t, err)

	transaction := &domain.Transaction{
		UserID:      "user-1",
		CategoryID:  category.ID,
		Amount:      12.345,
		Kind:        domain.KindExpense,
		Date:        time.Now(),
		Description: "lunch",
	}
	require.NoError(t, service.CreateTransaction(transaction))
	assert.NotEmpty(t, transaction.ID)
	assert.Equal(t, 12.35, transaction.Amount, "amount should round to two decimal places")
}

func TestCreateTransaction_InvalidCategoryRef(t *testing.T) {
	service, categories, _ := newTransactionFixture(t)

	transaction := &domain.Transaction{
		UserID:      "user-1",
		CategoryID:  "does-not-exist",
		Amount:      10,
		Kind:        domain.KindExpense,
		Date:        time.Now(),
		Description: "lunch",
	}
	err := service.CreateTransaction(transaction)
	assert.ErrorIs(t, err, financeErrors.ErrInvalidCategoryRef)

	// Another user's category is just as invalid as a missing one.
	other, err := categories.CreateCategory("user-2", "Food", domain.KindExpense, 1)
	require.NoError(t, err)
	transaction.CategoryID = other.ID
	err = service.CreateTransaction(transaction)
	assert.ErrorIs(t, err, financeErrors.ErrInvalidCategoryRef)
}

func TestCreateTransaction_Validation(t *testing.T) {
	service, categories, _ := newTransactionFixture(t)
	category, err := categories.CreateCategory("user-1", "Food", domain.KindExpense, 1)
	require.NoError(t, err)

	base := domain.Transaction{
		UserID:      "user-1",
		CategoryID:  category.ID,
		Amount:      10,
		Kind:        domain.KindExpense,
		Date:        time.Now(),
		Description: "lunch",
	}

	blankDescription := base
	blankDescription.Description = "   "
	err = service.CreateTransaction(&blankDescription)
	assert.True(t, financeErrors.IsValidationError(err), "blank description should fail validation, got: %v", err)

	badKind := base
	badKind.Kind = "transfer"
	err = service.CreateTransaction(&badKind)
	assert.True(t, financeErrors.IsValidationError(err), "unknown kind should fail validation, got: %v", err)

	noDate := base
	noDate.Date = time.Time{}
	err = service.CreateTransaction(&noDate)
	assert.True(t, financeErrors.IsValidationError(err), "zero date should fail validation, got: %v", err)

	noCategory := base
	noCategory.CategoryID = ""
	err = service.CreateTransaction(&noCategory)
	assert.True(t, financeErrors.IsValidationError(err), "missing category should fail validation, got: %v", err)
}

func TestGetTransaction_Ownership(t *testing.T) {
	service, categories, _ := newTransactionFixture(t)
	category, err := categories.CreateCategory("user-1", "Food", domain.KindExpense, 1)
	require.NoError(t, err)

	transaction := &domain.Transaction{
		UserID:      "user-1",
		CategoryID:  category.ID,
		Amount:      10,
		Kind:        domain.KindExpense,
		Date:        time.Now(),
		Description: "lunch",
	}
	require.NoError(t, service.CreateTransaction(transaction))

	found, err := service.GetTransaction("user-1", transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.ID, found.ID)

	_, err = service.GetTransaction("user-2", transaction.ID)
	assert.ErrorIs(t, err, financeErrors.ErrForbidden)

	_, err = service.GetTransaction("user-1", "missing")
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
}

func TestGetUserTransactions_FilterAndPagination(t *testing.T) {
	service, categories, _ := newTransactionFixture(t)
	category, err := categories.CreateCategory("user-1", "Food", domain.KindExpense, 1)
	require.NoError(t, err)
	income, err := categories.CreateCategory("user-1", "Salary", domain.KindIncome, 1)
	require.NoError(t, err)

	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, service.CreateTransaction(&domain.Transaction{
			UserID:      "user-1",
			CategoryID:  category.ID,
			Amount:      float64(10 + i),
			Kind:        domain.KindExpense,
			Date:        base.AddDate(0, 0, i),
			Description: "groceries",
		}))
	}
	require.NoError(t, service.CreateTransaction(&domain.Transaction{
		UserID:      "user-1",
		CategoryID:  income.ID,
		Amount:      1000,
		Kind:        domain.KindIncome,
		Date:        base,
		Description: "march salary",
	}))

	expenses, err := service.GetUserTransactions("user-1", domain.TransactionFilter{Kind: domain.KindExpense})
	require.NoError(t, err)
	assert.Len(t, expenses, 5)

	// Newest first.
	all, err := service.GetUserTransactions("user-1", domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.False(t, all[0].Date.Before(all[len(all)-1].Date))

	page2, err := service.GetUserTransactions("user-1", domain.TransactionFilter{Limit: 4, Page: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	ranged, err := service.GetUserTransactions("user-1", domain.TransactionFilter{
		StartDate: base.AddDate(0, 0, 3),
		EndDate:   base.AddDate(0, 0, 4),
	})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)
}

func TestGetUserTransactions_EmptyIsNotNil(t *testing.T) {
	service, _, _ := newTransactionFixture(t)

	transactions, err := service.GetUserTransactions("user-1", domain.TransactionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, transactions)
	assert.Empty(t, transactions)
}

func TestUpdateTransaction(t *testing.T) {
	service, categories, repo := newTransactionFixture(t)
	category, err := categories.CreateCategory("user-1", "Food", domain.KindExpense, 1)
	require.NoError(t, err)

	transaction := &domain.Transaction{
		UserID:      "user-1",
		CategoryID:  category.ID,
		Amount:      10,
		Kind:        domain.KindExpense,
		Date:        time.Now(),
		Description: "lunch",
	}
	require.NoError(t, service.CreateTransaction(transaction))

	updated := *transaction
	updated.Amount = 15.559
	updated.Description = "team lunch"
	require.NoError(t, service.UpdateTransaction("user-1", &updated))
	assert.Equal(t, 15.56, updated.Amount)

	stored, err := repo.FindByID(transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "team lunch", stored.Description)
}

func TestUpdateTransaction_RevalidatesCategoryRef(t *testing.T) {
	service, categories, _ := newTransactionFixture(t)
	category, err := categories.CreateCategory("user-1", "Food", domain.KindExpense, 1)
	require.NoError(t, err)

	transaction := &domain.Transaction{
		UserID:      "user-1",
		CategoryID:  category.ID,
		Amount:      10,
		Kind:        domain.KindExpense,
		Date:        time.Now(),
		Description: "lunch",
	}
	require.NoError(t, service.CreateTransaction(transaction))

	moved := *transaction
	moved.CategoryID = "does-not-exist"
	err = service.UpdateTransaction("user-1", &moved)
	assert.ErrorIs(t, err, financeErrors.ErrInvalidCategoryRef)
}

func TestDeleteTransaction(t *testing.T) {
	service, categories, repo := newTransactionFixture(t)
	category, err := categories.CreateCategory("user-1", "Food", domain.KindExpense, 1)
	require.NoError(t, err)

	transaction := &domain.Transaction{
		UserID:      "user-1",
		CategoryID:  category.ID,
		Amount:      10,
		Kind:        domain.KindExpense,
		Date:        time.Now(),
		Description: "lunch",
	}
	require.NoError(t, service.CreateTransaction(transaction))

	assert.ErrorIs(t, service.DeleteTransaction("user-2", transaction.ID), financeErrors.ErrForbidden)
	require.NoError(t, service.DeleteTransaction("user-1", transaction.ID))

	_, err = repo.FindByID(transaction.ID)
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
}
