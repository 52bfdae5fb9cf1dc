package application

import (
	"errors"

	"github.com/google/uuid"

	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
)

// CategoryResolver is the slice of the category service the transaction
// service needs: resolving a category id to a record so ownership can be
// checked.
type CategoryResolver interface {
	ResolveCategory(userID, categoryID string) (*domain.Category, error)
}

type TransactionService struct {
	repo       domain.TransactionRepository
	categories CategoryResolver
}

func NewTransactionService(repo domain.TransactionRepository, categories CategoryResolver) *TransactionService {
	return &TransactionService{repo: repo, categories: categories}
}

func (s *TransactionService) checkCategoryRef(userID, categoryID string) error {
	_, err := s.categories.ResolveCategory(userID, categoryID)
	if err != nil {
		if errors.Is(err, financeErrors.ErrCategoryNotFound) || errors.Is(err, financeErrors.ErrForbidden) {
			return financeErrors.ErrInvalidCategoryRef
		}
		return err
	}
	return nil
}

func (s *TransactionService) CreateTransaction(transaction *domain.Transaction) error {
	transaction.ID = uuid.NewString()
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return err
	}
	if err := s.checkCategoryRef(transaction.UserID, transaction.CategoryID); err != nil {
		return err
	}
	return s.repo.Save(*transaction)
}

func (s *TransactionService) GetTransaction(userID, transactionID string) (*domain.Transaction, error) {
	transaction, err := s.repo.FindByID(transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.UserID != userID {
		return nil, financeErrors.ErrForbidden
	}
	return transaction, nil
}

func (s *TransactionService) GetUserTransactions(userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	transactions, err := s.repo.FindByUser(userID, filter)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		return []domain.Transaction{}, nil
	}
	return transactions, nil
}

func (s *TransactionService) UpdateTransaction(userID string, transaction *domain.Transaction) error {
	existing, err := s.GetTransaction(userID, transaction.ID)
	if err != nil {
		return err
	}

	transaction.UserID = userID
	transaction.CreatedAt = existing.CreatedAt
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return err
	}
	if err := s.checkCategoryRef(userID, transaction.CategoryID); err != nil {
		return err
	}
	return s.repo.Update(*transaction)
}

func (s *TransactionService) DeleteTransaction(userID, transactionID string) error {
	if _, err := s.GetTransaction(userID, transactionID); err != nil {
		return err
	}
	return s.repo.Delete(transactionID)
}
