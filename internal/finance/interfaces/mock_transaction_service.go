package interfaces

import (
	"github.com/finanzasimple/api/internal/finance/domain"
)

// MockTransactionService returns canned values for handler tests. Err, when
// set, is returned by every method. LastFilter records what the handler
// parsed out of the query string.
type MockTransactionService struct {
	Transactions []domain.Transaction
	Transaction  *domain.Transaction
	Err          error
	LastFilter   domain.TransactionFilter
}

func (m *MockTransactionService) CreateTransaction(transaction *domain.Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	transaction.ID = "generated-id"
	return nil
}

func (m *MockTransactionService) GetTransaction(userID, transactionID string) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Transaction, nil
}

func (m *MockTransactionService) GetUserTransactions(userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	m.LastFilter = filter
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Transactions, nil
}

func (m *MockTransactionService) UpdateTransaction(userID string, transaction *domain.Transaction) error {
	return m.Err
}

func (m *MockTransactionService) DeleteTransaction(userID, transactionID string) error {
	return m.Err
}

var _ TransactionServiceInterface = (*MockTransactionService)(nil)
