package infrastructure

import (
	"sort"
	"sync"
	"time"

	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
)

// MockTransactionRepository is an in-memory TransactionRepository for unit tests.
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions map[string]domain.Transaction
	FailWith     error
	// FailReassign makes only ReassignCategory fail, to exercise the
	// delete-after-reassign ordering.
	FailReassign error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{Transactions: make(map[string]domain.Transaction)}
}

func (m *MockTransactionRepository) Save(transaction domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return nil
}

func (m *MockTransactionRepository) FindByID(transactionID string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	transaction, ok := m.Transactions[transactionID]
	if !ok {
		return nil, financeErrors.ErrTransactionNotFound
	}
	return &transaction, nil
}

func (m *MockTransactionRepository) FindByUser(userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var transactions []domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		if !filter.StartDate.IsZero() && t.Date.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && t.Date.After(filter.EndDate) {
			continue
		}
		transactions = append(transactions, t)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		if offset >= len(transactions) {
			return nil, nil
		}
		end := offset + filter.Limit
		if end > len(transactions) {
			end = len(transactions)
		}
		transactions = transactions[offset:end]
	}
	return transactions, nil
}

func (m *MockTransactionRepository) Update(transaction domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	existing, ok := m.Transactions[transaction.ID]
	if !ok {
		return financeErrors.ErrTransactionNotFound
	}
	transaction.CreatedAt = existing.CreatedAt
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return nil
}

func (m *MockTransactionRepository) Delete(transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.Transactions, transactionID)
	return nil
}

func (m *MockTransactionRepository) CountByCategory(userID, categoryID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	var count int64
	for _, t := range m.Transactions {
		if t.UserID == userID && t.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *MockTransactionRepository) ReassignCategory(userID, fromCategoryID, toCategoryID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	if m.FailReassign != nil {
		return 0, m.FailReassign
	}
	var moved int64
	for id, t := range m.Transactions {
		if t.UserID == userID && t.CategoryID == fromCategoryID {
			t.CategoryID = toCategoryID
			t.UpdatedAt = time.Now()
			m.Transactions[id] = t
			moved++
		}
	}
	return moved, nil
}

var _ domain.TransactionRepository = (*MockTransactionRepository)(nil)
