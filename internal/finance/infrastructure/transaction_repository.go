package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = "id, user_id, category_id, amount, kind, date, description, created_at, updated_at"

func scanTransaction(row interface{ Scan(...interface{}) error }) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Kind,
		&t.Date, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Save(transaction domain.Transaction) error {
	_, err := r.db.Exec(
		`INSERT INTO transactions (id, user_id, category_id, amount, kind, date, description, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		transaction.ID, transaction.UserID, transaction.CategoryID, transaction.Amount,
		transaction.Kind, transaction.Date, transaction.Description,
	)
	if err != nil {
		return financeErrors.NewStorageError("transaction insert", err)
	}
	return nil
}

func (r *TransactionRepository) FindByID(transactionID string) (*domain.Transaction, error) {
	row := r.db.QueryRow(
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1", transactionID)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, financeErrors.NewStorageError("transaction lookup", err)
	}
	return transaction, nil
}

func (r *TransactionRepository) FindByUser(userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE user_id = $1"
	args := []interface{}{userID}

	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY date DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if filter.Page > 1 {
			args = append(args, (filter.Page-1)*filter.Limit)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, financeErrors.NewStorageError("transaction list", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, financeErrors.NewStorageError("transaction list", err)
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) Update(transaction domain.Transaction) error {
	_, err := r.db.Exec(
		`UPDATE transactions
         SET category_id = $2, amount = $3, kind = $4, date = $5, description = $6, updated_at = NOW()
         WHERE id = $1`,
		transaction.ID, transaction.CategoryID, transaction.Amount, transaction.Kind,
		transaction.Date, transaction.Description,
	)
	if err != nil {
		return financeErrors.NewStorageError("transaction update", err)
	}
	return nil
}

func (r *TransactionRepository) Delete(transactionID string) error {
	_, err := r.db.Exec("DELETE FROM transactions WHERE id = $1", transactionID)
	if err != nil {
		return financeErrors.NewStorageError("transaction delete", err)
	}
	return nil
}

func (r *TransactionRepository) CountByCategory(userID, categoryID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND category_id = $2",
		userID, categoryID).Scan(&count)
	if err != nil {
		return 0, financeErrors.NewStorageError("transaction count", err)
	}
	return count, nil
}

// ReassignCategory rewrites the category reference of every transaction the
// user logged against fromCategoryID and returns how many rows changed.
func (r *TransactionRepository) ReassignCategory(userID, fromCategoryID, toCategoryID string) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE transactions SET category_id = $3, updated_at = NOW()
         WHERE user_id = $1 AND category_id = $2`,
		userID, fromCategoryID, toCategoryID,
	)
	if err != nil {
		return 0, financeErrors.NewStorageError("transaction reassignment", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, financeErrors.NewStorageError("transaction reassignment", err)
	}
	return affected, nil
}
