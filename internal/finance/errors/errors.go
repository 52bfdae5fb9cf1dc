package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the category lifecycle and transaction operations.
// Handlers translate these to HTTP status codes; services never log and
// swallow them.
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrForbidden means the entity exists but belongs to another user.
	ErrForbidden = errors.New("entity belongs to another user")

	// ErrDuplicateCategoryName is the canonical signal for a (user, name)
	// uniqueness violation, whether detected by pre-check or by the
	// database constraint.
	ErrDuplicateCategoryName = errors.New("category with this name already exists")

	// Default categories are permanent anchors: they are the reassignment
	// target of deletions, so they can be neither removed nor hidden.
	ErrDefaultCategoryDelete = errors.New("default categories cannot be deleted")
	ErrDefaultCategoryHidden = errors.New("default categories cannot be hidden")

	ErrInvalidCategoryRef = errors.New("category reference does not resolve for this user")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

// StorageError wraps a failure of the underlying store. The original error
// stays reachable through errors.Unwrap for logging at the edge.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func IsStorageError(err error) bool {
	var storageError *StorageError
	return errors.As(err, &storageError)
}
