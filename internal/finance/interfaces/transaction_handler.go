package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
)

type TransactionServiceInterface interface {
	CreateTransaction(transaction *domain.Transaction) error
	GetTransaction(userID, transactionID string) (*domain.Transaction, error)
	GetUserTransactions(userID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	UpdateTransaction(userID string, transaction *domain.Transaction) error
	DeleteTransaction(userID, transactionID string) error
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *TransactionHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *TransactionHandler) respondTransactionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, financeErrors.ErrTransactionNotFound):
		h.respondError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, financeErrors.ErrForbidden):
		h.respondError(w, http.StatusForbidden, "Transaction belongs to another user")
	case errors.Is(err, financeErrors.ErrInvalidCategoryRef):
		h.respondError(w, http.StatusBadRequest, "Category does not exist for this user")
	case financeErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var transaction domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&transaction); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction.UserID = userID
	if err := h.service.CreateTransaction(&transaction); err != nil {
		h.respondTransactionError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully created.",
		"data":    transaction,
	})
}

// parseTransactionFilter reads list query parameters. Dates use YYYY-MM-DD;
// the start date is widened to the start of its day and the end date to the
// end of its day.
func parseTransactionFilter(r *http.Request) (domain.TransactionFilter, error) {
	var filter domain.TransactionFilter

	kind := r.URL.Query().Get("type")
	if kind != "" && !domain.IsValidTransactionKind(kind) {
		return filter, errors.New("invalid transaction type")
	}
	filter.Kind = kind

	if startDateStr := r.URL.Query().Get("start_date"); startDateStr != "" {
		startDate, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			return filter, errors.New("invalid start date format")
		}
		filter.StartDate = startDate
	}
	if endDateStr := r.URL.Query().Get("end_date"); endDateStr != "" {
		endDate, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			return filter, errors.New("invalid end date format")
		}
		filter.EndDate = endDate.Add(24*time.Hour - time.Nanosecond)
	}

	filter.Limit = 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return filter, errors.New("invalid limit value")
		}
		filter.Limit = limit
	}
	filter.Page = 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page <= 0 {
			return filter, errors.New("invalid page value")
		}
		filter.Page = page
	}

	return filter, nil
}

func (h *TransactionHandler) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := h.service.GetUserTransactions(userID, filter)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   transactions,
	})
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transaction, err := h.service.GetTransaction(userID, r.PathValue("transactionID"))
	if err != nil {
		h.respondTransactionError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   transaction,
	})
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var transaction domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&transaction); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	transaction.ID = r.PathValue("transactionID")

	if err := h.service.UpdateTransaction(userID, &transaction); err != nil {
		h.respondTransactionError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   transaction,
	})
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteTransaction(userID, r.PathValue("transactionID")); err != nil {
		h.respondTransactionError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction deleted successfully.",
	})
}
