package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finanzasimple/api/internal/finance/application"
	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
)

type CategoryServiceInterface interface {
	CreateDefaultCategories(userID string) error
	CreateCategory(userID, name, kind string, sortOrder int) (*domain.Category, error)
	ListCategories(userID string) ([]domain.Category, error)
	UpdateCategory(userID, categoryID string, update application.CategoryUpdate) (*domain.Category, error)
	SetCategoryVisibility(userID, categoryID string, visible bool) (*domain.Category, error)
	DeleteCategory(userID, categoryID string) (int64, error)
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// respondCategoryError maps lifecycle errors to HTTP status codes.
func (h *CategoryHandler) respondCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, financeErrors.ErrCategoryNotFound):
		h.respondError(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, financeErrors.ErrForbidden):
		h.respondError(w, http.StatusForbidden, "Category belongs to another user")
	case errors.Is(err, financeErrors.ErrDuplicateCategoryName):
		h.respondError(w, http.StatusConflict, "A category with this name already exists")
	case errors.Is(err, financeErrors.ErrDefaultCategoryDelete):
		h.respondError(w, http.StatusBadRequest, "Default categories cannot be deleted")
	case errors.Is(err, financeErrors.ErrDefaultCategoryHidden):
		h.respondError(w, http.StatusBadRequest, "Default categories cannot be hidden")
	case financeErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categories, err := h.service.ListCategories(userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   categories,
	})
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Name      string `json:"name"`
		Kind      string `json:"kind"`
		SortOrder int    `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.service.CreateCategory(userID, req.Name, req.Kind, req.SortOrder)
	if err != nil {
		h.respondCategoryError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   category,
	})
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	categoryID := r.PathValue("categoryID")

	var req struct {
		Name      *string `json:"name"`
		Kind      *string `json:"kind"`
		SortOrder *int    `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.service.UpdateCategory(userID, categoryID, application.CategoryUpdate{
		Name:      req.Name,
		Kind:      req.Kind,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.respondCategoryError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   category,
	})
}

func (h *CategoryHandler) SetCategoryVisibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	categoryID := r.PathValue("categoryID")

	var req struct {
		IsVisible *bool `json:"is_visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsVisible == nil {
		h.respondError(w, http.StatusBadRequest, "Visibility must be a boolean")
		return
	}

	category, err := h.service.SetCategoryVisibility(userID, categoryID, *req.IsVisible)
	if err != nil {
		h.respondCategoryError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   category,
	})
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	categoryID := r.PathValue("categoryID")

	reassigned, err := h.service.DeleteCategory(userID, categoryID)
	if err != nil {
		h.respondCategoryError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Category deleted successfully.",
		"data": map[string]interface{}{
			"reassigned_count": reassigned,
		},
	})
}
