package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
)

func authenticatedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(context.WithValue(req.Context(), "userID", "user-1"))
}

func TestListCategories(t *testing.T) {
	mockService := &MockCategoryService{
		Categories: []domain.Category{
			{ID: "cat-1", Name: "Salary", Kind: domain.KindIncome},
			{ID: "cat-2", Name: "Food", Kind: domain.KindExpense},
		},
	}
	handler := NewCategoryHandler(mockService, respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.ListCategories(w, authenticatedRequest(http.MethodGet, "/api/protected/categories", ""))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Status string            `json:"status"`
		Data   []domain.Category `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "success", response.Status)
	assert.Len(t, response.Data, 2)
}

func TestListCategories_Unauthenticated(t *testing.T) {
	handler := NewCategoryHandler(&MockCategoryService{}, respondJSON, respondError)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected/categories", nil)
	handler.ListCategories(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestCreateCategory(t *testing.T) {
	mockService := &MockCategoryService{
		Category: &domain.Category{ID: "cat-1", Name: "Gym", Kind: domain.KindExpense},
	}
	handler := NewCategoryHandler(mockService, respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.CreateCategory(w, authenticatedRequest(http.MethodPost, "/api/protected/categories",
		`{"name":"Gym","kind":"expense","sort_order":9}`))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	mockService := &MockCategoryService{Err: financeErrors.ErrDuplicateCategoryName}
	handler := NewCategoryHandler(mockService, respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.CreateCategory(w, authenticatedRequest(http.MethodPost, "/api/protected/categories",
		`{"name":"Gym","kind":"expense"}`))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "A category with this name already exists", response["message"])
}

func TestCreateCategory_ValidationError(t *testing.T) {
	mockService := &MockCategoryService{Err: financeErrors.NewValidationError("Name must not be empty")}
	handler := NewCategoryHandler(mockService, respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.CreateCategory(w, authenticatedRequest(http.MethodPost, "/api/protected/categories",
		`{"name":"","kind":"expense"}`))

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestCreateCategory_InvalidBody(t *testing.T) {
	handler := NewCategoryHandler(&MockCategoryService{}, respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.CreateCategory(w, authenticatedRequest(http.MethodPost, "/api/protected/categories", "{not json"))

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestUpdateCategory_Forbidden(t *testing.T) {
	mockService := &MockCategoryService{Err: financeErrors.ErrForbidden}
	handler := NewCategoryHandler(mockService, respondJSON, respondError)

	w := httptest.NewRecorder()
	req := authenticatedRequest(http.MethodPut, "/api/protected/categories/cat-1", `{"name":"Fitness"}`)
	req.SetPathValue("categoryID", "cat-1")
	handler.UpdateCategory(w, req)

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestSetCategoryVisibility_RequiresBoolean(t *testing.T) {
	handler := NewCategoryHandler(&MockCategoryService{}, respondJSON, respondError)

	w := httptest.NewRecorder()
	req := authenticatedRequest(http.MethodPatch, "/api/protected/categories/cat-1/visibility", `{}`)
	req.SetPathValue("categoryID", "cat-1")
	handler.SetCategoryVisibility(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "Visibility must be a boolean", response["message"])
}

func TestSetCategoryVisibility_DefaultHidden(t *testing.T) {
	mockService := &MockCategoryService{Err: financeErrors.ErrDefaultCategoryHidden}
	handler := NewCategoryHandler(mockService, respondJSON, respondError)

	w := httptest.NewRecorder()
	req := authenticatedRequest(http.MethodPatch, "/api/protected/categories/cat-1/visibility", `{"is_visible":false}`)
	req.SetPathValue("categoryID", "cat-1")
	handler.SetCategoryVisibility(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "Default categories cannot be hidden", response["message"])
}

func TestDeleteCategory_ReturnsReassignedCount(t *testing.T) {
	mockService := &MockCategoryService{Reassigned: 3}
	handler := NewCategoryHandler(mockService, respondJSON, respondError)

	w := httptest.NewRecorder()
	req := authenticatedRequest(http.MethodDelete, "/api/protected/categories/cat-1", "")
	req.SetPathValue("categoryID", "cat-1")
	handler.DeleteCategory(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Status string `json:"status"`
		Data   struct {
			ReassignedCount int64 `json:"reassigned_count"`
		} `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "success", response.Status)
	assert.Equal(t, int64(3), response.Data.ReassignedCount)
}

func TestDeleteCategory_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", financeErrors.ErrCategoryNotFound, http.StatusNotFound},
		{"forbidden", financeErrors.ErrForbidden, http.StatusForbidden},
		{"default category", financeErrors.ErrDefaultCategoryDelete, http.StatusBadRequest},
		{"storage failure", financeErrors.NewStorageError("delete", assert.AnError), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCategoryHandler(&MockCategoryService{Err: tc.err}, respondJSON, respondError)

			w := httptest.NewRecorder()
			req := authenticatedRequest(http.MethodDelete, "/api/protected/categories/cat-1", "")
			req.SetPathValue("categoryID", "cat-1")
			handler.DeleteCategory(w, req)

			assert.Equal(t, tc.wantStatus, w.Result().StatusCode)
		})
	}
}
