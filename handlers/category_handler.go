package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/smontes/catalog-api/models"
	"github.com/smontes/catalog-api/repositories"
	"github.com/smontes/catalog-api/utils"
	"go.uber.org/zap"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4096"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4096"`
}

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categories repositories.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories repositories.CategoryRepository, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// HandleList handles GET /api/v1/categories
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.logger.Error("category listing failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	if categories == nil {
		categories = []*models.Category{}
	}
	_ = utils.WriteOK(w, categories)
}

// HandleGet handles GET /api/v1/categories/{id}
func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid category id", nil)
		return
	}

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Category not found")
			return
		}
		h.logger.Error("category lookup failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, category)
}

// HandleCreate handles POST /api/v1/categories
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		var validationErr *utils.ValidationError
		if errors.As(err, &validationErr) {
			_ = utils.WriteBadRequest(w, "Validation failed", validationErr.Fields)
			return
		}
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	category := models.NewCategory(req.Name, req.Description)
	if err := h.categories.Create(r.Context(), category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			_ = utils.WriteConflict(w, "Category already exists")
			return
		}
		h.logger.Error("category creation failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteCreated(w, category)
}

// HandleUpdate handles PUT /api/v1/categories/{id}
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid category id", nil)
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		var validationErr *utils.ValidationError
		if errors.As(err, &validationErr) {
			_ = utils.WriteBadRequest(w, "Validation failed", validationErr.Fields)
			return
		}
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Category not found")
			return
		}
		h.logger.Error("category lookup failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	category.UpdatedAt = time.Now()

	if err := h.categories.Update(r.Context(), category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Category not found")
			return
		}
		h.logger.Error("category update failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, category)
}

// HandleDelete handles DELETE /api/v1/categories/{id}
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid category id", nil)
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Category not found")
			return
		}
		h.logger.Error("category deletion failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	utils.WriteNoContent(w)
}
