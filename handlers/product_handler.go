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

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Description string    `json:"description" validate:"max=4096"`
	PriceCents  int64     `json:"price_cents" validate:"gte=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=4096"`
	PriceCents  *int64     `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	Stock       *int       `json:"stock,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	products repositories.ProductRepository
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products repositories.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// HandleList handles GET /api/v1/products
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid category_id format", nil)
			return
		}
		categoryID = &parsed
	}

	products, err := h.products.List(r.Context(), categoryID)
	if err != nil {
		h.logger.Error("product listing failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	if products == nil {
		products = []*models.Product{}
	}
	_ = utils.WriteOK(w, products)
}

// HandleGet handles GET /api/v1/products/{id}
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid product id", nil)
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Product not found")
			return
		}
		h.logger.Error("product lookup failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, product)
}

// HandleCreate handles POST /api/v1/products
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
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

	product := models.NewProduct(req.Name, req.Description, req.PriceCents, req.Stock, req.CategoryID)
	if err := h.products.Create(r.Context(), product); err != nil {
		h.logger.Error("product creation failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteCreated(w, product)
}

// HandleUpdate handles PUT /api/v1/products/{id}
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid product id", nil)
		return
	}

	var req UpdateProductRequest
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

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Product not found")
			return
		}
		h.logger.Error("product lookup failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	product.UpdatedAt = time.Now()

	if err := h.products.Update(r.Context(), product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Product not found")
			return
		}
		h.logger.Error("product update failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, product)
}

// HandleDelete handles DELETE /api/v1/products/{id}
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid product id", nil)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Product not found")
			return
		}
		h.logger.Error("product deletion failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	utils.WriteNoContent(w)
}
