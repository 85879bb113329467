package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/smontes/catalog-api/models"
	"github.com/smontes/catalog-api/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// withURLParam injects a chi route parameter the way the router would
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestProductHandleList(t *testing.T) {
	logger := zap.NewNop()

	t.Run("lists all products", func(t *testing.T) {
		products := new(MockProductRepository)
		handler := NewProductHandler(products, logger)

		catalog := []*models.Product{
			models.NewProduct("Widget", "A widget", 1999, 5, uuid.New()),
		}
		products.On("List", mock.Anything, (*uuid.UUID)(nil)).Return(catalog, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		w := httptest.NewRecorder()
		handler.HandleList(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		products.AssertExpectations(t)
	})

	t.Run("filters by category", func(t *testing.T) {
		products := new(MockProductRepository)
		handler := NewProductHandler(products, logger)

		categoryID := uuid.New()
		products.On("List", mock.Anything, &categoryID).Return([]*models.Product{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category_id="+categoryID.String(), nil)
		w := httptest.NewRecorder()
		handler.HandleList(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		products.AssertExpectations(t)
	})

	t.Run("invalid category filter is a 400", func(t *testing.T) {
		products := new(MockProductRepository)
		handler := NewProductHandler(products, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category_id=nope", nil)
		w := httptest.NewRecorder()
		handler.HandleList(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		products.AssertNotCalled(t, "List")
	})
}

func TestProductHandleGet(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns the product", func(t *testing.T) {
		products := new(MockProductRepository)
		handler := NewProductHandler(products, logger)

		product := models.NewProduct("Widget", "A widget", 1999, 5, uuid.New())
		products.On("GetByID", mock.Anything, product.ID).Return(product, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.ID.String(), nil)
		req = withURLParam(req, "id", product.ID.String())
		w := httptest.NewRecorder()
		handler.HandleGet(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data models.Product `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, product.ID, response.Data.ID)
		assert.Equal(t, "Widget", response.Data.Name)
	})

	t.Run("missing product is a 404", func(t *testing.T) {
		products := new(MockProductRepository)
		handler := NewProductHandler(products, logger)

		id := uuid.New()
		products.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil)
		req = withURLParam(req, "id", id.String())
		w := httptest.NewRecorder()
		handler.HandleGet(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		handler := NewProductHandler(new(MockProductRepository), logger)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
		req = withURLParam(req, "id", "not-a-uuid")
		w := httptest.NewRecorder()
		handler.HandleGet(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandleCreate(t *testing.T) {
	logger := zap.NewNop()

	t.Run("creates a valid product", func(t *testing.T) {
		products := new(MockProductRepository)
		handler := NewProductHandler(products, logger)

		products.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Name == "Widget" && p.PriceCents == 1999
		})).Return(nil)

		w := postJSON(t, handler.HandleCreate, "/api/v1/products", CreateProductRequest{
			Name:       "Widget",
			PriceCents: 1999,
			Stock:      10,
			CategoryID: uuid.New(),
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		products.AssertExpectations(t)
	})

	t.Run("missing name is a 400", func(t *testing.T) {
		products := new(MockProductRepository)
		handler := NewProductHandler(products, logger)

		w := postJSON(t, handler.HandleCreate, "/api/v1/products", CreateProductRequest{
			PriceCents: 1999,
			CategoryID: uuid.New(),
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		products.AssertNotCalled(t, "Create")
	})
}

func TestProductHandleDelete(t *testing.T) {
	logger := zap.NewNop()

	t.Run("deletes and returns 204", func(t *testing.T) {
		products := new(MockProductRepository)
		handler := NewProductHandler(products, logger)

		id := uuid.New()
		products.On("Delete", mock.Anything, id).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+id.String(), nil)
		req = withURLParam(req, "id", id.String())
		w := httptest.NewRecorder()
		handler.HandleDelete(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("missing product is a 404", func(t *testing.T) {
		products := new(MockProductRepository)
		handler := NewProductHandler(products, logger)

		id := uuid.New()
		products.On("Delete", mock.Anything, id).Return(repositories.ErrNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+id.String(), nil)
		req = withURLParam(req, "id", id.String())
		w := httptest.NewRecorder()
		handler.HandleDelete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
