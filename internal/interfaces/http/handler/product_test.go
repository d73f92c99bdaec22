package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/mfg/backend/internal/application/catalog"
	"github.com/mfg/backend/internal/domain/catalog"
	"github.com/mfg/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByNameFold(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ListByPosition(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveBatch(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountLive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ShiftPositions(ctx context.Context, shift catalog.PositionShift, excluded *uuid.UUID) error {
	args := m.Called(ctx, shift, excluded)
	return args.Error(0)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func setupProductHandler(repo *MockProductRepository) *ProductHandler {
	service := catalogapp.NewProductService(
		repo,
		catalogapp.NewNoOpTransactionScope(repo),
		nil,
		nil,
		catalogapp.DefaultProductServiceConfig(),
		nil,
	)
	return NewProductHandler(service)
}

func createTestProduct(t *testing.T, code, name string, position int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, name, "pcs")
	assert.NoError(t, err)
	product.SetPosition(position)
	product.ClearDomainEvents()
	return product
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProductHandler_Create_Success(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	repo.On("ExistsByCode", mock.Anything, "WID-001").Return(false, nil)
	repo.On("CountLive", mock.Anything).Return(int64(0), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.POST("/products", handler.Create)

	body, _ := json.Marshal(map[string]any{
		"code": "WID-001",
		"name": "Widget",
		"unit": "pcs",
	})

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
	repo.AssertExpectations(t)
}

func TestProductHandler_Create_DuplicateCode(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	repo.On("ExistsByCode", mock.Anything, "WID-001").Return(true, nil)

	router := setupTestRouter()
	router.POST("/products", handler.Create)

	body, _ := json.Marshal(map[string]any{
		"code": "WID-001",
		"name": "Widget",
		"unit": "pcs",
	})

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
}

func TestProductHandler_Create_InvalidJSON(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	router := setupTestRouter()
	router.POST("/products", handler.Create)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_GetByID_Success(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	product := createTestProduct(t, "WID-001", "Widget", 1)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := setupTestRouter()
	router.GET("/products/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/products/"+product.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	missingID := uuid.New()
	repo.On("FindByID", mock.Anything, missingID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/products/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/products/"+missingID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_GetByID_InvalidID(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	router := setupTestRouter()
	router.GET("/products/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_GetByName_MissingParam(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	router := setupTestRouter()
	router.GET("/products/by-name", handler.GetByName)

	req := httptest.NewRequest(http.MethodGet, "/products/by-name", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_List_Success(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	products := []catalog.Product{
		*createTestProduct(t, "WID-001", "Widget", 1),
		*createTestProduct(t, "WID-002", "Gadget", 2),
	}
	repo.On("FindAll", mock.Anything, mock.Anything).Return(products, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)

	router := setupTestRouter()
	router.GET("/products", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/products?page=1&page_size=20", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	meta, ok := envelope["meta"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, float64(2), meta["total"])
}

func TestProductHandler_Delete_Success(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	product := createTestProduct(t, "WID-001", "Widget", 2)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Delete", mock.Anything, product.ID).Return(nil)
	repo.On("ShiftPositions", mock.Anything, catalog.PositionShift{Lo: 3, Hi: 0, Delta: -1}, (*uuid.UUID)(nil)).Return(nil)

	router := setupTestRouter()
	router.DELETE("/products/:id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+product.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}

func TestProductHandler_NormalizePositions_Success(t *testing.T) {
	repo := new(MockProductRepository)
	handler := setupProductHandler(repo)

	first := createTestProduct(t, "WID-001", "Widget", 1)
	second := createTestProduct(t, "WID-002", "Gadget", 5)
	repo.On("ListByPosition", mock.Anything).Return([]catalog.Product{*first, *second}, nil)
	repo.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

	router := setupTestRouter()
	router.POST("/products/normalize-positions", handler.NormalizePositions)

	req := httptest.NewRequest(http.MethodPost, "/products/normalize-positions", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}
