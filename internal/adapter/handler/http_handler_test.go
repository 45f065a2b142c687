package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rl1809/parts-inventory/internal/core/domain"
	"github.com/rl1809/parts-inventory/internal/core/service"
	"github.com/rl1809/parts-inventory/internal/core/validation"
)

func newTestInventory(t *testing.T) *service.InventoryService {
	t.Helper()
	svc := service.NewInventoryService(domain.NewInventory(), nil, zaptest.NewLogger(t).Sugar(), 0, 0)
	require.NoError(t, svc.Load(context.Background(), domain.DefaultSnapshot()))
	t.Cleanup(svc.Close)
	return svc
}

func newTestRouter(t *testing.T) (http.Handler, *service.InventoryService) {
	t.Helper()
	svc := newTestInventory(t)
	return NewHTTPHandler(svc, zaptest.NewLogger(t).Sugar()).Router(), svc
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory_entities")
}

func TestSearchPartsHTTP(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/parts?q=char", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var parts []domain.PartRecord
	decodeBody(t, rec, &parts)
	require.Len(t, parts, 1)
	assert.Equal(t, "Charger", parts[0].Name)

	rec = do(t, h, http.MethodGet, "/api/products?q=zzz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAddPartHTTP(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/parts", PartHTTPRequest{
		RequestID:   "req-1",
		Kind:        domain.PartKindOutsourced,
		Name:        "Fan",
		Price:       validation.Float(2.5),
		Stock:       validation.Int(3),
		Min:         validation.Int(1),
		Max:         validation.Int(5),
		CompanyName: "Acme",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var part domain.PartRecord
	decodeBody(t, rec, &part)
	assert.Equal(t, 3, part.ID)
	assert.Equal(t, "Acme", part.CompanyName)

	rec = do(t, h, http.MethodGet, "/api/parts/3", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddPartHTTP_ValidationProblems(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/parts", PartHTTPRequest{Kind: domain.PartKindInHouse})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp InventoryHTTPResponse
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, validation.SummaryIncomplete, resp.Message)
	assert.NotEmpty(t, resp.Problems)

	rec = do(t, h, http.MethodPost, "/api/parts", PartHTTPRequest{
		Kind:      domain.PartKindInHouse,
		Name:      "Bolt",
		Price:     validation.Float(1),
		Stock:     validation.Int(50),
		Min:       validation.Int(1),
		Max:       validation.Int(10),
		MachineID: validation.Int(1),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Equal(t, validation.SummaryUnresolved, resp.Message)
}

func TestAddPartHTTP_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/parts", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/products", ProductHTTPRequest{
		Name:    "Kit",
		Price:   validation.Float(1),
		Stock:   validation.Int(1),
		Min:     validation.Int(1),
		Max:     validation.Int(1),
		PartIDs: []int{0},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModifyPartHTTP(t *testing.T) {
	h, svc := newTestRouter(t)

	rec := do(t, h, http.MethodPut, "/api/parts/2", PartHTTPRequest{
		Kind:        domain.PartKindOutsourced,
		Name:        "Cable",
		Price:       validation.Float(4.99),
		Stock:       validation.Int(10),
		Min:         validation.Int(0),
		Max:         validation.Int(999),
		CompanyName: "Wires Inc",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	part, err := svc.Part(2)
	require.NoError(t, err)
	assert.Equal(t, domain.PartKindOutsourced, part.Kind)

	rec = do(t, h, http.MethodPut, "/api/parts/77", PartHTTPRequest{
		Kind:      domain.PartKindInHouse,
		Name:      "Ghost",
		Price:     validation.Float(1),
		Stock:     validation.Int(1),
		Min:       validation.Int(1),
		Max:       validation.Int(1),
		MachineID: validation.Int(1),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductAssociationsHTTP(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/products/1/parts/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/products/1/parts/1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products/1/parts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var assoc []domain.PartRecord
	decodeBody(t, rec, &assoc)
	require.Len(t, assoc, 1)

	rec = do(t, h, http.MethodGet, "/api/products/1/available-parts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var available []domain.PartRecord
	decodeBody(t, rec, &available)
	require.Len(t, available, 1)
	assert.Equal(t, "Cable", available[0].Name)

	rec = do(t, h, http.MethodDelete, "/api/products/1", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	var resp InventoryHTTPResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, domain.ProductHasPartsMessage, resp.Message)

	rec = do(t, h, http.MethodDelete, "/api/products/1/parts/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/products/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddProductHTTP(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/products", ProductHTTPRequest{
		Name:    "Laptop",
		Price:   validation.Float(999),
		Stock:   validation.Int(2),
		Min:     validation.Int(1),
		Max:     validation.Int(5),
		PartIDs: []int{1, 2},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product domain.ProductRecord
	decodeBody(t, rec, &product)
	assert.Equal(t, 3, product.ID)
	assert.Equal(t, []int{1, 2}, product.PartIDs)

	rec = do(t, h, http.MethodPut, "/api/products/3", ProductHTTPRequest{
		Name:  "Laptop",
		Price: validation.Float(999),
		Stock: validation.Int(6),
		Min:   validation.Int(1),
		Max:   validation.Int(5),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePartHTTP(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodDelete, "/api/parts/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/parts/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/parts/abc", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{&domain.ValidationError{Summary: validation.SummaryIncomplete}, http.StatusBadRequest},
		{domain.ErrPrecondition, http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrProductHasParts, http.StatusConflict},
		{domain.ErrDuplicateAssociation, http.StatusConflict},
		{domain.ErrDuplicateRequest, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, resp := errorResponse(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
		assert.False(t, resp.Success)
	}
}
