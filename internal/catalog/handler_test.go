package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ticketdesk/internal/inventory"
)

// fakeService records the last update and returns canned results.
type fakeService struct {
	Service

	item       *Item
	updateErr  error
	lastUpdate UpdateItemInput
}

func (f *fakeService) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	if f.item == nil {
		return nil, ErrItemNotFound
	}
	return f.item, nil
}

func (f *fakeService) UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput) (*Item, error) {
	f.lastUpdate = in
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.item, nil
}

func patchItem(t *testing.T, h *Handler, id uuid.UUID, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/items/"+id.String(), bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestUpdateItem_ZeroAdjustmentRejected(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, zap.NewNop())

	rec := patchItem(t, h, uuid.New(), map[string]interface{}{
		"title":            "GA Ticket",
		"price":            25.0,
		"stock_adjustment": 0,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, svc.lastUpdate.Title, "service must not be called for a zero adjustment")
}

func TestUpdateItem_AdjustmentPassedThrough(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{item: &Item{ID: id, Title: "GA Ticket", QuantityAvailable: 15}}
	h := NewHandler(svc, zap.NewNop())

	rec := patchItem(t, h, id, map[string]interface{}{
		"title":            "GA Ticket",
		"price":            25.0,
		"stock_adjustment": -5,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -5, svc.lastUpdate.StockAdjustment)
}

func TestUpdateItem_NoAdjustmentField(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{item: &Item{ID: id, Title: "GA Ticket"}}
	h := NewHandler(svc, zap.NewNop())

	rec := patchItem(t, h, id, map[string]interface{}{
		"title": "GA Ticket",
		"price": 25.0,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, svc.lastUpdate.StockAdjustment)
}

func TestUpdateItem_InsufficientStockConflict(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{
		item: &Item{ID: id},
		updateErr: &inventory.InsufficientStockError{
			ItemID:    id,
			Delta:     -10,
			Available: 3,
		},
	}
	h := NewHandler(svc, zap.NewNop())

	rec := patchItem(t, h, id, map[string]interface{}{
		"title":            "GA Ticket",
		"price":            25.0,
		"stock_adjustment": -10,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient stock")
}

func TestUpdateItem_NotFound(t *testing.T) {
	svc := &fakeService{updateErr: ErrItemNotFound}
	h := NewHandler(svc, zap.NewNop())

	rec := patchItem(t, h, uuid.New(), map[string]interface{}{
		"title": "GA Ticket",
		"price": 25.0,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateItem_InfrastructureFailure(t *testing.T) {
	svc := &fakeService{updateErr: assert.AnError}
	h := NewHandler(svc, zap.NewNop())

	rec := patchItem(t, h, uuid.New(), map[string]interface{}{
		"title": "GA Ticket",
		"price": 25.0,
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetItem_InvalidID(t *testing.T) {
	h := NewHandler(&fakeService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/items/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
