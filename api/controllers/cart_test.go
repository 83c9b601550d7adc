package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	internalcart "github.com/petitmarche/backend/internal/cart"
	"github.com/petitmarche/backend/pkg/db/models"
	pkgerrors "github.com/petitmarche/backend/pkg/errors"
)

type testCartService struct {
	fetchFn  func(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	addFn    func(ctx context.Context, input internalcart.AddItemInput) (*models.Cart, error)
	updateFn func(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, error)
	removeFn func(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error)
}

func (s *testCartService) Fetch(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if s.fetchFn != nil {
		return s.fetchFn(ctx, userID)
	}
	return &models.Cart{ID: uuid.New(), UserID: userID, IsActive: true}, nil
}

func (s *testCartService) AddItem(ctx context.Context, input internalcart.AddItemInput) (*models.Cart, error) {
	if s.addFn != nil {
		return s.addFn(ctx, input)
	}
	return nil, nil
}

func (s *testCartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, userID, itemID, quantity)
	}
	return nil, nil
}

func (s *testCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	if s.removeFn != nil {
		return s.removeFn(ctx, userID, itemID)
	}
	return nil, nil
}

func TestCartFetchComputesSubtotal(t *testing.T) {
	userID := uuid.New()
	svc := &testCartService{
		fetchFn: func(_ context.Context, uid uuid.UUID) (*models.Cart, error) {
			return &models.Cart{
				ID:     uuid.New(),
				UserID: uid,
				Items: []models.CartItem{
					{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("15.00")},
					{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("9.99")},
				},
			}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/cart", nil, userID)
	resp := httptest.NewRecorder()
	CartFetch(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data.Subtotal.Equal(decimal.RequireFromString("39.99")) {
		t.Fatalf("expected subtotal 39.99 got %s", envelope.Data.Subtotal)
	}
	if len(envelope.Data.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(envelope.Data.Items))
	}
}

func TestCartFetchRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	CartFetch(&testCartService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemSuccess(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	var gotInput internalcart.AddItemInput
	svc := &testCartService{
		addFn: func(_ context.Context, input internalcart.AddItemInput) (*models.Cart, error) {
			gotInput = input
			return &models.Cart{ID: uuid.New(), UserID: input.UserID}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","quantity":3}`
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body), userID)
	resp := httptest.NewRecorder()
	CartAddItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.ProductID != productID {
		t.Fatalf("unexpected product %s", gotInput.ProductID)
	}
	if gotInput.Quantity != 3 {
		t.Fatalf("unexpected quantity %d", gotInput.Quantity)
	}
	if gotInput.VariantID != nil {
		t.Fatalf("expected nil variant")
	}
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body), uuid.New())
	resp := httptest.NewRecorder()
	CartAddItem(&testCartService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemMapsProductGone(t *testing.T) {
	svc := &testCartService{
		addFn: func(_ context.Context, _ internalcart.AddItemInput) (*models.Cart, error) {
			return nil, pkgerrors.New(pkgerrors.CodeProductGone, `product "Retired Tea" is unavailable`)
		},
	}
	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body), uuid.New())
	resp := httptest.NewRecorder()
	CartAddItem(svc, testLogger())(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestCartUpdateItemParsesParams(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	var gotQuantity int
	svc := &testCartService{
		updateFn: func(_ context.Context, uid, iid uuid.UUID, quantity int) (*models.Cart, error) {
			if uid != userID || iid != itemID {
				t.Fatalf("unexpected args %s %s", uid, iid)
			}
			gotQuantity = quantity
			return &models.Cart{ID: uuid.New(), UserID: uid}, nil
		},
	}

	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/"+itemID.String(), strings.NewReader(`{"quantity":7}`), userID)
	req = addRouteParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()
	CartUpdateItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotQuantity != 7 {
		t.Fatalf("expected quantity 7 got %d", gotQuantity)
	}
}

func TestCartRemoveItemRejectsBadID(t *testing.T) {
	req := authedRequest(http.MethodDelete, "/api/v1/cart/items/oops", nil, uuid.New())
	req = addRouteParam(req, "itemId", "oops")
	resp := httptest.NewRecorder()
	CartRemoveItem(&testCartService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
