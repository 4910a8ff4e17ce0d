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

	cartsvc "github.com/mritika-studio/storefront-backend/internal/cart"
)

type testCartService struct {
	computeFn func(ctx context.Context, userID uuid.UUID) (*cartsvc.CartSummary, error)
	addFn     func(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) error
	updateFn  func(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	removeFn  func(ctx context.Context, userID, itemID uuid.UUID) error
	clearFn   func(ctx context.Context, userID uuid.UUID) error
	bulkAddFn func(ctx context.Context, entries []cartsvc.BulkEntry) []cartsvc.BulkResult
	bulkClrFn func(ctx context.Context, userIDs []uuid.UUID) []cartsvc.BulkResult
}

func (s *testCartService) ComputeCart(ctx context.Context, userID uuid.UUID) (*cartsvc.CartSummary, error) {
	if s.computeFn != nil {
		return s.computeFn(ctx, userID)
	}
	return &cartsvc.CartSummary{
		Items:    []cartsvc.CartItemView{},
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}, nil
}

func (s *testCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) error {
	if s.addFn != nil {
		return s.addFn(ctx, userID, input)
	}
	return nil
}

func (s *testCartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, userID, itemID, quantity)
	}
	return nil
}

func (s *testCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if s.removeFn != nil {
		return s.removeFn(ctx, userID, itemID)
	}
	return nil
}

func (s *testCartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if s.clearFn != nil {
		return s.clearFn(ctx, userID)
	}
	return nil
}

func (s *testCartService) BulkAdd(ctx context.Context, entries []cartsvc.BulkEntry) []cartsvc.BulkResult {
	if s.bulkAddFn != nil {
		return s.bulkAddFn(ctx, entries)
	}
	return nil
}

func (s *testCartService) BulkClear(ctx context.Context, userIDs []uuid.UUID) []cartsvc.BulkResult {
	if s.bulkClrFn != nil {
		return s.bulkClrFn(ctx, userIDs)
	}
	return nil
}

func TestCartGetRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	CartGet(&testCartService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemValidatesBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"product_id":"not-a-uuid","quantity":1}`))
	req = withUser(req, uuid.NewString())
	resp := httptest.NewRecorder()
	CartAddItem(&testCartService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemReturnsRecomputedCart(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	var added cartsvc.AddItemInput
	svc := &testCartService{
		addFn: func(ctx context.Context, uid uuid.UUID, input cartsvc.AddItemInput) error {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			added = input
			return nil
		},
		computeFn: func(ctx context.Context, uid uuid.UUID) (*cartsvc.CartSummary, error) {
			return &cartsvc.CartSummary{
				Items: []cartsvc.CartItemView{{
					ProductID: productID,
					Quantity:  2,
					UnitPrice: decimal.NewFromInt(600),
					LineTotal: decimal.NewFromInt(1200),
				}},
				Subtotal:   decimal.NewFromInt(1200),
				TotalItems: 2,
				Tax:        decimal.NewFromInt(216),
				Shipping:   decimal.NewFromInt(99),
				Total:      decimal.NewFromInt(1515),
			}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(body))
	req = withUser(req, userID.String())
	resp := httptest.NewRecorder()
	CartAddItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if added.ProductID != productID || added.Quantity != 2 {
		t.Fatalf("unexpected add input %+v", added)
	}

	var envelope struct {
		Data cartsvc.CartSummary `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.TotalItems != 2 {
		t.Fatalf("expected 2 items got %d", envelope.Data.TotalItems)
	}
	if !envelope.Data.Total.Equal(decimal.NewFromInt(1515)) {
		t.Fatalf("expected total 1515 got %s", envelope.Data.Total)
	}
}

func TestCartUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	gotQuantity := -1
	svc := &testCartService{
		updateFn: func(ctx context.Context, uid, iid uuid.UUID, quantity int) error {
			if uid != userID || iid != itemID {
				t.Fatalf("unexpected target user=%s item=%s", uid, iid)
			}
			gotQuantity = quantity
			return nil
		},
	}

	body := `{"item_id":"` + itemID.String() + `","quantity":0}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart", strings.NewReader(body))
	req = withUser(req, userID.String())
	resp := httptest.NewRecorder()
	CartUpdateItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotQuantity != 0 {
		t.Fatalf("expected quantity 0 to reach the service, got %d", gotQuantity)
	}
}

func TestCartUpdateItemRejectsNegativeQuantity(t *testing.T) {
	body := `{"item_id":"` + uuid.NewString() + `","quantity":-1}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart", strings.NewReader(body))
	req = withUser(req, uuid.NewString())
	resp := httptest.NewRecorder()
	CartUpdateItem(&testCartService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveRequiresTarget(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req = withUser(req, uuid.NewString())
	resp := httptest.NewRecorder()
	CartRemove(&testCartService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveClearAll(t *testing.T) {
	userID := uuid.New()
	cleared := false
	svc := &testCartService{
		clearFn: func(ctx context.Context, uid uuid.UUID) error {
			cleared = uid == userID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart?clear_all=true", nil)
	req = withUser(req, userID.String())
	resp := httptest.NewRecorder()
	CartRemove(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !cleared {
		t.Fatal("expected clear to run for the authenticated user")
	}
}

func TestCartRemoveSingleItem(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	var removed uuid.UUID
	svc := &testCartService{
		removeFn: func(ctx context.Context, uid, iid uuid.UUID) error {
			removed = iid
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart?item_id="+itemID.String(), nil)
	req = withUser(req, userID.String())
	resp := httptest.NewRecorder()
	CartRemove(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if removed != itemID {
		t.Fatalf("expected item %s removed got %s", itemID, removed)
	}
}

func TestAdminCartBulkAddBuildsEntries(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	var entries []cartsvc.BulkEntry
	svc := &testCartService{
		bulkAddFn: func(ctx context.Context, in []cartsvc.BulkEntry) []cartsvc.BulkResult {
			entries = in
			return []cartsvc.BulkResult{{UserID: userID, Success: true}}
		},
	}

	body := `{"items":[{"product_id":"` + productID.String() + `","quantity":3}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/carts/"+userID.String()+"/items", strings.NewReader(body))
	req = addRouteParam(req, "userID", userID.String())
	resp := httptest.NewRecorder()
	AdminCartBulkAdd(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry got %d", len(entries))
	}
	if entries[0].UserID != userID || entries[0].ProductID != productID || entries[0].Quantity != 3 {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}
