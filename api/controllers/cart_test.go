package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tiffinbox/backend/api/middleware"
	cartsvc "github.com/tiffinbox/backend/internal/cart"
	"github.com/tiffinbox/backend/pkg/db/models"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
)

type stubCartService struct {
	cart    *models.Cart
	err     error
	gotAdd  *cartsvc.AddItemInput
	gotUser uuid.UUID
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	s.gotUser = userID
	return s.cart, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*models.Cart, error) {
	s.gotUser = userID
	s.gotAdd = &input
	return s.cart, s.err
}

func (s *stubCartService) SetQuantity(ctx context.Context, userID, foodID uuid.UUID, qty int) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, foodID uuid.UUID) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) UpdateAddons(ctx context.Context, userID, foodID uuid.UUID, input cartsvc.AddonSelectionInput) (*models.Cart, error) {
	return s.cart, s.err
}

func TestGetCartReturnsDocument(t *testing.T) {
	userID := uuid.New()
	stub := &stubCartService{cart: &models.Cart{ID: uuid.New(), UserID: userID}}
	handler := GetCart(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.gotUser != userID {
		t.Fatalf("expected user id %s got %s", userID, stub.gotUser)
	}

	var body models.Cart
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != stub.cart.ID {
		t.Fatalf("unexpected cart id %s", body.ID)
	}
}

func TestAddCartItemForwardsPayload(t *testing.T) {
	userID := uuid.New()
	foodID := uuid.New()
	stub := &stubCartService{cart: &models.Cart{ID: uuid.New(), UserID: userID}}
	handler := AddCartItem(stub, nil)

	payload := `{"foodId":"` + foodID.String() + `","qty":2,"selectedAddons":{"dip":"Mint Chutney"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.gotAdd == nil {
		t.Fatal("expected AddItem call")
	}
	if stub.gotAdd.FoodID != foodID || stub.gotAdd.Quantity != 2 {
		t.Fatalf("unexpected input %+v", stub.gotAdd)
	}
	if stub.gotAdd.Addons.Dip == nil || *stub.gotAdd.Addons.Dip != "Mint Chutney" {
		t.Fatalf("expected dip selection, got %+v", stub.gotAdd.Addons)
	}
}

func TestAddCartItemRejectsMissingFoodID(t *testing.T) {
	stub := &stubCartService{}
	handler := AddCartItem(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(`{"qty":2}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if stub.gotAdd != nil {
		t.Fatal("service must not be called on invalid payload")
	}
}

func TestAddCartItemMapsInvalidStateTo400(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeInvalidState, "Cart is empty")}
	handler := AddCartItem(stub, nil)

	payload := `{"foodId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "Cart is empty" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}
