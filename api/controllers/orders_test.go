package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tiffinbox/backend/api/middleware"
	ordersvc "github.com/tiffinbox/backend/internal/orders"
	"github.com/tiffinbox/backend/pkg/db/models"
	"github.com/tiffinbox/backend/pkg/enums"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/pagination"
)

type stubOrderService struct {
	order       *models.Order
	orders      []models.Order
	err         error
	gotCheckout *ordersvc.CheckoutInput
	gotStatus   enums.OrderStatus
	gotPartner  uuid.UUID
	gotPayment  enums.PaymentStatus
}

func (s *stubOrderService) Checkout(ctx context.Context, userID uuid.UUID, input ordersvc.CheckoutInput) (*models.Order, error) {
	s.gotCheckout = &input
	return s.order, s.err
}

func (s *stubOrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) TrackByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderService) ListAll(ctx context.Context, params pagination.Params) ([]models.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	s.gotStatus = status
	return s.order, s.err
}

func (s *stubOrderService) Confirm(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) AssignPartner(ctx context.Context, orderID, partnerID uuid.UUID) (*models.Order, error) {
	s.gotPartner = partnerID
	return s.order, s.err
}

func (s *stubOrderService) SetPaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) (*models.Order, error) {
	s.gotPayment = status
	return s.order, s.err
}

func withOrderID(req *http.Request, orderID uuid.UUID) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderId", orderID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCheckoutReturnsCreatedOrder(t *testing.T) {
	userID := uuid.New()
	stub := &stubOrderService{order: &models.Order{ID: uuid.New(), OrderNumber: "ORD-1756700000000-0042"}}
	handler := Checkout(stub, nil)

	payload := `{"customer":{"name":"Asha","phone":"+919876543210","address":"12 MG Road"},"paymentMethod":"COD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.gotCheckout == nil || stub.gotCheckout.Customer.Name != "Asha" {
		t.Fatalf("unexpected checkout input %+v", stub.gotCheckout)
	}

	var body models.Order
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.OrderNumber != "ORD-1756700000000-0042" {
		t.Fatalf("unexpected order number %q", body.OrderNumber)
	}
}

func TestCheckoutRejectsMissingCustomerName(t *testing.T) {
	stub := &stubOrderService{}
	handler := Checkout(stub, nil)

	payload := `{"customer":{"phone":"+919876543210"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if stub.gotCheckout != nil {
		t.Fatal("service must not be called on invalid payload")
	}
}

func TestCheckoutEmptyCartMapsTo400(t *testing.T) {
	stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeInvalidState, "Cart is empty")}
	handler := Checkout(stub, nil)

	payload := `{"customer":{"name":"Asha","phone":"+919876543210"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(payload))
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

func TestAdminUpdateOrderStatusParsesStatus(t *testing.T) {
	orderID := uuid.New()
	stub := &stubOrderService{order: &models.Order{ID: orderID, Status: enums.OrderStatusConfirmed}}
	handler := AdminUpdateOrderStatus(stub, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/admin/"+orderID.String()+"/status", strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withOrderID(req, orderID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.gotStatus != enums.OrderStatusConfirmed {
		t.Fatalf("unexpected status %q", stub.gotStatus)
	}
}

func TestAdminUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	stub := &stubOrderService{}
	handler := AdminUpdateOrderStatus(stub, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/admin/x/status", strings.NewReader(`{"status":"teleported"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withOrderID(req, uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminUpdateOrderStatusRejectsBadID(t *testing.T) {
	stub := &stubOrderService{}
	handler := AdminUpdateOrderStatus(stub, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/admin/not-a-uuid/status", strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")

	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderId", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminAssignPartnerForwardsID(t *testing.T) {
	orderID := uuid.New()
	partnerID := uuid.New()
	stub := &stubOrderService{order: &models.Order{ID: orderID}}
	handler := AdminAssignPartner(stub, nil)

	payload := `{"partnerId":"` + partnerID.String() + `"}`
	req := httptest.NewRequest(http.MethodPut, "/api/orders/admin/"+orderID.String()+"/assign", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = withOrderID(req, orderID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.gotPartner != partnerID {
		t.Fatalf("unexpected partner id %s", stub.gotPartner)
	}
}

func TestAdminAssignPartnerUnknownPartner404(t *testing.T) {
	stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Delivery partner not found")}
	handler := AdminAssignPartner(stub, nil)

	payload := `{"partnerId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPut, "/api/orders/admin/x/assign", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = withOrderID(req, uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminSetPaymentStatusRejectsUnknownValue(t *testing.T) {
	stub := &stubOrderService{}
	handler := AdminSetPaymentStatus(stub, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/admin/x/payment-status", strings.NewReader(`{"paymentStatus":"refunded"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withOrderID(req, uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if stub.gotPayment != "" {
		t.Fatal("service must not be called on invalid payment status")
	}
}

func TestTrackOrderReturnsDocument(t *testing.T) {
	stub := &stubOrderService{order: &models.Order{ID: uuid.New(), OrderNumber: "ORD-1756700000000-0042"}}
	handler := TrackOrder(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/track/ORD-1756700000000-0042", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderNumber", "ORD-1756700000000-0042")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body models.Order
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.OrderNumber != stub.order.OrderNumber {
		t.Fatalf("unexpected order number %q", body.OrderNumber)
	}
}
