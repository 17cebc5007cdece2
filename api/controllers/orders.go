package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tiffinbox/backend/api/middleware"
	"github.com/tiffinbox/backend/api/responses"
	"github.com/tiffinbox/backend/api/validators"
	ordersvc "github.com/tiffinbox/backend/internal/orders"
	"github.com/tiffinbox/backend/pkg/db/models"
	"github.com/tiffinbox/backend/pkg/enums"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/logger"
	"github.com/tiffinbox/backend/pkg/types"
)

type checkoutRequest struct {
	Customer struct {
		Name    string `json:"name" validate:"required"`
		Phone   string `json:"phone" validate:"required"`
		Address string `json:"address"`
	} `json:"customer" validate:"required"`
	PaymentMethod string `json:"paymentMethod,omitempty" validate:"omitempty,oneof=COD ONLINE"`
}

// Checkout converts the account's cart into an order.
func Checkout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), middleware.UserIDFromContext(r.Context()), ordersvc.CheckoutInput{
			Customer: types.Customer{
				Name:    payload.Customer.Name,
				Phone:   payload.Customer.Phone,
				Address: payload.Customer.Address,
			},
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListMyOrders returns the account's orders, newest first.
func ListMyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListForUser(r.Context(), middleware.UserIDFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// TrackOrder is the public lookup by order number.
func TrackOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.TrackByOrderNumber(r.Context(), chi.URLParam(r, "orderNumber"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminListOrders returns every order for the admin dashboard.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListAll(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateOrderStatus moves an order along the lifecycle.
func AdminUpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminConfirmOrder is the placed-to-confirmed shortcut.
func AdminConfirmOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(logg, svc.Confirm)
}

// AdminCancelOrder cancels any non-terminal order.
func AdminCancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(logg, svc.Cancel)
}

type assignPartnerRequest struct {
	PartnerID string `json:"partnerId" validate:"required,uuid"`
}

// AdminAssignPartner points the order at a delivery partner.
func AdminAssignPartner(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignPartnerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partnerID, err := uuid.Parse(payload.PartnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid partnerId"))
			return
		}

		order, err := svc.AssignPartner(r.Context(), id, partnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending paid failed"`
}

// AdminSetPaymentStatus records the payment outcome.
func AdminSetPaymentStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetPaymentStatus(r.Context(), id, enums.PaymentStatus(payload.PaymentStatus))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func orderAction(logg *logger.Logger, action func(ctx context.Context, id uuid.UUID) (*models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := action(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
