package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tiffinbox/backend/api/middleware"
	"github.com/tiffinbox/backend/api/responses"
	"github.com/tiffinbox/backend/api/validators"
	cartsvc "github.com/tiffinbox/backend/internal/cart"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/logger"
)

type addonSelectionRequest struct {
	Dip      *string `json:"dip,omitempty"`
	Beverage *string `json:"beverage,omitempty"`
	Drink    *string `json:"drink,omitempty"`
}

func (req *addonSelectionRequest) toInput() cartsvc.AddonSelectionInput {
	if req == nil {
		return cartsvc.AddonSelectionInput{}
	}
	return cartsvc.AddonSelectionInput{
		Dip:      req.Dip,
		Beverage: req.Beverage,
		Drink:    req.Drink,
	}
}

type addCartItemRequest struct {
	FoodID         string                 `json:"foodId" validate:"required,uuid"`
	Qty            int                    `json:"qty" validate:"omitempty,min=1"`
	SelectedAddons *addonSelectionRequest `json:"selectedAddons,omitempty"`
}

type cartLineRequest struct {
	FoodID string `json:"foodId" validate:"required,uuid"`
	Qty    int    `json:"qty,omitempty"`
}

type updateAddonsRequest struct {
	FoodID         string                 `json:"foodId" validate:"required,uuid"`
	SelectedAddons *addonSelectionRequest `json:"selectedAddons,omitempty"`
}

// GetCart returns the account's cart, creating it on first access.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, err := svc.Get(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// AddCartItem adds or merges a line.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		foodID, err := parseBodyID(payload.FoodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddItem(r.Context(), middleware.UserIDFromContext(r.Context()), cartsvc.AddItemInput{
			FoodID:   foodID,
			Quantity: payload.Qty,
			Addons:   payload.SelectedAddons.toInput(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// UpdateCartQty sets a line's quantity.
func UpdateCartQty(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		foodID, err := parseBodyID(payload.FoodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.SetQuantity(r.Context(), middleware.UserIDFromContext(r.Context()), foodID, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// RemoveCartItem drops a line; removing an absent line is a no-op.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		foodID, err := parseBodyID(payload.FoodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), middleware.UserIDFromContext(r.Context()), foodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// UpdateCartAddons replaces a line's addon selection.
func UpdateCartAddons(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateAddonsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		foodID, err := parseBodyID(payload.FoodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateAddons(r.Context(), middleware.UserIDFromContext(r.Context()), foodID, payload.SelectedAddons.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

func parseBodyID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid foodId")
	}
	return id, nil
}
