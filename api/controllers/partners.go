package controllers

import (
	"net/http"

	"github.com/tiffinbox/backend/api/responses"
	"github.com/tiffinbox/backend/api/validators"
	partnersvc "github.com/tiffinbox/backend/internal/partners"
	"github.com/tiffinbox/backend/pkg/enums"
	"github.com/tiffinbox/backend/pkg/logger"
)

type createPartnerRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Vehicle string `json:"vehicle,omitempty"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type updatePartnerRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Vehicle *string `json:"vehicle,omitempty"`
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// CreatePartner registers a courier.
func CreatePartner(svc partnersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPartnerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partner, err := svc.Create(r.Context(), partnersvc.CreatePartnerInput{
			Name:    payload.Name,
			Phone:   payload.Phone,
			Vehicle: payload.Vehicle,
			Status:  enums.PartnerStatus(payload.Status),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, partner)
	}
}

// ListPartners returns the courier directory, newest first.
func ListPartners(svc partnersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partners, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, partners)
	}
}

// UpdatePartner applies a partial update.
func UpdatePartner(svc partnersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "partnerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePartnerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := partnersvc.UpdatePartnerInput{
			Name:    payload.Name,
			Phone:   payload.Phone,
			Vehicle: payload.Vehicle,
		}
		if payload.Status != nil {
			status := enums.PartnerStatus(*payload.Status)
			input.Status = &status
		}

		partner, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, partner)
	}
}

// DeletePartner removes a courier from the directory.
func DeletePartner(svc partnersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "partnerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Deleted")
	}
}
