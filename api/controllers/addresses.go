package controllers

import (
	"net/http"

	"github.com/MuzPas1/fleety-mobile/api/middleware"
	"github.com/MuzPas1/fleety-mobile/api/responses"
	"github.com/MuzPas1/fleety-mobile/api/validators"
	addresssvc "github.com/MuzPas1/fleety-mobile/internal/address"
	"github.com/MuzPas1/fleety-mobile/pkg/db/models"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
)

type createAddressRequest struct {
	Label       string  `json:"label" validate:"omitempty,max=16"`
	FullAddress string  `json:"full_address" validate:"required,max=512"`
	Phone       string  `json:"phone" validate:"required,max=20"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	IsDefault   bool    `json:"is_default"`
}

type addressResponse struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	FullAddress string  `json:"full_address"`
	Phone       string  `json:"phone"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	IsDefault   bool    `json:"is_default"`
}

func newAddressResponse(addr *models.Address) addressResponse {
	return addressResponse{
		ID:          addr.ID.String(),
		Label:       addr.Label.String(),
		FullAddress: addr.FullAddress,
		Phone:       addr.Phone,
		Lat:         addr.Lat,
		Lon:         addr.Lon,
		IsDefault:   addr.IsDefault,
	}
}

func AddressesCreate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		var payload createAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addr, err := svc.Create(r.Context(), userID, addresssvc.CreateInput{
			Label:       payload.Label,
			FullAddress: payload.FullAddress,
			Phone:       payload.Phone,
			Lat:         payload.Lat,
			Lon:         payload.Lon,
			IsDefault:   payload.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newAddressResponse(addr))
	}
}

func AddressesList(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		list, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp := make([]addressResponse, 0, len(list))
		for i := range list {
			resp = append(resp, newAddressResponse(&list[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}

func AddressesSetDefault(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		addressID, err := validators.ParseUUIDParam(r, "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetDefault(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "default updated"})
	}
}

func AddressesDelete(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		addressID, err := validators.ParseUUIDParam(r, "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
