package controllers

import (
	"net/http"

	"github.com/Mo7Ati/dawlystore-storefront/api/responses"
	"github.com/Mo7Ati/dawlystore-storefront/api/validators"
	"github.com/Mo7Ati/dawlystore-storefront/internal/address"
	"github.com/Mo7Ati/dawlystore-storefront/internal/auth"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/types"
)

type createAddressRequest struct {
	Label      string  `json:"label,omitempty" validate:"max=50"`
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state,omitempty"`
	PostalCode string  `json:"postal_code,omitempty"`
	Country    string  `json:"country" validate:"required,len=2"`
	Phone      string  `json:"phone,omitempty"`
	IsDefault  bool    `json:"is_default,omitempty"`
}

// ListAddresses returns the customer's saved delivery addresses.
func ListAddresses(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		list, err := svc.List(r.Context(), auth.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CreateAddress saves a new delivery address.
func CreateAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		var req createAddressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), auth.IdentityFromContext(r.Context()), types.Address{
			Label:      req.Label,
			Line1:      req.Line1,
			Line2:      req.Line2,
			City:       req.City,
			State:      req.State,
			PostalCode: req.PostalCode,
			Country:    req.Country,
			Phone:      req.Phone,
			IsDefault:  req.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// DeleteAddress removes a saved delivery address.
func DeleteAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		addressID, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), auth.IdentityFromContext(r.Context()), addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
