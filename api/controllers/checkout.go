package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Mo7Ati/dawlystore-storefront/api/middleware"
	"github.com/Mo7Ati/dawlystore-storefront/api/responses"
	"github.com/Mo7Ati/dawlystore-storefront/api/validators"
	"github.com/Mo7Ati/dawlystore-storefront/internal/checkout"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/enums"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
)

type validateCheckoutRequest struct {
	AddressID uuid.UUID `json:"address_id" validate:"required"`
	Notes     string    `json:"notes,omitempty" validate:"max=500"`
}

type resolveItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	StoreID   uuid.UUID `json:"store_id" validate:"required"`
}

type completeCheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

func requestFlow(r *http.Request, manager *checkout.Manager) (*checkout.Flow, error) {
	key := middleware.CartKeyFromContext(r.Context())
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart key not resolved")
	}
	return manager.Get(r.Context(), key)
}

// BeginCheckout enters the checkout flow for the current cart.
func BeginCheckout(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow, err := requestFlow(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// A flow parked at requires_login is re-triggered, not restarted:
		// the shopper has logged in and posted begin again.
		var view checkout.View
		if flow.Status() == enums.CheckoutStatusRequiresLogin {
			view, err = flow.Retrigger(r.Context())
		} else {
			view, err = flow.Begin(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CheckoutState returns the current flow snapshot.
func CheckoutState(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow, err := requestFlow(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, flow.CurrentView())
	}
}

// ValidateCheckout submits the cart for server-side validation.
func ValidateCheckout(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow, err := requestFlow(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req validateCheckoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := flow.Validate(r.Context(), req.AddressID, req.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ResolveCheckoutItem discards an errored line from the cart and the
// pending error list.
func ResolveCheckoutItem(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow, err := requestFlow(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req resolveItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := flow.ResolveItemError(r.Context(), req.ProductID, req.StoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CompleteCheckout initiates payment for the validated session. A
// prior failed attempt is retried transparently.
func CompleteCheckout(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow, err := requestFlow(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req completeCheckoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if flow.Status() == enums.CheckoutStatusError {
			if _, err := flow.Retry(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		view, err := flow.Complete(r.Context(), req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
