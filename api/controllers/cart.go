package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mo7Ati/dawlystore-storefront/api/middleware"
	"github.com/Mo7Ati/dawlystore-storefront/api/responses"
	"github.com/Mo7Ati/dawlystore-storefront/api/validators"
	"github.com/Mo7Ati/dawlystore-storefront/internal/cart"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
)

type cartSelectionPayload struct {
	ID    uuid.UUID       `json:"id" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type addCartItemRequest struct {
	ProductID          uuid.UUID              `json:"product_id" validate:"required"`
	StoreID            uuid.UUID              `json:"store_id" validate:"required"`
	StoreName          string                 `json:"store_name" validate:"required"`
	Name               string                 `json:"name" validate:"required"`
	ImageURL           string                 `json:"image_url,omitempty"`
	UnitPrice          decimal.Decimal        `json:"unit_price" validate:"required"`
	ComparePrice       *decimal.Decimal       `json:"compare_price,omitempty"`
	DiscountPercentage *decimal.Decimal       `json:"discount_percentage,omitempty"`
	Quantity           int                    `json:"quantity" validate:"required,min=1"`
	SelectedOptions    []cartSelectionPayload `json:"selected_options,omitempty" validate:"omitempty,dive"`
	SelectedAdditions  []cartSelectionPayload `json:"selected_additions,omitempty" validate:"omitempty,dive"`
}

func (req addCartItemRequest) toPayload() cart.AddPayload {
	payload := cart.AddPayload{
		ProductID:          req.ProductID,
		StoreID:            req.StoreID,
		StoreName:          req.StoreName,
		Name:               req.Name,
		ImageURL:           req.ImageURL,
		UnitPrice:          req.UnitPrice,
		ComparePrice:       req.ComparePrice,
		DiscountPercentage: req.DiscountPercentage,
		Quantity:           req.Quantity,
	}
	for _, opt := range req.SelectedOptions {
		payload.SelectedOptions = append(payload.SelectedOptions, cart.ItemOption(opt))
	}
	for _, add := range req.SelectedAdditions {
		payload.SelectedAdditions = append(payload.SelectedAdditions, cart.ItemAddition(add))
	}
	return payload
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func requestCart(r *http.Request, manager *cart.Manager) (*cart.Store, error) {
	key := middleware.CartKeyFromContext(r.Context())
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart key not resolved")
	}
	return manager.Get(r.Context(), key)
}

// GetCart returns the derived cart view for the current session.
func GetCart(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := requestCart(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store.Summary())
	}
}

// AddCartItem merges a product snapshot into the cart.
func AddCartItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := requestCart(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := store.AddItem(r.Context(), req.toPayload()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, store.Summary())
	}
}

// UpdateCartItemQuantity restates a line's quantity; zero removes it.
func UpdateCartItemQuantity(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := requestCart(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(r.Context(), chi.URLParam(r, "itemId"), *req.Quantity)
		responses.WriteSuccess(w, store.Summary())
	}
}

// IncrementCartItem bumps a line by one.
func IncrementCartItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := requestCart(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.IncrementQuantity(r.Context(), chi.URLParam(r, "itemId"))
		responses.WriteSuccess(w, store.Summary())
	}
}

// DecrementCartItem lowers a line by one, removing it at quantity 1.
func DecrementCartItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := requestCart(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.DecrementQuantity(r.Context(), chi.URLParam(r, "itemId"))
		responses.WriteSuccess(w, store.Summary())
	}
}

// RemoveCartItem drops a line. Removing an absent line still succeeds.
func RemoveCartItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := requestCart(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.RemoveItem(r.Context(), chi.URLParam(r, "itemId"))
		responses.WriteSuccess(w, store.Summary())
	}
}

// RemoveCartStore drops every line from one vendor.
func RemoveCartStore(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := requestCart(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := validators.UUIDParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.RemoveStoreItems(r.Context(), storeID)
		responses.WriteSuccess(w, store.Summary())
	}
}

// ClearCart empties the cart.
func ClearCart(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := requestCart(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.Clear(r.Context())
		responses.WriteSuccess(w, store.Summary())
	}
}
