package backend

import (
	"time"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/enums"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is the platform's view of a logged-in shopper.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone,omitempty"`
}

// LoginRequest carries storefront login credentials to the platform.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the platform's response to a successful login.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Customer    Customer  `json:"customer"`
}

// StoreSummary is a browsable vendor store.
type StoreSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Rating      float64   `json:"rating"`
	IsOpen      bool      `json:"is_open"`
}

// ProductOption is a selectable product variant with a price delta.
type ProductOption struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ProductAddition is an optional add-on with a price delta.
type ProductAddition struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Product is the platform catalog entry shown on the storefront.
type Product struct {
	ID                 uuid.UUID         `json:"id"`
	StoreID            uuid.UUID         `json:"store_id"`
	StoreName          string            `json:"store_name"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	ImageURL           string            `json:"image_url,omitempty"`
	Price              decimal.Decimal   `json:"price"`
	ComparePrice       *decimal.Decimal  `json:"compare_price,omitempty"`
	DiscountPercentage *decimal.Decimal  `json:"discount_percentage,omitempty"`
	IsAvailable        bool              `json:"is_available"`
	Options            []ProductOption   `json:"options,omitempty"`
	Additions          []ProductAddition `json:"additions,omitempty"`
}

// OrderSummary is one entry in the customer's order history.
type OrderSummary struct {
	ID         uuid.UUID       `json:"id"`
	Status     string          `json:"status"`
	StoreNames []string        `json:"store_names"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	PlacedAt   time.Time       `json:"placed_at"`
}

// OrderLineItem is a line of a historical order.
type OrderLineItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	StoreID     uuid.UUID       `json:"store_id"`
	StoreName   string          `json:"store_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDetail is the full view of a historical order.
type OrderDetail struct {
	OrderSummary
	Items           []OrderLineItem `json:"items"`
	DeliveryAddress *types.Address  `json:"delivery_address,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Tax             decimal.Decimal `json:"tax"`
}

// CheckoutSelectionRef identifies a chosen option/addition by id only;
// the platform re-resolves names and prices itself.
type CheckoutSelectionRef struct {
	ID uuid.UUID `json:"id"`
}

// CheckoutItem is the stripped cart line projection submitted for
// validation. The platform is the source of truth; expected_unit_price
// is only a comparison baseline.
type CheckoutItem struct {
	ProductID         uuid.UUID              `json:"product_id"`
	StoreID           uuid.UUID              `json:"store_id"`
	Quantity          int                    `json:"quantity"`
	SelectedOptions   []CheckoutSelectionRef `json:"selected_options"`
	SelectedAdditions []CheckoutSelectionRef `json:"selected_additions"`
	ExpectedUnitPrice decimal.Decimal        `json:"expected_unit_price"`
}

// ValidateCheckoutRequest is the payload for cart validation.
type ValidateCheckoutRequest struct {
	Items     []CheckoutItem `json:"items"`
	AddressID uuid.UUID      `json:"address_id"`
	Notes     string         `json:"notes,omitempty"`
}

// ItemValidationError is one per-item rejection from validation.
type ItemValidationError struct {
	Kind              enums.CheckoutErrorKind `json:"kind"`
	ProductID         uuid.UUID               `json:"product_id"`
	StoreID           uuid.UUID               `json:"store_id"`
	Message           string                  `json:"message,omitempty"`
	NewPrice          *decimal.Decimal        `json:"new_price,omitempty"`
	AvailableQuantity *int                    `json:"available_quantity,omitempty"`
}

// SessionVendor is the per-vendor breakdown inside a checkout session.
type SessionVendor struct {
	StoreID     uuid.UUID       `json:"store_id"`
	StoreName   string          `json:"store_name"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}

// CheckoutSession is the server-issued descriptor the storefront holds
// between validation and payment. Opaque beyond display/forwarding.
type CheckoutSession struct {
	SessionID        uuid.UUID       `json:"session_id"`
	ExpiresAt        time.Time       `json:"expires_at"`
	Vendors          []SessionVendor `json:"vendors"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TotalDeliveryFee decimal.Decimal `json:"total_delivery_fee"`
	Tax              decimal.Decimal `json:"tax"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	PaymentMethods   []string        `json:"payment_methods"`
}

// ValidateCheckoutResult is the union response of checkout validation.
type ValidateCheckoutResult struct {
	Success bool                  `json:"success"`
	Errors  []ItemValidationError `json:"errors,omitempty"`
	Session *CheckoutSession      `json:"session,omitempty"`
}

// PaymentRedirect is the platform's answer to payment initiation.
type PaymentRedirect struct {
	OrderID     uuid.UUID `json:"order_id"`
	RedirectURL string    `json:"redirect_url"`
}
