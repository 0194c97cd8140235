package enums

import "fmt"

// CheckoutErrorKind tags the per-item validation failures the platform
// backend can report against a submitted cart.
type CheckoutErrorKind string

const (
	CheckoutErrorPriceChanged        CheckoutErrorKind = "PRICE_CHANGED"
	CheckoutErrorOutOfStock          CheckoutErrorKind = "OUT_OF_STOCK"
	CheckoutErrorInsufficientStock   CheckoutErrorKind = "INSUFFICIENT_STOCK"
	CheckoutErrorProductNotFound     CheckoutErrorKind = "PRODUCT_NOT_FOUND"
	CheckoutErrorStoreMismatch       CheckoutErrorKind = "STORE_MISMATCH"
	CheckoutErrorProductUnavailable  CheckoutErrorKind = "PRODUCT_UNAVAILABLE"
	CheckoutErrorOptionUnavailable   CheckoutErrorKind = "OPTION_UNAVAILABLE"
	CheckoutErrorAdditionUnavailable CheckoutErrorKind = "ADDITION_UNAVAILABLE"
)

var validCheckoutErrorKinds = []CheckoutErrorKind{
	CheckoutErrorPriceChanged,
	CheckoutErrorOutOfStock,
	CheckoutErrorInsufficientStock,
	CheckoutErrorProductNotFound,
	CheckoutErrorStoreMismatch,
	CheckoutErrorProductUnavailable,
	CheckoutErrorOptionUnavailable,
	CheckoutErrorAdditionUnavailable,
}

// String implements fmt.Stringer.
func (k CheckoutErrorKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known CheckoutErrorKind.
func (k CheckoutErrorKind) IsValid() bool {
	for _, candidate := range validCheckoutErrorKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseCheckoutErrorKind converts raw input into a CheckoutErrorKind.
func ParseCheckoutErrorKind(value string) (CheckoutErrorKind, error) {
	for _, candidate := range validCheckoutErrorKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout error kind %q", value)
}
