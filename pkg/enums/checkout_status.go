package enums

import "fmt"

// CheckoutStatus names the states of the checkout flow.
type CheckoutStatus string

const (
	CheckoutStatusLoading         CheckoutStatus = "loading"
	CheckoutStatusCheckingAuth    CheckoutStatus = "checking_auth"
	CheckoutStatusRequiresLogin   CheckoutStatus = "requires_login"
	CheckoutStatusReady           CheckoutStatus = "ready"
	CheckoutStatusValidating      CheckoutStatus = "validating"
	CheckoutStatusValidationError CheckoutStatus = "validation_error"
	CheckoutStatusProcessing      CheckoutStatus = "processing"
	CheckoutStatusSuccess         CheckoutStatus = "success"
	CheckoutStatusError           CheckoutStatus = "error"
)

var validCheckoutStatuses = []CheckoutStatus{
	CheckoutStatusLoading,
	CheckoutStatusCheckingAuth,
	CheckoutStatusRequiresLogin,
	CheckoutStatusReady,
	CheckoutStatusValidating,
	CheckoutStatusValidationError,
	CheckoutStatusProcessing,
	CheckoutStatusSuccess,
	CheckoutStatusError,
}

// String implements fmt.Stringer.
func (c CheckoutStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStatus.
func (c CheckoutStatus) IsValid() bool {
	for _, candidate := range validCheckoutStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition leaves this status.
func (c CheckoutStatus) IsTerminal() bool {
	return c == CheckoutStatusSuccess
}

// ParseCheckoutStatus converts raw input into a CheckoutStatus.
func ParseCheckoutStatus(value string) (CheckoutStatus, error) {
	for _, candidate := range validCheckoutStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout status %q", value)
}
