package checkout

import (
	"fmt"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/enums"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
)

// Event is a checkout state-machine trigger.
type Event string

const (
	EventBeginAuthCheck   Event = "begin_auth_check"
	EventAuthGranted      Event = "auth_granted"
	EventAuthDenied       Event = "auth_denied"
	EventLoginCompleted   Event = "login_completed"
	EventValidate         Event = "validate"
	EventValidationFailed Event = "validation_failed"
	EventValidationPassed Event = "validation_passed"
	EventErrorsResolved   Event = "errors_resolved"
	EventSubmitPayment    Event = "submit_payment"
	EventPaymentSucceeded Event = "payment_succeeded"
	EventPaymentFailed    Event = "payment_failed"
	EventRetry            Event = "retry"
)

// transitions is the complete edge set. Anything absent is illegal.
var transitions = map[enums.CheckoutStatus]map[Event]enums.CheckoutStatus{
	enums.CheckoutStatusLoading: {
		EventBeginAuthCheck: enums.CheckoutStatusCheckingAuth,
	},
	enums.CheckoutStatusCheckingAuth: {
		EventAuthGranted: enums.CheckoutStatusReady,
		EventAuthDenied:  enums.CheckoutStatusRequiresLogin,
	},
	enums.CheckoutStatusRequiresLogin: {
		EventLoginCompleted: enums.CheckoutStatusCheckingAuth,
	},
	enums.CheckoutStatusReady: {
		EventValidate:      enums.CheckoutStatusValidating,
		EventSubmitPayment: enums.CheckoutStatusProcessing,
	},
	enums.CheckoutStatusValidating: {
		EventValidationFailed: enums.CheckoutStatusValidationError,
		EventValidationPassed: enums.CheckoutStatusReady,
	},
	enums.CheckoutStatusValidationError: {
		EventErrorsResolved: enums.CheckoutStatusReady,
	},
	enums.CheckoutStatusProcessing: {
		EventPaymentSucceeded: enums.CheckoutStatusSuccess,
		EventPaymentFailed:    enums.CheckoutStatusError,
	},
	enums.CheckoutStatusError: {
		EventRetry: enums.CheckoutStatusReady,
	},
}

// transition applies one event to the current status. Illegal edges
// are rejected with a state-conflict error rather than silently
// absorbed; the terminal success state has no outgoing edges.
func transition(current enums.CheckoutStatus, event Event) (enums.CheckoutStatus, error) {
	next, ok := transitions[current][event]
	if !ok {
		return current, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("checkout cannot %s while %s", event, current),
		)
	}
	return next, nil
}
