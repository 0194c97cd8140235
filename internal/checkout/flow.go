package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/Mo7Ati/dawlystore-storefront/internal/cart"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/backend"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/enums"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/metrics"
	"github.com/google/uuid"
)

// AuthChecker resolves the shopper's access token for the current
// request. An error or empty token means not logged in.
type AuthChecker interface {
	AccessToken(ctx context.Context) (string, error)
}

// Validator submits a cart projection for server-side validation.
// Satisfied by backend.Client.
type Validator interface {
	ValidateCheckout(ctx context.Context, token string, req backend.ValidateCheckoutRequest) (*backend.ValidateCheckoutResult, error)
}

// PaymentInitiator opens payment for a validated session. Satisfied
// by backend.Client.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, token string, sessionID uuid.UUID, method string) (*backend.PaymentRedirect, error)
}

// View is the flow state exposed to handlers.
type View struct {
	Status     enums.CheckoutStatus          `json:"status"`
	ItemErrors []backend.ItemValidationError `json:"item_errors,omitempty"`
	Session    *backend.CheckoutSession      `json:"session,omitempty"`
	Redirect   *backend.PaymentRedirect      `json:"redirect,omitempty"`
}

// Flow drives one checkout attempt for one cart. State only moves
// through the transition table; collaborator calls happen outside the
// lock so a second trigger during validating/processing is rejected
// as a state conflict instead of queuing behind the first.
type Flow struct {
	mu         sync.Mutex
	status     enums.CheckoutStatus
	token      string
	session    *backend.CheckoutSession
	redirect   *backend.PaymentRedirect
	itemErrors []backend.ItemValidationError

	cart      *cart.Store
	auth      AuthChecker
	validator Validator
	payments  PaymentInitiator
	logger    *logger.Logger
	metrics   *metrics.StorefrontMetrics
}

func NewFlow(cartStore *cart.Store, auth AuthChecker, validator Validator, payments PaymentInitiator, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Flow, error) {
	if cartStore == nil {
		return nil, errors.New("checkout flow requires a cart store")
	}
	if auth == nil || validator == nil || payments == nil {
		return nil, errors.New("checkout flow requires auth, validator and payment collaborators")
	}
	if logg == nil {
		return nil, errors.New("checkout flow requires a logger")
	}
	return &Flow{
		status:    enums.CheckoutStatusLoading,
		cart:      cartStore,
		auth:      auth,
		validator: validator,
		payments:  payments,
		logger:    logg,
		metrics:   m,
	}, nil
}

// Begin enters the flow. An empty cart short-circuits before the auth
// check ever runs; otherwise the auth collaborator decides between
// ready and requires_login, failing closed when it cannot tell.
func (f *Flow) Begin(ctx context.Context) (View, error) {
	f.mu.Lock()
	if f.cart.Summary().IsEmpty {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	status, err := transition(f.status, EventBeginAuthCheck)
	if err != nil {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, err
	}
	f.status = status
	f.mu.Unlock()

	token, authErr := f.auth.AccessToken(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if authErr != nil || token == "" {
		if authErr != nil {
			f.logger.Error(ctx, "auth check failed, requiring login", authErr)
		}
		f.status, _ = transition(f.status, EventAuthDenied)
		return f.viewLocked(), nil
	}
	f.token = token
	f.status, _ = transition(f.status, EventAuthGranted)
	return f.viewLocked(), nil
}

// Retrigger re-runs the auth check after the shopper logs in.
func (f *Flow) Retrigger(ctx context.Context) (View, error) {
	f.mu.Lock()
	status, err := transition(f.status, EventLoginCompleted)
	if err != nil {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, err
	}
	f.status = status
	f.mu.Unlock()

	token, authErr := f.auth.AccessToken(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if authErr != nil || token == "" {
		f.status, _ = transition(f.status, EventAuthDenied)
		return f.viewLocked(), nil
	}
	f.token = token
	f.status, _ = transition(f.status, EventAuthGranted)
	return f.viewLocked(), nil
}

// Validate snapshots the cart and submits it. A rejection parks the
// flow in validation_error with the typed item errors; acceptance
// returns to ready holding the issued session, replacing any prior
// one. Re-validating an unchanged cart is safe.
func (f *Flow) Validate(ctx context.Context, addressID uuid.UUID, notes string) (View, error) {
	f.mu.Lock()
	status, err := transition(f.status, EventValidate)
	if err != nil {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, err
	}
	f.status = status
	token := f.token
	f.mu.Unlock()

	items := f.cart.CheckoutItems()
	result, callErr := f.validator.ValidateCheckout(ctx, token, backend.ValidateCheckoutRequest{
		Items:     items,
		AddressID: addressID,
		Notes:     notes,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if callErr != nil {
		// Transport failure is not a validation verdict; fall back to
		// ready so the shopper can retry.
		f.status, _ = transition(f.status, EventValidationPassed)
		f.session = nil
		return f.viewLocked(), callErr
	}
	if !result.Success {
		f.status, _ = transition(f.status, EventValidationFailed)
		f.session = nil
		f.itemErrors = result.Errors
		f.metrics.IncCheckoutOutcome("validation_error")
		return f.viewLocked(), nil
	}
	f.status, _ = transition(f.status, EventValidationPassed)
	f.session = result.Session
	f.itemErrors = nil
	return f.viewLocked(), nil
}

// ResolveItemError removes the offending lines from both the cart and
// the pending error list. Clearing the last error returns the flow to
// ready; the stale session is dropped so the cart is re-validated.
func (f *Flow) ResolveItemError(ctx context.Context, productID, storeID uuid.UUID) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != enums.CheckoutStatusValidationError {
		return f.viewLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, "no validation errors to resolve")
	}

	for _, item := range f.cart.Snapshot().Items {
		if item.ProductID == productID && item.StoreID == storeID {
			f.cart.RemoveItem(ctx, item.ItemID)
		}
	}

	remaining := f.itemErrors[:0:0]
	for _, itemErr := range f.itemErrors {
		if itemErr.ProductID == productID && itemErr.StoreID == storeID {
			continue
		}
		remaining = append(remaining, itemErr)
	}
	f.itemErrors = remaining
	f.session = nil

	if len(f.itemErrors) == 0 {
		f.status, _ = transition(f.status, EventErrorsResolved)
	}
	return f.viewLocked(), nil
}

// Complete initiates payment for the held session. Only success
// clears the cart; every failure path leaves it intact with a retry
// edge back to ready.
func (f *Flow) Complete(ctx context.Context, method string) (View, error) {
	f.mu.Lock()
	if f.session == nil {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout has no validated session")
	}
	status, err := transition(f.status, EventSubmitPayment)
	if err != nil {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, err
	}
	f.status = status
	token := f.token
	sessionID := f.session.SessionID
	f.mu.Unlock()

	redirect, payErr := f.payments.InitiatePayment(ctx, token, sessionID, method)

	f.mu.Lock()
	defer f.mu.Unlock()
	if payErr != nil {
		f.logger.Error(ctx, "payment initiation failed", payErr)
		f.status, _ = transition(f.status, EventPaymentFailed)
		f.metrics.IncCheckoutOutcome("payment_error")
		return f.viewLocked(), payErr
	}
	f.status, _ = transition(f.status, EventPaymentSucceeded)
	f.redirect = redirect
	f.cart.Clear(ctx)
	f.metrics.IncCheckoutOutcome("success")
	return f.viewLocked(), nil
}

// Retry returns a failed payment attempt to ready.
func (f *Flow) Retry(context.Context) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	status, err := transition(f.status, EventRetry)
	if err != nil {
		return f.viewLocked(), err
	}
	f.status = status
	return f.viewLocked(), nil
}

// Status returns the current state tag.
func (f *Flow) Status() enums.CheckoutStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// CurrentView returns the full handler-facing snapshot.
func (f *Flow) CurrentView() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *Flow) viewLocked() View {
	view := View{Status: f.status, Session: f.session, Redirect: f.redirect}
	if len(f.itemErrors) > 0 {
		view.ItemErrors = make([]backend.ItemValidationError, len(f.itemErrors))
		copy(view.ItemErrors, f.itemErrors)
	}
	return view
}
