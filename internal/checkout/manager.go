package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/Mo7Ati/dawlystore-storefront/internal/cart"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/metrics"
)

// Manager tracks at most one Flow per cart key. A finished or
// abandoned flow is dropped so the next visit starts fresh.
type Manager struct {
	mu    sync.Mutex
	flows map[string]*Flow

	carts     *cart.Manager
	auth      AuthChecker
	validator Validator
	payments  PaymentInitiator
	logger    *logger.Logger
	metrics   *metrics.StorefrontMetrics
}

func NewManager(carts *cart.Manager, auth AuthChecker, validator Validator, payments PaymentInitiator, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Manager, error) {
	if carts == nil {
		return nil, errors.New("checkout manager requires a cart manager")
	}
	if auth == nil || validator == nil || payments == nil {
		return nil, errors.New("checkout manager requires auth, validator and payment collaborators")
	}
	if logg == nil {
		return nil, errors.New("checkout manager requires a logger")
	}
	return &Manager{
		flows:     make(map[string]*Flow),
		carts:     carts,
		auth:      auth,
		validator: validator,
		payments:  payments,
		logger:    logg,
		metrics:   m,
	}, nil
}

// Get returns the live Flow for the cart key, creating one bound to
// that key's cart on first access. A flow that already reached the
// terminal success state is replaced with a fresh one.
func (m *Manager) Get(ctx context.Context, cartKey string) (*Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if flow, ok := m.flows[cartKey]; ok && !flow.Status().IsTerminal() {
		return flow, nil
	}

	cartStore, err := m.carts.Get(ctx, cartKey)
	if err != nil {
		return nil, err
	}
	flow, err := NewFlow(cartStore, m.auth, m.validator, m.payments, m.logger, m.metrics)
	if err != nil {
		return nil, err
	}
	m.flows[cartKey] = flow
	return flow, nil
}

// Drop abandons any flow for the cart key.
func (m *Manager) Drop(cartKey string) {
	m.mu.Lock()
	delete(m.flows, cartKey)
	m.mu.Unlock()
}
