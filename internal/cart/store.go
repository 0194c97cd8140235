package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/backend"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/metrics"
	"github.com/google/uuid"
)

// Store owns the cart state for one cart key. Handlers run
// concurrently, so every read and mutation goes through the mutex;
// mutations apply a pure reducer and then write the snapshot through
// to the persister. A persister failure downgrades the session to
// in-memory operation and is never surfaced to the shopper.
type Store struct {
	mu        sync.Mutex
	cartKey   string
	state     State
	persister Persister
	logger    *logger.Logger
	metrics   *metrics.StorefrontMetrics
}

func NewStore(cartKey string, persister Persister, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Store, error) {
	if cartKey == "" {
		return nil, errors.New("cart store requires a cart key")
	}
	if persister == nil {
		return nil, errors.New("cart store requires a persister")
	}
	if logg == nil {
		return nil, errors.New("cart store requires a logger")
	}
	return &Store{
		cartKey:   cartKey,
		persister: persister,
		logger:    logg,
		metrics:   m,
	}, nil
}

// Hydrate loads the persisted snapshot exactly once per Store
// lifetime. A missing key is an empty cart; a corrupt or
// version-mismatched envelope is discarded with a warning. Hydrate
// never fails the request path.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Hydrated {
		return
	}
	defer func() { s.state.Hydrated = true }()

	ctx = s.logger.WithCartKey(ctx, s.cartKey)
	payload, err := s.persister.Load(ctx, s.cartKey)
	if errors.Is(err, ErrSnapshotNotFound) {
		return
	}
	if err != nil {
		s.logger.Error(ctx, "loading cart snapshot, starting empty", err)
		return
	}

	var envelope Envelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		s.logger.Error(ctx, "discarding corrupt cart snapshot", err)
		return
	}
	if envelope.Version != SnapshotVersion {
		s.logger.Warn(ctx, "discarding cart snapshot with stale version")
		return
	}
	s.state.Items = envelope.Items
	s.state.LastUpdated = envelope.LastUpdated
}

// Hydrated reports whether the initial load has completed.
func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Hydrated
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

// Summary derives the grouped cart view from the current items.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	items := make([]Item, len(s.state.Items))
	copy(items, s.state.Items)
	s.mu.Unlock()
	return Summarize(items)
}

// AddItem merges the payload into the cart by item identity.
func (s *Store) AddItem(ctx context.Context, payload AddPayload) (State, error) {
	if payload.Quantity < 1 {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if payload.ProductID == uuid.Nil || payload.StoreID == uuid.Nil {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "product and store are required")
	}
	return s.mutate(ctx, "add_item", func(items []Item) []Item {
		return applyAdd(items, payload, time.Now().UTC())
	}), nil
}

// RemoveItem drops a line by id. Removing an absent id is a no-op.
func (s *Store) RemoveItem(ctx context.Context, itemID string) State {
	return s.mutate(ctx, "remove_item", func(items []Item) []Item {
		return applyRemove(items, itemID)
	})
}

// UpdateQuantity sets a line's quantity; zero or negative removes it.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) State {
	return s.mutate(ctx, "update_quantity", func(items []Item) []Item {
		return applyUpdateQuantity(items, itemID, quantity)
	})
}

// IncrementQuantity bumps a line by one.
func (s *Store) IncrementQuantity(ctx context.Context, itemID string) State {
	return s.mutate(ctx, "increment_quantity", func(items []Item) []Item {
		return applyIncrement(items, itemID)
	})
}

// DecrementQuantity lowers a line by one; at quantity 1 it removes
// the line.
func (s *Store) DecrementQuantity(ctx context.Context, itemID string) State {
	return s.mutate(ctx, "decrement_quantity", func(items []Item) []Item {
		return applyDecrement(items, itemID)
	})
}

// RemoveStoreItems drops every line belonging to one vendor.
func (s *Store) RemoveStoreItems(ctx context.Context, storeID uuid.UUID) State {
	return s.mutate(ctx, "remove_store_items", func(items []Item) []Item {
		return applyRemoveStore(items, storeID)
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) State {
	return s.mutate(ctx, "clear", applyClear)
}

// CheckoutItems projects the cart into the stripped form submitted
// for validation. The projection is by value; later cart mutations do
// not affect an in-flight checkout.
func (s *Store) CheckoutItems() []backend.CheckoutItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	projected := make([]backend.CheckoutItem, 0, len(s.state.Items))
	for _, item := range s.state.Items {
		ci := backend.CheckoutItem{
			ProductID:         item.ProductID,
			StoreID:           item.StoreID,
			Quantity:          item.Quantity,
			ExpectedUnitPrice: item.UnitPrice,
		}
		for _, opt := range item.SelectedOptions {
			ci.SelectedOptions = append(ci.SelectedOptions, backend.CheckoutSelectionRef{ID: opt.ID})
		}
		for _, add := range item.SelectedAdditions {
			ci.SelectedAdditions = append(ci.SelectedAdditions, backend.CheckoutSelectionRef{ID: add.ID})
		}
		projected = append(projected, ci)
	}
	return projected
}

func (s *Store) mutate(ctx context.Context, op string, reduce func([]Item) []Item) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = reduce(s.state.Items)
	s.state.LastUpdated = time.Now().UTC()
	s.metrics.IncCartOp(op)
	s.persistLocked(ctx)
	return s.copyStateLocked()
}

func (s *Store) persistLocked(ctx context.Context) {
	envelope := Envelope{
		Version:     SnapshotVersion,
		Items:       s.state.Items,
		LastUpdated: s.state.LastUpdated,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Error(s.logger.WithCartKey(ctx, s.cartKey), "encoding cart snapshot", err)
		return
	}
	if err := s.persister.Save(ctx, s.cartKey, string(payload)); err != nil {
		s.logger.Error(s.logger.WithCartKey(ctx, s.cartKey), "persisting cart snapshot, continuing in memory", err)
	}
}

func (s *Store) copyStateLocked() State {
	items := make([]Item, len(s.state.Items))
	copy(items, s.state.Items)
	return State{Items: items, Hydrated: s.state.Hydrated, LastUpdated: s.state.LastUpdated}
}

// Manager hands out one Store per cart key, hydrating each on first
// access. The composition root holds a single Manager; tests build
// their own.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	persister Persister
	logger    *logger.Logger
	metrics   *metrics.StorefrontMetrics
}

func NewManager(persister Persister, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Manager, error) {
	if persister == nil {
		return nil, errors.New("cart manager requires a persister")
	}
	if logg == nil {
		return nil, errors.New("cart manager requires a logger")
	}
	return &Manager{
		stores:    make(map[string]*Store),
		persister: persister,
		logger:    logg,
		metrics:   m,
	}, nil
}

// Get returns the Store for the cart key, creating and hydrating it
// on first access.
func (m *Manager) Get(ctx context.Context, cartKey string) (*Store, error) {
	m.mu.Lock()
	store, ok := m.stores[cartKey]
	if !ok {
		var err error
		store, err = NewStore(cartKey, m.persister, m.logger, m.metrics)
		if err != nil {
			m.mu.Unlock()
			return nil, err
		}
		m.stores[cartKey] = store
	}
	m.mu.Unlock()

	store.Hydrate(ctx)
	return store, nil
}

// Evict drops the cached Store for a cart key. Used on logout so the
// next request re-hydrates under the new key.
func (m *Manager) Evict(cartKey string) {
	m.mu.Lock()
	delete(m.stores, cartKey)
	m.mu.Unlock()
}
