package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type memPersister struct {
	mu       sync.Mutex
	data     map[string]string
	failSave bool
	failLoad bool
	saves    int
}

func newMemPersister() *memPersister {
	return &memPersister{data: make(map[string]string)}
}

func (p *memPersister) Load(_ context.Context, cartKey string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failLoad {
		return "", errors.New("load unavailable")
	}
	payload, ok := p.data[cartKey]
	if !ok {
		return "", ErrSnapshotNotFound
	}
	return payload, nil
}

func (p *memPersister) Save(_ context.Context, cartKey, payload string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.failSave {
		return errors.New("save unavailable")
	}
	p.data[cartKey] = payload
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "cart-test",
		Level:       zerolog.ErrorLevel,
		Output:      io.Discard,
	})
}

func newTestStore(t *testing.T, persister Persister) *Store {
	t.Helper()
	store, err := NewStore("cart-key", persister, testLogger(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.Hydrate(context.Background())
	return store
}

func TestStore_AddValidation(t *testing.T) {
	store := newTestStore(t, newMemPersister())

	if _, err := store.AddItem(context.Background(), AddPayload{Quantity: 0}); err == nil {
		t.Error("expected zero quantity to be rejected")
	}
	if _, err := store.AddItem(context.Background(), AddPayload{Quantity: 1}); err == nil {
		t.Error("expected missing product/store to be rejected")
	}
}

func TestStore_RoundTripHydration(t *testing.T) {
	persister := newMemPersister()
	ctx := context.Background()

	store := newTestStore(t, persister)
	payload := testPayload(t, "10.00", 2)
	if _, err := store.AddItem(ctx, payload); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// A fresh Store over the same persister must rebuild the same cart.
	rehydrated := newTestStore(t, persister)
	state := rehydrated.Snapshot()
	if !state.Hydrated {
		t.Fatal("expected hydrated state")
	}
	if len(state.Items) != 1 {
		t.Fatalf("expected 1 line after rehydration, got %d", len(state.Items))
	}
	if state.Items[0].Quantity != 2 || !state.Items[0].UnitPrice.Equal(money(t, "10.00")) {
		t.Errorf("rehydrated line drifted: %+v", state.Items[0])
	}
	if got := rehydrated.Summary().GrandTotal; !got.Equal(money(t, "20.00")) {
		t.Errorf("expected rehydrated total 20.00, got %s", got)
	}
}

func TestStore_HydrateMissingKeyIsEmpty(t *testing.T) {
	store := newTestStore(t, newMemPersister())
	state := store.Snapshot()
	if !state.Hydrated {
		t.Fatal("expected hydrated flag after load of a missing key")
	}
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(state.Items))
	}
}

func TestStore_HydrateDiscardsCorruptSnapshot(t *testing.T) {
	persister := newMemPersister()
	persister.data["cart-key"] = "{not json"

	store := newTestStore(t, persister)
	if len(store.Snapshot().Items) != 0 {
		t.Fatal("expected corrupt snapshot to yield an empty cart")
	}
	if !store.Hydrated() {
		t.Fatal("expected hydration to complete despite corruption")
	}
}

func TestStore_HydrateDiscardsStaleVersion(t *testing.T) {
	stale, err := json.Marshal(Envelope{
		Version:     SnapshotVersion + 1,
		Items:       []Item{{ItemID: "x", Quantity: 1}},
		LastUpdated: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("marshal stale envelope: %v", err)
	}
	persister := newMemPersister()
	persister.data["cart-key"] = string(stale)

	store := newTestStore(t, persister)
	if len(store.Snapshot().Items) != 0 {
		t.Fatal("expected stale-version snapshot to be discarded")
	}
}

func TestStore_HydrateLoadFailureStartsEmpty(t *testing.T) {
	persister := newMemPersister()
	persister.failLoad = true

	store := newTestStore(t, persister)
	if !store.Hydrated() {
		t.Fatal("expected hydration to complete despite load failure")
	}
	if len(store.Snapshot().Items) != 0 {
		t.Fatal("expected empty cart after load failure")
	}
}

func TestStore_HydrateIsOneShot(t *testing.T) {
	persister := newMemPersister()
	ctx := context.Background()

	store := newTestStore(t, persister)
	if _, err := store.AddItem(ctx, testPayload(t, "10.00", 1)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Empty the persisted copy behind the store's back; a repeat
	// Hydrate must not reload it over live state.
	persister.mu.Lock()
	delete(persister.data, "cart-key")
	persister.mu.Unlock()

	store.Hydrate(ctx)
	if len(store.Snapshot().Items) != 1 {
		t.Fatal("expected repeat hydrate to be a no-op")
	}
}

func TestStore_PersistFailureStaysInMemory(t *testing.T) {
	persister := newMemPersister()
	persister.failSave = true
	ctx := context.Background()

	store := newTestStore(t, persister)
	state, err := store.AddItem(ctx, testPayload(t, "10.00", 2))
	if err != nil {
		t.Fatalf("expected persistence failure to be swallowed, got %v", err)
	}
	if len(state.Items) != 1 {
		t.Fatalf("expected in-memory state to advance, got %d lines", len(state.Items))
	}

	state = store.IncrementQuantity(ctx, state.Items[0].ItemID)
	if state.Items[0].Quantity != 3 {
		t.Errorf("expected in-memory increments to keep working, got %d", state.Items[0].Quantity)
	}
}

func TestStore_MutationsWriteThrough(t *testing.T) {
	persister := newMemPersister()
	ctx := context.Background()

	store := newTestStore(t, persister)
	state, err := store.AddItem(ctx, testPayload(t, "10.00", 1))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	itemID := state.Items[0].ItemID

	store.UpdateQuantity(ctx, itemID, 4)
	store.DecrementQuantity(ctx, itemID)
	store.Clear(ctx)

	if persister.saves != 4 {
		t.Errorf("expected 4 write-through saves, got %d", persister.saves)
	}

	var envelope Envelope
	if err := json.Unmarshal([]byte(persister.data["cart-key"]), &envelope); err != nil {
		t.Fatalf("decode persisted envelope: %v", err)
	}
	if envelope.Version != SnapshotVersion {
		t.Errorf("expected envelope version %d, got %d", SnapshotVersion, envelope.Version)
	}
	if len(envelope.Items) != 0 {
		t.Errorf("expected cleared cart persisted, got %d lines", len(envelope.Items))
	}
}

func TestStore_RemoveStoreItems(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMemPersister())

	first := testPayload(t, "10.00", 1)
	second := testPayload(t, "20.00", 1)
	if _, err := store.AddItem(ctx, first); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := store.AddItem(ctx, second); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	state := store.RemoveStoreItems(ctx, first.StoreID)
	if len(state.Items) != 1 || state.Items[0].StoreID != second.StoreID {
		t.Fatalf("expected only the other store's line to remain, got %+v", state.Items)
	}
}

func TestStore_CheckoutItemsProjection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMemPersister())

	payload := testPayload(t, "10.00", 2)
	payload.SelectedOptions = []ItemOption{{ID: uuid.New(), Name: "Large", Price: money(t, "2.00")}}
	payload.SelectedAdditions = []ItemAddition{{ID: uuid.New(), Name: "Bacon", Price: money(t, "1.50")}}
	if _, err := store.AddItem(ctx, payload); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	projected := store.CheckoutItems()
	if len(projected) != 1 {
		t.Fatalf("expected 1 projected item, got %d", len(projected))
	}
	ci := projected[0]
	if ci.ProductID != payload.ProductID || ci.StoreID != payload.StoreID {
		t.Errorf("projection lost identity: %+v", ci)
	}
	if ci.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", ci.Quantity)
	}
	if !ci.ExpectedUnitPrice.Equal(money(t, "10.00")) {
		t.Errorf("expected unit price only, not selection deltas, got %s", ci.ExpectedUnitPrice)
	}
	if len(ci.SelectedOptions) != 1 || ci.SelectedOptions[0].ID != payload.SelectedOptions[0].ID {
		t.Errorf("expected option id forwarded, got %+v", ci.SelectedOptions)
	}
	if len(ci.SelectedAdditions) != 1 {
		t.Errorf("expected addition id forwarded, got %+v", ci.SelectedAdditions)
	}

	// The projection is a copy; follow-up mutations do not touch it.
	store.Clear(ctx)
	if len(projected) != 1 || projected[0].Quantity != 2 {
		t.Error("expected projection to be unaffected by later mutations")
	}
}

func TestStore_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMemPersister())

	payload := testPayload(t, "1.00", 1)
	if _, err := store.AddItem(ctx, payload); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	itemID := store.Snapshot().Items[0].ItemID

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.IncrementQuantity(ctx, itemID)
		}()
	}
	wg.Wait()

	if got := store.Snapshot().Items[0].Quantity; got != 51 {
		t.Fatalf("expected quantity 51 after 50 concurrent increments, got %d", got)
	}
}

func TestManager_CachesAndEvicts(t *testing.T) {
	persister := newMemPersister()
	manager, err := NewManager(persister, testLogger(), nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	ctx := context.Background()

	first, err := manager.Get(ctx, "customer-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	again, err := manager.Get(ctx, "customer-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != again {
		t.Fatal("expected the same Store instance per cart key")
	}

	other, err := manager.Get(ctx, "customer-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if other == first {
		t.Fatal("expected distinct Stores for distinct cart keys")
	}

	manager.Evict("customer-1")
	fresh, err := manager.Get(ctx, "customer-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fresh == first {
		t.Fatal("expected eviction to drop the cached Store")
	}
	if !fresh.Hydrated() {
		t.Fatal("expected Get to hydrate the fresh Store")
	}
}

func TestManager_RequiresDeps(t *testing.T) {
	if _, err := NewManager(nil, testLogger(), nil); err == nil {
		t.Error("expected nil persister to be rejected")
	}
	if _, err := NewManager(newMemPersister(), nil, nil); err == nil {
		t.Error("expected nil logger to be rejected")
	}
}
