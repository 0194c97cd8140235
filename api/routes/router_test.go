package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mo7Ati/dawlystore-storefront/internal/cart"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type emptyPersister struct{}

func (emptyPersister) Load(context.Context, string) (string, error) {
	return "", cart.ErrSnapshotNotFound
}
func (emptyPersister) Save(context.Context, string, string) error { return nil }

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{
		ServiceName: "routes-test",
		Level:       zerolog.ErrorLevel,
		Output:      io.Discard,
	})

	carts, err := cart.NewManager(emptyPersister{}, logg, nil)
	if err != nil {
		t.Fatalf("cart manager: %v", err)
	}

	return NewRouter(Deps{
		Config: &config.Config{
			Session: config.SessionConfig{CookieName: "ds_session", CartCookieName: "ds_cart"},
		},
		Logger:      logg,
		Registry:    prometheus.NewRegistry(),
		CartManager: carts,
	})
}

func TestRouter_HealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_MetricsExposed(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_CartIsAnonymousFriendly(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data struct {
			IsEmpty bool `json:"is_empty"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Data.IsEmpty {
		t.Fatalf("expected an empty cart envelope, got %s", rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "ds_cart" {
		t.Fatalf("expected a minted cart cookie, got %+v", cookies)
	}
}

func TestRouter_ProtectedRoutesRequireLogin(t *testing.T) {
	router := testRouter(t)
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/addresses"},
		{http.MethodPost, "/api/v1/checkout/validate"},
		{http.MethodGet, "/api/v1/auth/me"},
	}
	for _, p := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}
}
