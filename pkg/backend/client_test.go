package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/enums"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logg := logger.New(logger.Options{ServiceName: "backend-test", Level: zerolog.ErrorLevel})
	client, err := NewClient(context.Background(), config.BackendConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	}, logg, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestLogin_Success(t *testing.T) {
	customerID := uuid.New()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/storefront/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode login request: %v", err)
		}
		if req.Email != "shopper@example.com" {
			t.Errorf("expected email to be forwarded, got %q", req.Email)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": LoginResult{
				AccessToken: "token-123",
				ExpiresAt:   time.Now().Add(time.Hour),
				Customer:    Customer{ID: customerID, Name: "Shopper", Email: req.Email},
			},
		})
	}))

	result, err := client.Login(context.Background(), LoginRequest{Email: "shopper@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.AccessToken != "token-123" {
		t.Errorf("expected access token token-123, got %q", result.AccessToken)
	}
	if result.Customer.ID != customerID {
		t.Errorf("expected customer id %s, got %s", customerID, result.Customer.ID)
	}
}

func TestMe_ForwardsBearerToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", got)
		}
		json.NewEncoder(w).Encode(Customer{ID: uuid.New(), Name: "Shopper"})
	}))

	if _, err := client.Me(context.Background(), "tok"); err != nil {
		t.Fatalf("Me: %v", err)
	}
}

func TestDo_MapsUpstreamStatusToCode(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   pkgerrors.Code
	}{
		{"unauthorized", http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{"not found", http.StatusNotFound, pkgerrors.CodeNotFound},
		{"conflict", http.StatusConflict, pkgerrors.CodeConflict},
		{"rate limited", http.StatusTooManyRequests, pkgerrors.CodeRateLimit},
		{"upstream failure", http.StatusBadGateway, pkgerrors.CodeDependency},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"code": "UPSTREAM", "message": "nope"},
				})
			}))

			_, err := client.Me(context.Background(), "tok")
			if err == nil {
				t.Fatal("expected error")
			}
			appErr := pkgerrors.As(err)
			if appErr == nil {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if appErr.Code() != tc.want {
				t.Errorf("expected code %s, got %s", tc.want, appErr.Code())
			}
		})
	}
}

func TestValidateCheckout_ReturnsItemErrors(t *testing.T) {
	productID := uuid.New()
	newPrice := decimal.RequireFromString("12.50")

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ValidateCheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode validate request: %v", err)
		}
		if len(req.Items) != 1 {
			t.Errorf("expected 1 item, got %d", len(req.Items))
		}
		json.NewEncoder(w).Encode(ValidateCheckoutResult{
			Success: false,
			Errors: []ItemValidationError{{
				Kind:      enums.CheckoutErrorPriceChanged,
				ProductID: productID,
				NewPrice:  &newPrice,
			}},
		})
	}))

	result, err := client.ValidateCheckout(context.Background(), "tok", ValidateCheckoutRequest{
		Items: []CheckoutItem{{
			ProductID:         productID,
			StoreID:           uuid.New(),
			Quantity:          2,
			ExpectedUnitPrice: decimal.RequireFromString("10.00"),
		}},
		AddressID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("ValidateCheckout: %v", err)
	}
	if result.Success {
		t.Error("expected validation to fail")
	}
	if len(result.Errors) != 1 || result.Errors[0].Kind != enums.CheckoutErrorPriceChanged {
		t.Fatalf("expected one PRICE_CHANGED error, got %+v", result.Errors)
	}
	if result.Errors[0].NewPrice == nil || !result.Errors[0].NewPrice.Equal(newPrice) {
		t.Errorf("expected new price %s, got %v", newPrice, result.Errors[0].NewPrice)
	}
}

func TestValidateCheckout_ReturnsSession(t *testing.T) {
	sessionID := uuid.New()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ValidateCheckoutResult{
			Success: true,
			Session: &CheckoutSession{
				SessionID:      sessionID,
				ExpiresAt:      time.Now().Add(15 * time.Minute),
				GrandTotal:     decimal.RequireFromString("42.00"),
				PaymentMethods: []string{"card", "cash"},
			},
		})
	}))

	result, err := client.ValidateCheckout(context.Background(), "tok", ValidateCheckoutRequest{AddressID: uuid.New()})
	if err != nil {
		t.Fatalf("ValidateCheckout: %v", err)
	}
	if !result.Success || result.Session == nil {
		t.Fatalf("expected session, got %+v", result)
	}
	if result.Session.SessionID != sessionID {
		t.Errorf("expected session id %s, got %s", sessionID, result.Session.SessionID)
	}
}
