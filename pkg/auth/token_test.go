package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func mintTestToken(t *testing.T, cfg config.SessionConfig, customerID uuid.UUID, issuedAt time.Time, ttl time.Duration) string {
	t.Helper()
	claims := AccessTokenClaims{
		CustomerID: customerID,
		Email:      "customer@dawlystore.test",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.TokenSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func TestParseAccessToken(t *testing.T) {
	cfg := config.SessionConfig{
		TokenSecret: "secret",
		TokenIssuer: "dawlystore",
	}
	customerID := uuid.New()
	token := mintTestToken(t, cfg, customerID, time.Now().UTC(), 30*time.Minute)

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.CustomerID != customerID {
		t.Fatalf("expected customer_id %s, got %s", customerID, claims.CustomerID)
	}
	if claims.Issuer != cfg.TokenIssuer {
		t.Fatalf("expected issuer %s, got %s", cfg.TokenIssuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected token id to be preserved")
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.SessionConfig{
		TokenSecret: "secret",
		TokenIssuer: "dawlystore",
	}
	token := mintTestToken(t, cfg, uuid.New(), time.Now(), 10*time.Minute)

	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.SessionConfig{
		TokenSecret: "secret",
		TokenIssuer: "dawlystore",
	}
	token := mintTestToken(t, cfg, uuid.New(), time.Now().Add(-time.Hour), 15*time.Minute)

	_, err := ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseAccessTokenWrongIssuer(t *testing.T) {
	minted := config.SessionConfig{TokenSecret: "secret", TokenIssuer: "someone-else"}
	verifier := config.SessionConfig{TokenSecret: "secret", TokenIssuer: "dawlystore"}
	token := mintTestToken(t, minted, uuid.New(), time.Now(), 10*time.Minute)

	if _, err := ParseAccessToken(verifier, token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}
