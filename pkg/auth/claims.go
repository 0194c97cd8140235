package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims are the typed claims of the access token the
// platform backend issues to a logged-in customer. The storefront
// only parses these; minting stays with the platform.
type AccessTokenClaims struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	jwt.RegisteredClaims
}
