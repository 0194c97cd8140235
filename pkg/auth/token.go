package auth

import (
	"fmt"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ParseAccessToken validates a platform-issued JWT and returns typed claims.
func ParseAccessToken(cfg config.SessionConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("session token secret is required")
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.TokenSecret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.TokenIssuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
