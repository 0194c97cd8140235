package middleware

import (
	"context"
	"net/http"

	"github.com/Mo7Ati/dawlystore-storefront/internal/auth"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/google/uuid"
)

type cartKeyContextKey struct{}

// CartKey resolves which cart the request operates on: authenticated
// customers are keyed by customer id, anonymous shoppers by a
// generated cart cookie minted on first contact. Carts stay
// single-client; there is no cross-device merge.
func CartKey(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var key string
			if identity := auth.IdentityFromContext(ctx); identity != nil {
				key = "customer:" + identity.CustomerID.String()
			} else if cookie, err := r.Cookie(cfg.CartCookieName); err == nil && cookie.Value != "" {
				key = "anon:" + cookie.Value
			} else {
				minted := uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CartCookieName,
					Value:    minted,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   60 * 60 * 24 * 30,
				})
				key = "anon:" + minted
			}

			ctx = context.WithValue(ctx, cartKeyContextKey{}, key)
			if logg != nil {
				ctx = logg.WithCartKey(ctx, key)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CartKeyFromContext returns the cart key resolved by CartKey, or ""
// when the middleware did not run.
func CartKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(cartKeyContextKey{}).(string)
	return key
}
