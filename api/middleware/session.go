package middleware

import (
	"net/http"
	"strings"

	"github.com/Mo7Ati/dawlystore-storefront/api/responses"
	"github.com/Mo7Ati/dawlystore-storefront/internal/auth"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
)

// Session authenticates the request when a token is present, attaching
// the identity to the context. Requests without a usable token pass
// through anonymous; RequireAuth decides which routes demand more.
func Session(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := sessionToken(r, cfg)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := svc.Authenticate(ctx, token)
			if err != nil {
				// A stale cookie is anonymous traffic, not an error page.
				next.ServeHTTP(w, r)
				return
			}

			ctx = auth.WithIdentity(ctx, identity)
			if logg != nil {
				ctx = logg.WithCustomerID(ctx, identity.CustomerID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that reached a protected route without
// an authenticated identity.
func RequireAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.IdentityFromContext(r.Context()) == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionToken(r *http.Request, cfg config.SessionConfig) string {
	if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
