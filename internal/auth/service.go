package auth

import (
	"context"
	"errors"
	"time"

	pkgauth "github.com/Mo7Ati/dawlystore-storefront/pkg/auth"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/backend"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/redis"
	"github.com/google/uuid"
)

// Identity is the authenticated shopper attached to a request.
type Identity struct {
	CustomerID uuid.UUID
	Email      string
	Name       string
	Token      string
	TokenID    string
}

// SessionStore records token liveness. Satisfied by redis.Client.
type SessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(tokenID string) string
}

// Platform is the slice of the backend client the auth service uses.
type Platform interface {
	Login(ctx context.Context, req backend.LoginRequest) (*backend.LoginResult, error)
	Me(ctx context.Context, token string) (*backend.Customer, error)
}

// Service owns storefront sessions. The platform mints the HS256
// access token; this service parses it, records the token id in the
// session store so logout can revoke it, and authenticates requests.
type Service interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Identity, error)
	Me(ctx context.Context, identity *Identity) (*backend.Customer, error)
}

type service struct {
	cfg      config.SessionConfig
	sessions SessionStore
	platform Platform
	logger   *logger.Logger
}

func NewService(cfg config.SessionConfig, sessions SessionStore, platform Platform, logg *logger.Logger) (Service, error) {
	if sessions == nil {
		return nil, errors.New("auth service requires a session store")
	}
	if platform == nil {
		return nil, errors.New("auth service requires the platform client")
	}
	if logg == nil {
		return nil, errors.New("auth service requires a logger")
	}
	return &service{cfg: cfg, sessions: sessions, platform: platform, logger: logg}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*backend.LoginResult, error) {
	result, err := s.platform.Login(ctx, backend.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	claims, err := pkgauth.ParseAccessToken(s.cfg, result.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "platform issued an unparseable token")
	}

	ttl := time.Duration(s.cfg.TTLMinutes) * time.Minute
	if until := time.Until(result.ExpiresAt); until > 0 && until < ttl {
		ttl = until
	}
	key := s.sessions.SessionKey(claims.ID)
	if err := s.sessions.Set(ctx, key, claims.CustomerID.String(), ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording session")
	}

	s.logger.Info(s.logger.WithCustomerID(ctx, claims.CustomerID.String()), "customer logged in")
	return result, nil
}

func (s *service) Logout(ctx context.Context, rawToken string) error {
	claims, err := pkgauth.ParseAccessToken(s.cfg, rawToken)
	if err != nil {
		// An invalid token has no session to revoke.
		return nil
	}
	if err := s.sessions.Del(ctx, s.sessions.SessionKey(claims.ID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// Authenticate verifies the token signature and that the session has
// not been revoked or expired from the store.
func (s *service) Authenticate(ctx context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token")
	}
	claims, err := pkgauth.ParseAccessToken(s.cfg, rawToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}

	if _, err := s.sessions.Get(ctx, s.sessions.SessionKey(claims.ID)); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked or expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking session")
	}

	return &Identity{
		CustomerID: claims.CustomerID,
		Email:      claims.Email,
		Name:       claims.Name,
		Token:      rawToken,
		TokenID:    claims.ID,
	}, nil
}

func (s *service) Me(ctx context.Context, identity *Identity) (*backend.Customer, error) {
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	return s.platform.Me(ctx, identity.Token)
}
