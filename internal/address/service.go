package address

import (
	"context"
	"errors"
	"strings"

	"github.com/Mo7Ati/dawlystore-storefront/internal/auth"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/types"
	"github.com/google/uuid"
)

// Platform is the slice of the backend client this service proxies.
type Platform interface {
	ListAddresses(ctx context.Context, token string) ([]types.Address, error)
	CreateAddress(ctx context.Context, token string, addr types.Address) (*types.Address, error)
	DeleteAddress(ctx context.Context, token string, addressID uuid.UUID) error
}

// Service manages the customer's saved delivery addresses. Every
// operation requires a logged-in identity; the platform owns the data.
type Service interface {
	List(ctx context.Context, identity *auth.Identity) ([]types.Address, error)
	Create(ctx context.Context, identity *auth.Identity, addr types.Address) (*types.Address, error)
	Delete(ctx context.Context, identity *auth.Identity, addressID uuid.UUID) error
}

type service struct {
	platform Platform
}

func NewService(platform Platform) (Service, error) {
	if platform == nil {
		return nil, errors.New("address service requires the platform client")
	}
	return &service{platform: platform}, nil
}

func (s *service) List(ctx context.Context, identity *auth.Identity) ([]types.Address, error) {
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	return s.platform.ListAddresses(ctx, identity.Token)
}

func (s *service) Create(ctx context.Context, identity *auth.Identity, addr types.Address) (*types.Address, error) {
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if strings.TrimSpace(addr.Line1) == "" || strings.TrimSpace(addr.City) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address line and city are required")
	}
	return s.platform.CreateAddress(ctx, identity.Token, addr)
}

func (s *service) Delete(ctx context.Context, identity *auth.Identity, addressID uuid.UUID) error {
	if identity == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	return s.platform.DeleteAddress(ctx, identity.Token, addressID)
}
