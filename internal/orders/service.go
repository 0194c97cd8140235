package orders

import (
	"context"
	"errors"

	"github.com/Mo7Ati/dawlystore-storefront/internal/auth"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/backend"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/google/uuid"
)

// Platform is the slice of the backend client this service proxies.
type Platform interface {
	ListOrders(ctx context.Context, token string) ([]backend.OrderSummary, error)
	GetOrder(ctx context.Context, token string, orderID uuid.UUID) (*backend.OrderDetail, error)
}

// Service exposes the customer's order history.
type Service interface {
	List(ctx context.Context, identity *auth.Identity) ([]backend.OrderSummary, error)
	Get(ctx context.Context, identity *auth.Identity, orderID uuid.UUID) (*backend.OrderDetail, error)
}

type service struct {
	platform Platform
}

func NewService(platform Platform) (Service, error) {
	if platform == nil {
		return nil, errors.New("orders service requires the platform client")
	}
	return &service{platform: platform}, nil
}

func (s *service) List(ctx context.Context, identity *auth.Identity) ([]backend.OrderSummary, error) {
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	return s.platform.ListOrders(ctx, identity.Token)
}

func (s *service) Get(ctx context.Context, identity *auth.Identity, orderID uuid.UUID) (*backend.OrderDetail, error) {
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.platform.GetOrder(ctx, identity.Token, orderID)
}
