package products

import (
	"context"
	"errors"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/backend"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/pagination"
	"github.com/google/uuid"
)

// Platform is the slice of the backend client this service proxies.
type Platform interface {
	ListProducts(ctx context.Context, q backend.ProductQuery) ([]backend.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*backend.Product, error)
}

// Service exposes catalog browsing. Product detail carries the
// options and additions add-to-cart needs for its price snapshot.
type Service interface {
	List(ctx context.Context, q backend.ProductQuery) ([]backend.Product, error)
	Get(ctx context.Context, productID uuid.UUID) (*backend.Product, error)
}

type service struct {
	platform Platform
}

func NewService(platform Platform) (Service, error) {
	if platform == nil {
		return nil, errors.New("products service requires the platform client")
	}
	return &service{platform: platform}, nil
}

func (s *service) List(ctx context.Context, q backend.ProductQuery) ([]backend.Product, error) {
	if q.StoreID != nil && *q.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store filter must be a valid id")
	}
	q.Limit = pagination.NormalizeLimit(q.Limit)
	q.Page = pagination.NormalizePage(q.Page)
	return s.platform.ListProducts(ctx, q)
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*backend.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.platform.GetProduct(ctx, productID)
}
