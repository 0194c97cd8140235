package stores

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
	ListStores(ctx context.Context, q backend.StoreQuery) ([]backend.StoreSummary, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (*backend.StoreSummary, error)
}

// Service exposes vendor store browsing.
type Service interface {
	List(ctx context.Context, q backend.StoreQuery) ([]backend.StoreSummary, error)
	Get(ctx context.Context, storeID uuid.UUID) (*backend.StoreSummary, error)
}

type service struct {
	platform Platform
}

func NewService(platform Platform) (Service, error) {
	if platform == nil {
		return nil, errors.New("stores service requires the platform client")
	}
	return &service{platform: platform}, nil
}

func (s *service) List(ctx context.Context, q backend.StoreQuery) ([]backend.StoreSummary, error) {
	q.Limit = pagination.NormalizeLimit(q.Limit)
	q.Page = pagination.NormalizePage(q.Page)
	return s.platform.ListStores(ctx, q)
}

func (s *service) Get(ctx context.Context, storeID uuid.UUID) (*backend.StoreSummary, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	return s.platform.GetStore(ctx, storeID)
}
