package products

import (
	"context"
	"testing"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/backend"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/google/uuid"
)

type fakePlatform struct {
	lastQuery backend.ProductQuery
	product   *backend.Product
}

func (p *fakePlatform) ListProducts(_ context.Context, q backend.ProductQuery) ([]backend.Product, error) {
	p.lastQuery = q
	return nil, nil
}

func (p *fakePlatform) GetProduct(context.Context, uuid.UUID) (*backend.Product, error) {
	return p.product, nil
}

func TestList_DefaultsPaging(t *testing.T) {
	platform := &fakePlatform{}
	svc, err := NewService(platform)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.List(context.Background(), backend.ProductQuery{Limit: -1}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if platform.lastQuery.Limit != 20 || platform.lastQuery.Page != 1 {
		t.Errorf("expected defaulted paging, got %+v", platform.lastQuery)
	}

	if _, err := svc.List(context.Background(), backend.ProductQuery{Limit: 500, Page: 3}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if platform.lastQuery.Limit != 20 || platform.lastQuery.Page != 3 {
		t.Errorf("expected limit clamped, got %+v", platform.lastQuery)
	}
}

func TestList_RejectsNilStoreFilter(t *testing.T) {
	svc, err := NewService(&fakePlatform{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	nilID := uuid.Nil
	_, err = svc.List(context.Background(), backend.ProductQuery{StoreID: &nilID})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGet_RequiresID(t *testing.T) {
	svc, err := NewService(&fakePlatform{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.Get(context.Background(), uuid.Nil); err == nil {
		t.Fatal("expected nil product id to be rejected")
	}
}
