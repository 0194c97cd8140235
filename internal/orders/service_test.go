package orders

import (
	"context"
	"testing"

	"github.com/Mo7Ati/dawlystore-storefront/internal/auth"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/backend"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	orders    []backend.OrderSummary
	detail    *backend.OrderDetail
	lastToken string
	lastID    uuid.UUID
}

func (f *fakePlatform) ListOrders(_ context.Context, token string) ([]backend.OrderSummary, error) {
	f.lastToken = token
	return f.orders, nil
}

func (f *fakePlatform) GetOrder(_ context.Context, token string, orderID uuid.UUID) (*backend.OrderDetail, error) {
	f.lastToken = token
	f.lastID = orderID
	return f.detail, nil
}

func TestList_RequiresIdentity(t *testing.T) {
	svc, err := NewService(&fakePlatform{})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestList_ForwardsSessionToken(t *testing.T) {
	platform := &fakePlatform{orders: []backend.OrderSummary{{ID: uuid.New()}}}
	svc, err := NewService(platform)
	require.NoError(t, err)

	got, err := svc.List(context.Background(), &auth.Identity{Token: "session-token"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "session-token", platform.lastToken)
}

func TestGet_ValidatesOrderID(t *testing.T) {
	svc, err := NewService(&fakePlatform{})
	require.NoError(t, err)

	identity := &auth.Identity{Token: "session-token"}

	_, err = svc.Get(context.Background(), identity, uuid.Nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Get(context.Background(), nil, uuid.New())
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestGet_ProxiesDetail(t *testing.T) {
	orderID := uuid.New()
	platform := &fakePlatform{detail: &backend.OrderDetail{OrderSummary: backend.OrderSummary{ID: orderID}}}
	svc, err := NewService(platform)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), &auth.Identity{Token: "session-token"}, orderID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, orderID, got.ID)
	assert.Equal(t, orderID, platform.lastID)
}
