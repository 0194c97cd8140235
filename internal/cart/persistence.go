package cart

import (
	"context"
	"errors"
	"time"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/db"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/redis"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotVersion tags the serialized cart envelope. Bumping it
// orphans every stored snapshot; hydration treats a mismatched
// version as an empty cart.
const SnapshotVersion = 1

// ErrSnapshotNotFound is returned by Load when the cart key has no
// stored snapshot. Hydration maps it to an empty cart.
var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// Envelope is the persisted form of a cart.
type Envelope struct {
	Version     int       `json:"version"`
	Items       []Item    `json:"items"`
	LastUpdated time.Time `json:"last_updated"`
}

// Persister stores and retrieves serialized cart snapshots keyed by
// cart key (customer id or anonymous cart cookie).
type Persister interface {
	Load(ctx context.Context, cartKey string) (string, error)
	Save(ctx context.Context, cartKey string, payload string) error
}

// RedisPersister keeps snapshots in redis with a sliding TTL. This is
// the primary store; carts that go untouched past the TTL expire.
type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPersister(client *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, ttl: ttl}
}

func (p *RedisPersister) Load(ctx context.Context, cartKey string) (string, error) {
	payload, err := p.client.Get(ctx, p.client.CartSnapshotKey(SnapshotVersion, cartKey))
	if errors.Is(err, redis.Nil) {
		return "", ErrSnapshotNotFound
	}
	if err != nil {
		return "", err
	}
	return payload, nil
}

func (p *RedisPersister) Save(ctx context.Context, cartKey string, payload string) error {
	return p.client.Set(ctx, p.client.CartSnapshotKey(SnapshotVersion, cartKey), payload, p.ttl)
}

// CartSnapshot is the durable row backing SQLPersister.
type CartSnapshot struct {
	CartKey   string    `gorm:"primaryKey;size:128"`
	Version   int       `gorm:"not null"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

// SQLPersister keeps snapshots in a relational table, for deployments
// that want carts to outlive the cache.
type SQLPersister struct {
	client *db.Client
}

func NewSQLPersister(client *db.Client) *SQLPersister {
	return &SQLPersister{client: client}
}

// Migrate creates the snapshot table when auto-migration is enabled.
func (p *SQLPersister) Migrate() error {
	return p.client.DB().AutoMigrate(&CartSnapshot{})
}

func (p *SQLPersister) Load(ctx context.Context, cartKey string) (string, error) {
	var row CartSnapshot
	err := p.client.DB().WithContext(ctx).
		Where("cart_key = ? AND version = ?", cartKey, SnapshotVersion).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrSnapshotNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Payload, nil
}

func (p *SQLPersister) Save(ctx context.Context, cartKey string, payload string) error {
	row := CartSnapshot{CartKey: cartKey, Version: SnapshotVersion, Payload: payload}
	return p.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"version", "payload", "updated_at"}),
		}).
		Create(&row).Error
}
