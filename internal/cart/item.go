package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemOption is a variant the shopper selected when adding the item.
// Name and price are snapshots taken at add time.
type ItemOption struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ItemAddition is an add-on the shopper selected when adding the item.
type ItemAddition struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Item is one cart line. ItemID is derived from the product, store and
// selection set; two adds with the same selections merge into one line.
// Display and price fields are snapshots of the catalog at add time and
// are only refreshed by a later add of the same identity.
type Item struct {
	ItemID             string           `json:"item_id"`
	ProductID          uuid.UUID        `json:"product_id"`
	StoreID            uuid.UUID        `json:"store_id"`
	StoreName          string           `json:"store_name"`
	Name               string           `json:"name"`
	ImageURL           string           `json:"image_url,omitempty"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	ComparePrice       *decimal.Decimal `json:"compare_price,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	Quantity           int              `json:"quantity"`
	SelectedOptions    []ItemOption     `json:"selected_options,omitempty"`
	SelectedAdditions  []ItemAddition   `json:"selected_additions,omitempty"`
	AddedAt            time.Time        `json:"added_at"`
}

// State is the full cart contents for one session. Hydrated is false
// until the first load from the persister completes; callers must
// treat a non-hydrated state as loading rather than empty.
type State struct {
	Items       []Item    `json:"items"`
	Hydrated    bool      `json:"-"`
	LastUpdated time.Time `json:"last_updated"`
}

// AddPayload carries everything needed to create or merge a line.
// Quantity must be >= 1.
type AddPayload struct {
	ProductID          uuid.UUID
	StoreID            uuid.UUID
	StoreName          string
	Name               string
	ImageURL           string
	UnitPrice          decimal.Decimal
	ComparePrice       *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	Quantity           int
	SelectedOptions    []ItemOption
	SelectedAdditions  []ItemAddition
}
