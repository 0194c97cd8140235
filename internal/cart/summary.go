package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreGroup is the per-vendor slice of the cart shown on the cart
// page and at checkout.
type StoreGroup struct {
	StoreID   uuid.UUID       `json:"store_id"`
	StoreName string          `json:"store_name"`
	Items     []Item          `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

// Summary is the fully derived view of the cart. It is recomputed from
// the item list on every read and never stored.
type Summary struct {
	StoreGroups      []StoreGroup    `json:"store_groups"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	TotalItems       int             `json:"total_items"`
	TotalUniqueItems int             `json:"total_unique_items"`
	StoreCount       int             `json:"store_count"`
	Items            []Item          `json:"items"`
	IsEmpty          bool            `json:"is_empty"`
}

// ItemTotal prices one line from its own snapshots: unit price plus
// every selected option and addition, times quantity.
func ItemTotal(item Item) decimal.Decimal {
	unit := item.UnitPrice
	for _, opt := range item.SelectedOptions {
		unit = unit.Add(opt.Price)
	}
	for _, add := range item.SelectedAdditions {
		unit = unit.Add(add.Price)
	}
	return unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// StoreSubtotal sums line totals for one vendor's items.
func StoreSubtotal(items []Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(ItemTotal(item))
	}
	return subtotal
}

// Summarize partitions the cart by store, preserving the order stores
// first appeared in, and aggregates the totals.
func Summarize(items []Item) Summary {
	summary := Summary{
		GrandTotal: decimal.Zero,
		Items:      items,
		IsEmpty:    len(items) == 0,
	}

	indexByStore := make(map[uuid.UUID]int)
	for _, item := range items {
		idx, seen := indexByStore[item.StoreID]
		if !seen {
			idx = len(summary.StoreGroups)
			indexByStore[item.StoreID] = idx
			summary.StoreGroups = append(summary.StoreGroups, StoreGroup{
				StoreID:   item.StoreID,
				StoreName: item.StoreName,
				Subtotal:  decimal.Zero,
			})
		}

		lineTotal := ItemTotal(item)
		group := summary.StoreGroups[idx]
		group.Items = append(group.Items, item)
		group.Subtotal = group.Subtotal.Add(lineTotal)
		group.ItemCount += item.Quantity
		summary.StoreGroups[idx] = group

		summary.GrandTotal = summary.GrandTotal.Add(lineTotal)
		summary.TotalItems += item.Quantity
		summary.TotalUniqueItems++
	}
	summary.StoreCount = len(summary.StoreGroups)
	return summary
}
