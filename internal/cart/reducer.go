package cart

import (
	"time"

	"github.com/google/uuid"
)

// Reducers are pure transitions over the item list. They never touch
// the persister or the lock; the Store wraps each one with both.

func applyAdd(items []Item, payload AddPayload, now time.Time) []Item {
	itemID := GenerateItemID(payload.ProductID, payload.StoreID, payload.SelectedOptions, payload.SelectedAdditions)

	for i, existing := range items {
		if existing.ItemID != itemID {
			continue
		}
		next := make([]Item, len(items))
		copy(next, items)
		merged := existing
		merged.Quantity += payload.Quantity
		// The newest add wins the snapshot; quantities accumulate,
		// prices never do.
		merged.StoreName = payload.StoreName
		merged.Name = payload.Name
		merged.ImageURL = payload.ImageURL
		merged.UnitPrice = payload.UnitPrice
		merged.ComparePrice = payload.ComparePrice
		merged.DiscountPercentage = payload.DiscountPercentage
		next[i] = merged
		return next
	}

	next := make([]Item, len(items), len(items)+1)
	copy(next, items)
	return append(next, Item{
		ItemID:             itemID,
		ProductID:          payload.ProductID,
		StoreID:            payload.StoreID,
		StoreName:          payload.StoreName,
		Name:               payload.Name,
		ImageURL:           payload.ImageURL,
		UnitPrice:          payload.UnitPrice,
		ComparePrice:       payload.ComparePrice,
		DiscountPercentage: payload.DiscountPercentage,
		Quantity:           payload.Quantity,
		SelectedOptions:    payload.SelectedOptions,
		SelectedAdditions:  payload.SelectedAdditions,
		AddedAt:            now,
	})
}

func applyRemove(items []Item, itemID string) []Item {
	next := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ItemID == itemID {
			continue
		}
		next = append(next, item)
	}
	return next
}

func applyUpdateQuantity(items []Item, itemID string, quantity int) []Item {
	if quantity <= 0 {
		return applyRemove(items, itemID)
	}
	next := make([]Item, len(items))
	copy(next, items)
	for i, item := range next {
		if item.ItemID == itemID {
			item.Quantity = quantity
			next[i] = item
			break
		}
	}
	return next
}

func applyIncrement(items []Item, itemID string) []Item {
	for _, item := range items {
		if item.ItemID == itemID {
			return applyUpdateQuantity(items, itemID, item.Quantity+1)
		}
	}
	return items
}

func applyDecrement(items []Item, itemID string) []Item {
	for _, item := range items {
		if item.ItemID == itemID {
			return applyUpdateQuantity(items, itemID, item.Quantity-1)
		}
	}
	return items
}

func applyRemoveStore(items []Item, storeID uuid.UUID) []Item {
	next := make([]Item, 0, len(items))
	for _, item := range items {
		if item.StoreID == storeID {
			continue
		}
		next = append(next, item)
	}
	return next
}

func applyClear([]Item) []Item {
	return nil
}
