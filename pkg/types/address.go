package types

import "github.com/google/uuid"

// Address is a delivery address as exposed by the platform API. The
// storefront only displays and forwards it.
type Address struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label,omitempty"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	IsDefault  bool      `json:"is_default"`
}
