package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier/backoffice/internal/domain/catalog"
)

// ItemType represents what is being done with one order item
type ItemType string

const (
	ItemTypeRent      ItemType = "rent"
	ItemTypeBuy       ItemType = "buy"
	ItemTypeTailoring ItemType = "tailoring"
)

// IsValid checks if the type belongs to the closed set
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeRent, ItemTypeBuy, ItemTypeTailoring:
		return true
	}
	return false
}

// String returns the string representation of ItemType
func (t ItemType) String() string {
	return string(t)
}

// SelectedItem is one configured cloth in the in-progress order. It exists
// only client-side until the order is submitted.
type SelectedItem struct {
	Cloth        catalog.Cloth   `json:"cloth"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Paid         decimal.Decimal `json:"paid"`
	Type         ItemType        `json:"type"`
	DaysOfRent   int             `json:"days_of_rent"`
	Discount     Discount        `json:"discount"`
	Notes        string          `json:"notes"`
	Measurements *Measurements   `json:"measurements,omitempty"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
}

// Amount returns price multiplied by quantity
func (i SelectedItem) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Selection is the ordered list of items chosen for the order. Items are
// unique by underlying cloth ID.
type Selection []SelectedItem

// Contains reports whether a cloth is already selected
func (s Selection) Contains(clothID int64) bool {
	for _, item := range s {
		if item.Cloth.ID == clothID {
			return true
		}
	}
	return false
}

// Remove returns the selection without the item for the given cloth ID
func (s Selection) Remove(clothID int64) Selection {
	out := make(Selection, 0, len(s))
	for _, item := range s {
		if item.Cloth.ID != clothID {
			out = append(out, item)
		}
	}
	return out
}

// HasRentItem reports whether any selected item is a rental
func (s Selection) HasRentItem() bool {
	for _, item := range s {
		if item.Type == ItemTypeRent {
			return true
		}
	}
	return false
}
