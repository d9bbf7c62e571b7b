package catalog

import (
	"github.com/shopspring/decimal"
)

// ClothStatus represents the current state of a cloth item
type ClothStatus string

const (
	ClothStatusReadyForRent ClothStatus = "ready_for_rent"
	ClothStatusRented       ClothStatus = "rented"
	ClothStatusDamaged      ClothStatus = "damaged"
	ClothStatusBurned       ClothStatus = "burned"
	ClothStatusScratched    ClothStatus = "scratched"
	ClothStatusRepairing    ClothStatus = "repairing"
	ClothStatusDie          ClothStatus = "die"
)

// IsValid checks if the status is a valid ClothStatus
func (s ClothStatus) IsValid() bool {
	switch s {
	case ClothStatusReadyForRent, ClothStatusRented, ClothStatusDamaged,
		ClothStatusBurned, ClothStatusScratched, ClothStatusRepairing, ClothStatusDie:
		return true
	}
	return false
}

// String returns the string representation of ClothStatus
func (s ClothStatus) String() string {
	return string(s)
}

// EntityType identifies the kind of location that owns a cloth or fulfills an order
type EntityType string

const (
	EntityTypeBranch   EntityType = "branch"
	EntityTypeFactory  EntityType = "factory"
	EntityTypeWorkshop EntityType = "workshop"
)

// IsValid checks if the entity type belongs to the closed set
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeBranch, EntityTypeFactory, EntityTypeWorkshop:
		return true
	}
	return false
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// Location is a (type, id) pair identifying a branch, factory, or workshop
type Location struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   int64      `json:"entity_id"`
}

// IsSet reports whether both halves of the location are present
func (l Location) IsSet() bool {
	return l.EntityType != "" && l.EntityID != 0
}

// Cloth represents one garment in the catalog
type Cloth struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Status      ClothStatus     `json:"status"`
	EntityType  EntityType      `json:"entity_type"`
	EntityID    int64           `json:"entity_id"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	SubCategory string          `json:"sub_category,omitempty"`
}

// ClothFilter represents catalog list filters
type ClothFilter struct {
	Name          string
	Category      string
	SubCategories []string
	Location      *Location
	Status        ClothStatus
	Page          int
}
