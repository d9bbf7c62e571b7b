package order

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/domain/order"
	"github.com/atelier/backoffice/internal/domain/shared"
)

// ItemForm is the detail form for the cloth currently being configured.
// Numeric fields hold raw input text and are parsed when the item is added,
// so a half-typed value never corrupts the selection.
type ItemForm struct {
	Cloth        catalog.Cloth
	Quantity     string
	Price        string
	Paid         string
	Type         order.ItemType
	DaysOfRent   string
	Discount     order.Discount
	Notes        string
	Measurements order.Measurements
}

// newItemForm seeds the form from a catalog selection: base price carried
// over, quantity one, rent by default.
func newItemForm(cloth catalog.Cloth) *ItemForm {
	return &ItemForm{
		Cloth:    cloth,
		Quantity: "1",
		Price:    cloth.Price.String(),
		Type:     order.ItemTypeRent,
	}
}

// build parses the form into a selected item
func (f *ItemForm) build() (order.SelectedItem, error) {
	var item order.SelectedItem

	price := strings.TrimSpace(f.Price)
	if price == "" {
		return item, shared.ErrPriceRequired
	}
	priceValue, err := decimal.NewFromString(price)
	if err != nil {
		return item, shared.NewDomainError("INVALID_PRICE", "Price must be a number")
	}

	quantity, err := parseDigits(f.Quantity, 1)
	if err != nil {
		return item, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a whole number")
	}

	paid := decimal.Zero
	if p := strings.TrimSpace(f.Paid); p != "" {
		paid, err = decimal.NewFromString(p)
		if err != nil {
			return item, shared.NewDomainError("INVALID_PAID", "Paid amount must be a number")
		}
	}

	days := 0
	if f.Type == order.ItemTypeRent {
		days, err = parseDigits(f.DaysOfRent, 0)
		if err != nil {
			return item, shared.NewDomainError("INVALID_DAYS", "Days of rent must be a whole number")
		}
	}

	item = order.SelectedItem{
		Cloth:      f.Cloth,
		Quantity:   quantity,
		Price:      priceValue,
		Paid:       paid,
		Type:       f.Type,
		DaysOfRent: days,
		Discount:   f.Discount,
		Notes:      strings.TrimSpace(f.Notes),
	}
	if !f.Measurements.IsEmpty() {
		m := f.Measurements
		item.Measurements = &m
	}
	return item, nil
}

// parseDigits accepts digit-only input, falling back to def when empty
func parseDigits(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(raw)
}
