package order

import (
	"strings"
	"time"

	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/domain/client"
)

// DateTimeLayout is the wire format for every datetime in order payloads
const DateTimeLayout = "2006-01-02 15:04:05"

// PayloadBuilder accumulates required and optional fields separately, so the
// inclusion rule for each optional field stays visible at the call site. An
// optional field is only merged into the final payload when its guard held.
type PayloadBuilder struct {
	required map[string]any
	optional map[string]any
}

// NewPayloadBuilder creates an empty builder
func NewPayloadBuilder() *PayloadBuilder {
	return &PayloadBuilder{
		required: make(map[string]any),
		optional: make(map[string]any),
	}
}

// Require sets a field that is always transmitted
func (b *PayloadBuilder) Require(key string, value any) *PayloadBuilder {
	b.required[key] = value
	return b
}

// Optional sets a field that is transmitted only when include is true
func (b *PayloadBuilder) Optional(key string, value any, include bool) *PayloadBuilder {
	if include {
		b.optional[key] = value
	}
	return b
}

// Build merges the optional fields into the required ones
func (b *PayloadBuilder) Build() map[string]any {
	out := make(map[string]any, len(b.required)+len(b.optional))
	for k, v := range b.required {
		out[k] = v
	}
	for k, v := range b.optional {
		out[k] = v
	}
	return out
}

// Submission carries everything the workflow has gathered for one order
type Submission struct {
	ExistingClient bool
	ClientID       int64
	NewClient      *client.Form
	Location       catalog.Location
	EmployeeID     int64
	DeliveryDate   *time.Time
	VisitDate      *time.Time
	OccasionDate   *time.Time
	OrderDiscount  Discount
	Items          Selection
}

// BuildItemPayload assembles the wire form of one selected item. Rent
// fields only appear for rent items when an order-level occasion date
// exists; discount fields only when the discount applies; measurement
// fields only when the item carries a record, and then only the non-empty
// ones.
func BuildItemPayload(item SelectedItem, occasion, orderDelivery *time.Time) map[string]any {
	b := NewPayloadBuilder().
		Require("cloth_id", item.Cloth.ID).
		Require("price", item.Price).
		Require("quantity", item.Quantity).
		Require("paid", item.Paid).
		Require("type", item.Type.String())

	notes := strings.TrimSpace(item.Notes)
	b.Optional("notes", notes, notes != "")

	b.Optional("discount_type", item.Discount.Type.String(), item.Discount.Applies())
	b.Optional("discount_value", item.Discount.Value, item.Discount.Applies())

	if item.Type == ItemTypeRent && occasion != nil {
		b.Optional("occasion_datetime", occasion.Format(DateTimeLayout), true)
		b.Optional("days_of_rent", item.DaysOfRent, true)
		delivery := orderDelivery
		if item.DeliveryDate != nil {
			delivery = item.DeliveryDate
		}
		if delivery != nil {
			b.Optional("delivery_date", delivery.Format(DateTimeLayout), true)
		}
	}

	if item.Measurements != nil {
		for key, value := range item.Measurements.Fields() {
			b.Optional(key, value, true)
		}
	}

	return b.Build()
}

// BuildOrderPayload assembles the full create-order request body. The two
// client modes produce distinct shapes sharing the same order fields.
// A missing delivery date falls back to now.
func BuildOrderPayload(s Submission, now func() time.Time) map[string]any {
	delivery := s.DeliveryDate
	if delivery == nil {
		t := now()
		delivery = &t
	}

	b := NewPayloadBuilder().
		Require("existing_client", s.ExistingClient).
		Require("entity_type", s.Location.EntityType.String()).
		Require("entity_id", s.Location.EntityID).
		Require("employee_id", s.EmployeeID).
		Require("delivery_date", delivery.Format(DateTimeLayout))

	if s.ExistingClient {
		b.Require("client_id", s.ClientID)
	} else {
		b.Require("client", s.NewClient.Payload())
	}

	b.Optional("visit_datetime", formatOptional(s.VisitDate), s.VisitDate != nil)
	b.Optional("occasion_datetime", formatOptional(s.OccasionDate), s.OccasionDate != nil)

	b.Optional("discount_type", s.OrderDiscount.Type.String(), s.OrderDiscount.Applies())
	b.Optional("discount_value", s.OrderDiscount.Value, s.OrderDiscount.Applies())

	notes := joinItemNotes(s.Items)
	b.Optional("order_notes", notes, notes != "")

	items := make([]map[string]any, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, BuildItemPayload(item, s.OccasionDate, delivery))
	}
	b.Require("items", items)

	return b.Build()
}

// joinItemNotes concatenates the non-empty item notes with " - "
func joinItemNotes(items Selection) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if n := strings.TrimSpace(item.Notes); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " - ")
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateTimeLayout)
}
