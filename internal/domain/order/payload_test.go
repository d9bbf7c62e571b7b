package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/domain/client"
)

func TestDiscountApplies(t *testing.T) {
	tests := []struct {
		name     string
		discount Discount
		want     bool
	}{
		{"none type", Discount{Type: DiscountNone, Value: decimal.NewFromInt(10)}, false},
		{"zero value", Discount{Type: DiscountFixed, Value: decimal.Zero}, false},
		{"negative value", Discount{Type: DiscountPercentage, Value: decimal.NewFromInt(-5)}, false},
		{"empty type", Discount{Value: decimal.NewFromInt(10)}, false},
		{"fixed positive", Discount{Type: DiscountFixed, Value: decimal.NewFromInt(25)}, true},
		{"percentage positive", Discount{Type: DiscountPercentage, Value: decimal.NewFromInt(10)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.discount.Applies())
		})
	}
}

func TestBuildItemPayloadRentFields(t *testing.T) {
	occasion := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	delivery := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	rentItem := SelectedItem{
		Cloth:      catalog.Cloth{ID: 9, Code: "C100"},
		Quantity:   1,
		Price:      decimal.NewFromInt(200),
		Type:       ItemTypeRent,
		DaysOfRent: 3,
	}

	payload := BuildItemPayload(rentItem, &occasion, &delivery)

	assert.Equal(t, int64(9), payload["cloth_id"])
	assert.Equal(t, "rent", payload["type"])
	assert.Equal(t, 3, payload["days_of_rent"])
	assert.Equal(t, "2025-01-05 00:00:00", payload["occasion_datetime"])
	assert.Equal(t, "2025-01-10 00:00:00", payload["delivery_date"])
}

func TestBuildItemPayloadRentFieldsOnlyForRent(t *testing.T) {
	occasion := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	for _, typ := range []ItemType{ItemTypeBuy, ItemTypeTailoring} {
		item := SelectedItem{
			Cloth:      catalog.Cloth{ID: 3},
			Quantity:   1,
			Price:      decimal.NewFromInt(100),
			Type:       typ,
			DaysOfRent: 5,
		}

		payload := BuildItemPayload(item, &occasion, nil)

		assert.NotContains(t, payload, "days_of_rent", "type %s must not carry rent fields", typ)
		assert.NotContains(t, payload, "occasion_datetime")
		assert.NotContains(t, payload, "delivery_date")
	}
}

func TestBuildItemPayloadRentWithoutOccasion(t *testing.T) {
	item := SelectedItem{
		Cloth:      catalog.Cloth{ID: 3},
		Quantity:   1,
		Price:      decimal.NewFromInt(100),
		Type:       ItemTypeRent,
		DaysOfRent: 2,
	}

	payload := BuildItemPayload(item, nil, nil)

	assert.NotContains(t, payload, "days_of_rent")
	assert.NotContains(t, payload, "occasion_datetime")
}

func TestBuildItemPayloadDiscountPresence(t *testing.T) {
	base := SelectedItem{
		Cloth:    catalog.Cloth{ID: 4},
		Quantity: 1,
		Price:    decimal.NewFromInt(100),
		Type:     ItemTypeBuy,
	}

	withDiscount := base
	withDiscount.Discount = Discount{Type: DiscountPercentage, Value: decimal.NewFromInt(10)}
	payload := BuildItemPayload(withDiscount, nil, nil)
	assert.Equal(t, "percentage", payload["discount_type"])

	noDiscount := base
	noDiscount.Discount = Discount{Type: DiscountNone, Value: decimal.NewFromInt(10)}
	payload = BuildItemPayload(noDiscount, nil, nil)
	assert.NotContains(t, payload, "discount_type")
	assert.NotContains(t, payload, "discount_value")
}

func TestBuildItemPayloadMeasurements(t *testing.T) {
	item := SelectedItem{
		Cloth:    catalog.Cloth{ID: 5},
		Quantity: 1,
		Price:    decimal.NewFromInt(100),
		Type:     ItemTypeTailoring,
		Measurements: &Measurements{
			Waist:     "80",
			DressSize: "M",
		},
	}

	payload := BuildItemPayload(item, nil, nil)

	assert.Equal(t, "80", payload["waist"])
	assert.Equal(t, "M", payload["dress_size"])
	assert.NotContains(t, payload, "hip", "empty measurement fields stay out of the payload")

	item.Measurements = nil
	payload = BuildItemPayload(item, nil, nil)
	assert.NotContains(t, payload, "waist")
}

func TestBuildItemPayloadNotes(t *testing.T) {
	item := SelectedItem{
		Cloth:    catalog.Cloth{ID: 6},
		Quantity: 1,
		Price:    decimal.NewFromInt(50),
		Type:     ItemTypeBuy,
		Notes:    "  hem shortened  ",
	}

	payload := BuildItemPayload(item, nil, nil)
	assert.Equal(t, "hem shortened", payload["notes"])

	item.Notes = "   "
	payload = BuildItemPayload(item, nil, nil)
	assert.NotContains(t, payload, "notes")
}

func TestBuildOrderPayloadExistingClientScenario(t *testing.T) {
	occasion := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	visit := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	delivery := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	sub := Submission{
		ExistingClient: true,
		ClientID:       42,
		Location:       catalog.Location{EntityType: catalog.EntityTypeBranch, EntityID: 3},
		EmployeeID:     7,
		DeliveryDate:   &delivery,
		VisitDate:      &visit,
		OccasionDate:   &occasion,
		Items: Selection{
			{
				Cloth:      catalog.Cloth{ID: 11, Code: "C100"},
				Quantity:   1,
				Price:      decimal.NewFromInt(200),
				Type:       ItemTypeRent,
				DaysOfRent: 3,
			},
		},
	}

	payload := BuildOrderPayload(sub, time.Now)

	assert.Equal(t, true, payload["existing_client"])
	assert.Equal(t, int64(42), payload["client_id"])
	assert.NotContains(t, payload, "client")
	assert.Equal(t, "branch", payload["entity_type"])
	assert.Equal(t, int64(3), payload["entity_id"])
	assert.Equal(t, int64(7), payload["employee_id"])
	assert.Equal(t, "2025-01-10 00:00:00", payload["delivery_date"])
	assert.Equal(t, "2025-01-01 00:00:00", payload["visit_datetime"])
	assert.Equal(t, "2025-01-05 00:00:00", payload["occasion_datetime"])

	items, ok := payload["items"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, int64(11), items[0]["cloth_id"])
	assert.Equal(t, 3, items[0]["days_of_rent"])
	assert.Equal(t, "2025-01-05 00:00:00", items[0]["occasion_datetime"])
}

func TestBuildOrderPayloadNewClient(t *testing.T) {
	delivery := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	sub := Submission{
		ExistingClient: false,
		NewClient: &client.Form{
			Name:        "Mona Hassan",
			NationalID:  "29805211234567",
			Source:      client.SourceReferral,
			CityID:      2,
			Address:     "12 Nile St",
			Phone:       "01001234567",
			SecondPhone: "01117654321",
		},
		Location:     catalog.Location{EntityType: catalog.EntityTypeWorkshop, EntityID: 5},
		EmployeeID:   2,
		DeliveryDate: &delivery,
		Items: Selection{
			{Cloth: catalog.Cloth{ID: 20}, Quantity: 1, Price: decimal.NewFromInt(500), Type: ItemTypeTailoring, Notes: "taffeta"},
			{Cloth: catalog.Cloth{ID: 21}, Quantity: 2, Price: decimal.NewFromInt(100), Type: ItemTypeBuy, Notes: "satin lining"},
		},
	}

	payload := BuildOrderPayload(sub, time.Now)

	assert.Equal(t, false, payload["existing_client"])
	assert.NotContains(t, payload, "client_id")
	assert.Equal(t, "taffeta - satin lining", payload["order_notes"])

	clientPayload, ok := payload["client"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Mona Hassan", clientPayload["name"])
	assert.Equal(t, "29805211234567", clientPayload["national_id"])

	phones, ok := clientPayload["phones"].([]client.Phone)
	require.True(t, ok)
	require.Len(t, phones, 2)
	assert.Equal(t, client.PhoneTypeMobile, phones[0].Type)
	assert.Equal(t, client.PhoneTypeWhatsApp, phones[1].Type)
}

func TestBuildOrderPayloadDeliveryDateDefaultsToNow(t *testing.T) {
	fixed := time.Date(2025, 3, 4, 12, 30, 0, 0, time.UTC)

	sub := Submission{
		ExistingClient: true,
		ClientID:       1,
		Location:       catalog.Location{EntityType: catalog.EntityTypeBranch, EntityID: 1},
		EmployeeID:     1,
	}

	payload := BuildOrderPayload(sub, func() time.Time { return fixed })

	assert.Equal(t, "2025-03-04 12:30:00", payload["delivery_date"])
}

func TestBuildOrderPayloadOmitsEmptyOptionals(t *testing.T) {
	sub := Submission{
		ExistingClient: true,
		ClientID:       1,
		Location:       catalog.Location{EntityType: catalog.EntityTypeBranch, EntityID: 1},
		EmployeeID:     1,
		OrderDiscount:  Discount{Type: DiscountNone, Value: decimal.NewFromInt(50)},
	}

	payload := BuildOrderPayload(sub, time.Now)

	assert.NotContains(t, payload, "visit_datetime")
	assert.NotContains(t, payload, "occasion_datetime")
	assert.NotContains(t, payload, "discount_type")
	assert.NotContains(t, payload, "order_notes")
}
