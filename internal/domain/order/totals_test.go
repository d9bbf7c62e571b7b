package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/atelier/backoffice/internal/domain/catalog"
)

func TestComputeTotals(t *testing.T) {
	items := Selection{
		{
			Cloth:    catalog.Cloth{ID: 1},
			Quantity: 2,
			Price:    decimal.NewFromInt(150),
			Paid:     decimal.NewFromInt(100),
		},
		{
			Cloth:    catalog.Cloth{ID: 2},
			Quantity: 1,
			Price:    decimal.NewFromInt(80),
			Paid:     decimal.NewFromInt(80),
		},
	}

	totals := ComputeTotals(items)

	assert.True(t, totals.Total.Equal(decimal.NewFromInt(380)), "total should be 2*150 + 80")
	assert.True(t, totals.Paid.Equal(decimal.NewFromInt(180)))
	assert.True(t, totals.Remaining.Equal(decimal.NewFromInt(200)))
}

func TestComputeTotalsEmptySelection(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.Paid.IsZero())
	assert.True(t, totals.Remaining.IsZero())
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	items := Selection{
		{Cloth: catalog.Cloth{ID: 1}, Quantity: 3, Price: decimal.NewFromFloat(99.5), Paid: decimal.NewFromInt(50)},
		{Cloth: catalog.Cloth{ID: 2}, Quantity: 1, Price: decimal.NewFromFloat(20.25)},
	}

	first := ComputeTotals(items)
	second := ComputeTotals(items)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Paid.Equal(second.Paid))
	assert.True(t, first.Remaining.Equal(second.Remaining))
}
