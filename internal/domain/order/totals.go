package order

import "github.com/shopspring/decimal"

// Totals summarizes the running amounts for a selection
type Totals struct {
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ComputeTotals derives the running totals from the selection. It is a pure
// function: nothing is cached and repeated calls over the same selection
// yield identical values.
func ComputeTotals(items Selection) Totals {
	total := decimal.Zero
	paid := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount())
		paid = paid.Add(item.Paid)
	}
	return Totals{
		Total:     total,
		Paid:      paid,
		Remaining: total.Sub(paid),
	}
}
