package cart

import (
	"github.com/shopspring/decimal"

	"github.com/tiffinbox/backend/pkg/db/models"
)

// computeGrandTotal sums the cart lines plus their per-unit addon surcharges
// and adds the delivery charge. The delivery charge is the baseline of an
// empty cart, so an emptied cart never totals below it.
func computeGrandTotal(items []models.CartItem, deliveryCharge decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
		if item.Addons != nil {
			qty := decimal.NewFromInt(int64(item.Quantity))
			total = total.Add(item.Addons.PerUnitCost().Mul(qty))
		}
	}
	return total.Add(deliveryCharge)
}
