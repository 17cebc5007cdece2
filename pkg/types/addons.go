package types

import "github.com/shopspring/decimal"

// AddonOption is a single selectable extra (a dip, beverage or drink) carried
// on a catalog item. Price is the per-unit surcharge.
type AddonOption struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// AddonOptions is the list form stored as a jsonb column.
type AddonOptions []AddonOption

// AddonSelection holds at most one chosen option per facet. Each option is a
// copy of the catalog option at selection time, so later catalog edits never
// change a cart line retroactively.
type AddonSelection struct {
	Dip      *AddonOption `json:"dip,omitempty"`
	Beverage *AddonOption `json:"beverage,omitempty"`
	Drink    *AddonOption `json:"drink,omitempty"`
}

// IsEmpty reports whether no facet is selected.
func (s AddonSelection) IsEmpty() bool {
	return s.Dip == nil && s.Beverage == nil && s.Drink == nil
}

// PerUnitCost sums the selected option prices for one unit of the line item.
func (s AddonSelection) PerUnitCost() decimal.Decimal {
	cost := decimal.Zero
	for _, opt := range []*AddonOption{s.Dip, s.Beverage, s.Drink} {
		if opt != nil {
			cost = cost.Add(opt.Price)
		}
	}
	return cost
}
