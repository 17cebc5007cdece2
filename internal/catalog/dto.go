package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/tiffinbox/backend/pkg/types"
)

// CreateItemInput carries the fields accepted when creating a catalog item.
// Images are the public paths returned by the upload store.
type CreateItemInput struct {
	Title           string
	Description     string
	Price           decimal.Decimal
	DiscountPercent int
	StockQty        int
	Images          []string
	Dips            types.AddonOptions
	Beverages       types.AddonOptions
	Drinks          types.AddonOptions
	Nutrition       *types.Nutrition
}

// UpdateItemInput is a partial update; nil fields are left untouched.
type UpdateItemInput struct {
	Title           *string
	Description     *string
	Price           *decimal.Decimal
	DiscountPercent *int
	StockQty        *int
	Images          []string
	Dips            *types.AddonOptions
	Beverages       *types.AddonOptions
	Drinks          *types.AddonOptions
	Nutrition       *types.Nutrition
}
