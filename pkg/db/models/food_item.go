package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/tiffinbox/backend/pkg/types"
)

// FoodItem is a catalog entry. InStock is a cached derivation of
// StockQty > 0 and is recomputed on every stock mutation.
type FoodItem struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title           string             `gorm:"column:title;not null" json:"title"`
	Description     string             `gorm:"column:description" json:"description"`
	Image           string             `gorm:"column:image" json:"image"`
	Images          pq.StringArray     `gorm:"column:images;type:text[]" json:"images"`
	Price           decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	DiscountPercent int                `gorm:"column:discount_percent;not null;default:0" json:"discount"`
	InStock         bool               `gorm:"column:in_stock;not null;default:false" json:"inStock"`
	StockQty        int                `gorm:"column:stock_qty;not null;default:0" json:"stockQty"`
	Dips            types.AddonOptions `gorm:"column:dips;type:jsonb;serializer:json" json:"dips"`
	Beverages       types.AddonOptions `gorm:"column:beverages;type:jsonb;serializer:json" json:"beverages"`
	Drinks          types.AddonOptions `gorm:"column:drinks;type:jsonb;serializer:json" json:"drinks"`
	Nutrition       *types.Nutrition   `gorm:"column:nutrition;type:jsonb;serializer:json" json:"nutrition,omitempty"`
	CreatedBy       *uuid.UUID         `gorm:"column:created_by;type:uuid" json:"createdBy,omitempty"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// OptionsForFacet returns the catalog option list backing one addon facet.
func (f *FoodItem) OptionsForFacet(facet string) types.AddonOptions {
	switch facet {
	case "dip":
		return f.Dips
	case "beverage":
		return f.Beverages
	case "drink":
		return f.Drinks
	}
	return nil
}
