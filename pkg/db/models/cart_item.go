package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiffinbox/backend/pkg/types"
)

// CartItem is one line in a cart. UnitPrice is snapshotted when the line is
// first added and never re-read from the catalog. LineTotal is
// Quantity x UnitPrice, excluding addon surcharges which are applied at the
// cart level.
type CartItem struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID    uuid.UUID             `gorm:"column:cart_id;type:uuid;not null;index" json:"-"`
	FoodID    uuid.UUID             `gorm:"column:food_id;type:uuid;not null" json:"foodId"`
	Food      *FoodItem             `gorm:"foreignKey:FoodID" json:"food,omitempty"`
	Quantity  int                   `gorm:"column:quantity;not null;default:1" json:"quantity"`
	UnitPrice decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null" json:"price"`
	LineTotal decimal.Decimal       `gorm:"column:line_total;type:numeric(12,2);not null" json:"total"`
	Addons    *types.AddonSelection `gorm:"column:addons;type:jsonb;serializer:json" json:"selectedAddons,omitempty"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
