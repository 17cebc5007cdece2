package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a frozen copy of a cart line at checkout time. Title and
// prices are captured so later catalog edits never alter historical orders.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"-"`
	FoodID    *uuid.UUID      `gorm:"column:food_id;type:uuid" json:"foodId,omitempty"`
	Title     string          `gorm:"column:title;not null" json:"title"`
	Quantity  int             `gorm:"column:quantity;not null" json:"qty"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"price"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null" json:"total"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
