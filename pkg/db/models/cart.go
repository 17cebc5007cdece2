package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the single active cart per account. It is created empty on first
// access, emptied on checkout, and never deleted.
type Cart struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	Items          []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	DeliveryCharge decimal.Decimal `gorm:"column:delivery_charge;type:numeric(12,2);not null;default:0" json:"deliveryCharge"`
	GrandTotal     decimal.Decimal `gorm:"column:grand_total;type:numeric(12,2);not null;default:0" json:"grandTotal"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
