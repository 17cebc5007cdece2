package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiffinbox/backend/pkg/enums"
	"github.com/tiffinbox/backend/pkg/types"
)

// Order is an immutable snapshot produced at checkout. Only status,
// payment status, and partner assignment change afterwards.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber   string              `gorm:"column:order_number;not null;uniqueIndex" json:"orderNumber"`
	UserID        *uuid.UUID          `gorm:"column:user_id;type:uuid" json:"userId,omitempty"`
	User          *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Customer      types.Customer      `gorm:"column:customer;type:jsonb;serializer:json" json:"customer"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null;default:'COD'" json:"paymentMethod"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'" json:"paymentStatus"`
	Status        enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'placed'" json:"status"`
	AssignedToID  *uuid.UUID          `gorm:"column:assigned_to;type:uuid" json:"assignedToId,omitempty"`
	AssignedTo    *Partner            `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
