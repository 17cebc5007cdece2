package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiffinbox/backend/pkg/enums"
)

// Partner is a delivery courier referenced, never owned, by orders.
type Partner struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string              `gorm:"column:name" json:"name"`
	Phone     string              `gorm:"column:phone;not null;uniqueIndex" json:"phone"`
	Vehicle   string              `gorm:"column:vehicle" json:"vehicle"`
	Status    enums.PartnerStatus `gorm:"column:status;type:partner_status;not null;default:'active'" json:"status"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
