package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiffinbox/backend/pkg/enums"
)

// User is an account keyed by phone number. Accounts are created on the
// first successful passcode verification and never deleted.
type User struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Phone      string         `gorm:"column:phone;not null;uniqueIndex" json:"phone"`
	Name       string         `gorm:"column:name" json:"name"`
	Role       enums.UserRole `gorm:"column:role;type:user_role;not null;default:'seller'" json:"role"`
	IsVerified bool           `gorm:"column:is_verified;not null;default:false" json:"isVerified"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
