package models

import (
	"time"

	"github.com/google/uuid"
)

// ReferralCode is a unique promo code owned by exactly one account. Attaching
// it to an order designates that account as the commission root.
type ReferralCode struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string    `gorm:"column:code;type:text;not null;uniqueIndex"`
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;not null;index"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Account *Account `gorm:"foreignKey:AccountID"`
}
