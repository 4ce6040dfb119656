package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PointValue configures the commission unit a variant pays at one membership
// level. A missing (variant, level) pair means that level earns nothing for
// the variant.
type PointValue struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductVariantID  uuid.UUID       `gorm:"column:product_variant_id;type:uuid;not null;uniqueIndex:ux_point_values_variant_level"`
	MembershipLevelID uuid.UUID       `gorm:"column:membership_level_id;type:uuid;not null;uniqueIndex:ux_point_values_variant_level"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	MembershipLevel *MembershipLevel `gorm:"foreignKey:MembershipLevelID"`
}
