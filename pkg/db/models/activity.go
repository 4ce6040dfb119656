package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
)

// Activity is an immutable wallet ledger entry. Rows are inserted and never
// updated except for the pending → done/rejected status flip on cashouts;
// balances are always derived by summing, never cached.
type Activity struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID         uuid.UUID            `gorm:"column:account_id;type:uuid;not null;index"`
	Type              enums.ActivityType   `gorm:"column:type;type:activity_type_enum;not null"`
	Amount            decimal.Decimal      `gorm:"column:amount;type:numeric(12,2);not null"`
	Wallet            enums.Wallet         `gorm:"column:wallet;type:wallet_enum;not null"`
	Status            enums.ActivityStatus `gorm:"column:status;type:activity_status_enum;not null"`
	MembershipLevelID *uuid.UUID           `gorm:"column:membership_level_id;type:uuid"`
	ProductVariantID  *uuid.UUID           `gorm:"column:product_variant_id;type:uuid"`
	ReferenceKind     enums.ReferenceKind  `gorm:"column:reference_kind;type:reference_kind_enum;not null"`
	ReferenceID       uuid.UUID            `gorm:"column:reference_id;type:uuid;not null;index"`
	CreatedByID       *uuid.UUID           `gorm:"column:created_by_id;type:uuid"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
