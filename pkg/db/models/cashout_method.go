package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
)

// CashoutMethod is a payout destination owned by an account. Only a masked
// detail is stored; the full destination lives with the payment processor.
type CashoutMethod struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID    uuid.UUID               `gorm:"column:account_id;type:uuid;not null;index"`
	Kind         enums.CashoutMethodKind `gorm:"column:kind;type:cashout_method_kind_enum;not null"`
	MaskedDetail string                  `gorm:"column:masked_detail;type:text;not null"`
	IsActive     bool                    `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
}
