package models

import (
	"time"

	"github.com/google/uuid"
)

// CommissionRun marks that the comp plan already ran for an order. The unique
// order id is the idempotency key: replaying the completed-order trigger hits
// the constraint instead of double-crediting the upline.
type CommissionRun struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID  `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_commission_runs_order"`
	CreditCount  int        `gorm:"column:credit_count;not null;default:0"`
	SkippedPairs int        `gorm:"column:skipped_pairs;not null;default:0"`
	CreatedByID  *uuid.UUID `gorm:"column:created_by_id;type:uuid"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
