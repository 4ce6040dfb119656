package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
)

// Order is a customer order. PromoCodeID is the referral code attached at
// checkout; completing an order that carries one triggers the comp plan.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID   uuid.UUID         `gorm:"column:account_id;type:uuid;not null;index"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status_enum;not null;default:'draft'"`
	PromoCodeID *uuid.UUID        `gorm:"column:promo_code_id;type:uuid"`
	Total       decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	PromoCode *ReferralCode `gorm:"foreignKey:PromoCodeID"`
	Lines     []OrderLine   `gorm:"foreignKey:OrderID"`
}

// OrderLine captures one variant and quantity within an order.
type OrderLine struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductVariantID uuid.UUID       `gorm:"column:product_variant_id;type:uuid;not null"`
	Quantity         int             `gorm:"column:quantity;not null"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`

	ProductVariant *ProductVariant `gorm:"foreignKey:ProductVariantID"`
}
