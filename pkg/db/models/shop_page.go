package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
)

// ShopPage is a CMS-built storefront page addressed by slug.
type ShopPage struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string     `gorm:"column:slug;type:text;not null;uniqueIndex"`
	Title       string     `gorm:"column:title;type:text;not null"`
	IsPublished bool       `gorm:"column:is_published;not null;default:false"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Sections []ShopPageSection `gorm:"foreignKey:PageID"`
}

// ShopPageSection is one ordered widget on a page; Payload holds the
// kind-specific configuration as JSON.
type ShopPageSection struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PageID    uuid.UUID             `gorm:"column:page_id;type:uuid;not null;index"`
	Kind      enums.ShopSectionKind `gorm:"column:kind;type:shop_section_kind_enum;not null"`
	Position  int                   `gorm:"column:position;not null"`
	Payload   json.RawMessage       `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
