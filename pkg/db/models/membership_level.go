package models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipLevel is an ordered tier. Level 1 is the closest referrer in the
// comp plan numbering; point values are configured per level.
type MembershipLevel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Level     int       `gorm:"column:level;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
