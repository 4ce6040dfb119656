package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a customer/member. ReferrerID forms a forest: the account
// whose code referred this one, set at registration. Write paths must keep the
// graph acyclic; readers still bound their walks.
type Account struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberNumber      string     `gorm:"column:member_number;type:text;not null;uniqueIndex"`
	Email             string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	FirstName         string     `gorm:"column:first_name;not null"`
	LastName          string     `gorm:"column:last_name;not null"`
	MembershipLevelID *uuid.UUID `gorm:"column:membership_level_id;type:uuid"`
	ReferrerID        *uuid.UUID `gorm:"column:referrer_id;type:uuid;index"`
	IsActive          bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
