package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
)

// BucketRow is one time bucket of summed ledger amounts.
type BucketRow struct {
	Bucket time.Time       `gorm:"column:bucket"`
	Total  decimal.Decimal `gorm:"column:total"`
}

// ReferrerRow ranks an account by commission credited to it.
type ReferrerRow struct {
	AccountID   uuid.UUID       `gorm:"column:account_id"`
	CreditCount int64           `gorm:"column:credit_count"`
	Total       decimal.Decimal `gorm:"column:total"`
}

// LevelRow sums commission credited at one membership level.
type LevelRow struct {
	Level int             `gorm:"column:level"`
	Total decimal.Decimal `gorm:"column:total"`
}

// Repository runs the aggregation queries behind reports.
type Repository interface {
	SumByBucket(ctx context.Context, wallet enums.Wallet, trunc string, from, to time.Time) ([]BucketRow, error)
	TopReferrers(ctx context.Context, from, to time.Time, limit int) ([]ReferrerRow, error)
	TotalsByLevel(ctx context.Context, from, to time.Time) ([]LevelRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SumByBucket(ctx context.Context, wallet enums.Wallet, trunc string, from, to time.Time) ([]BucketRow, error) {
	var rows []BucketRow
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("date_trunc(?, created_at) AS bucket, COALESCE(SUM(amount), 0) AS total", trunc).
		Where("wallet = ? AND status = ?", wallet, enums.ActivityStatusDone).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("bucket").
		Order("bucket ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TopReferrers(ctx context.Context, from, to time.Time, limit int) ([]ReferrerRow, error) {
	var rows []ReferrerRow
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("account_id, COUNT(*) AS credit_count, COALESCE(SUM(amount), 0) AS total").
		Where("type = ? AND status = ?", enums.ActivityTypeReferralLinkUsage, enums.ActivityStatusDone).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("account_id").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TotalsByLevel(ctx context.Context, from, to time.Time) ([]LevelRow, error) {
	var rows []LevelRow
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("membership_levels.level AS level, COALESCE(SUM(activities.amount), 0) AS total").
		Joins("JOIN membership_levels ON membership_levels.id = activities.membership_level_id").
		Where("activities.type = ? AND activities.status = ?", enums.ActivityTypeReferralLinkUsage, enums.ActivityStatusDone).
		Where("activities.created_at >= ? AND activities.created_at < ?", from, to).
		Group("membership_levels.level").
		Order("membership_levels.level ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
