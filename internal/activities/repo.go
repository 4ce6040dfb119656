package activities

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

// Repository manages persistence for the activity ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, activity *models.Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]models.Activity, error)
	ListByReference(ctx context.Context, kind enums.ReferenceKind, referenceID uuid.UUID) ([]models.Activity, error)
	SumByWallet(ctx context.Context, accountID uuid.UUID, wallet enums.Wallet, statuses []enums.ActivityStatus) (decimal.Decimal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ActivityStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an activities repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
		}
		return nil, err
	}
	return &activity, nil
}

func (r *repository) ListByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]models.Activity, error) {
	query := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Activity
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByReference(ctx context.Context, kind enums.ReferenceKind, referenceID uuid.UUID) ([]models.Activity, error) {
	var rows []models.Activity
	if err := r.db.WithContext(ctx).
		Where("reference_kind = ? AND reference_id = ?", kind, referenceID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) SumByWallet(ctx context.Context, accountID uuid.UUID, wallet enums.Wallet, statuses []enums.ActivityStatus) (decimal.Decimal, error) {
	var raw string
	query := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ? AND wallet = ?", accountID, wallet)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	sum, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ActivityStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
	}
	return nil
}
