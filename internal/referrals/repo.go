package referrals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
)

// Repository manages persistence for referral codes and upline reads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCode(ctx context.Context, code *models.ReferralCode) error
	FindCodeByID(ctx context.Context, id uuid.UUID) (*models.ReferralCode, error)
	FindCodeByValue(ctx context.Context, code string) (*models.ReferralCode, error)
	ListCodesByAccount(ctx context.Context, accountID uuid.UUID) ([]models.ReferralCode, error)
	DeactivateCode(ctx context.Context, id uuid.UUID) error
	FindAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a referrals repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCode(ctx context.Context, code *models.ReferralCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *repository) FindCodeByID(ctx context.Context, id uuid.UUID) (*models.ReferralCode, error) {
	var code models.ReferralCode
	if err := r.db.WithContext(ctx).First(&code, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "referral code not found")
		}
		return nil, err
	}
	return &code, nil
}

func (r *repository) FindCodeByValue(ctx context.Context, value string) (*models.ReferralCode, error) {
	var code models.ReferralCode
	if err := r.db.WithContext(ctx).First(&code, "code = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "referral code not found")
		}
		return nil, err
	}
	return &code, nil
}

func (r *repository) ListCodesByAccount(ctx context.Context, accountID uuid.UUID) ([]models.ReferralCode, error) {
	var codes []models.ReferralCode
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *repository) DeactivateCode(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReferralCode{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "referral code not found")
	}
	return nil
}

func (r *repository) FindAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, err
	}
	return &account, nil
}
