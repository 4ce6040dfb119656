package cashouts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
)

// Repository manages persistence for cashout methods.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, method *models.CashoutMethod) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CashoutMethod, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.CashoutMethod, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a cashouts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, method *models.CashoutMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CashoutMethod, error) {
	var method models.CashoutMethod
	if err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cashout method not found")
		}
		return nil, err
	}
	return &method, nil
}

func (r *repository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.CashoutMethod, error) {
	var rows []models.CashoutMethod
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.CashoutMethod{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cashout method not found")
	}
	return nil
}
