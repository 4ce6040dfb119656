package commission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
)

// RunRepository persists commission run markers.
type RunRepository interface {
	Insert(ctx context.Context, tx *gorm.DB, run *models.CommissionRun) error
	UpdateCounts(ctx context.Context, tx *gorm.DB, id uuid.UUID, credits, skipped int) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.CommissionRun, error)
}

type runRepository struct {
	db *gorm.DB
}

// NewRunRepository returns a run repository bound to the provided database.
func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Insert(ctx context.Context, tx *gorm.DB, run *models.CommissionRun) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.WithContext(ctx).Create(run).Error
}

func (r *runRepository) UpdateCounts(ctx context.Context, tx *gorm.DB, id uuid.UUID, credits, skipped int) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.WithContext(ctx).
		Model(&models.CommissionRun{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"credit_count":  credits,
			"skipped_pairs": skipped,
		}).Error
}

func (r *runRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.CommissionRun, error) {
	var run models.CommissionRun
	if err := r.db.WithContext(ctx).First(&run, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "commission run not found")
		}
		return nil, err
	}
	return &run, nil
}
