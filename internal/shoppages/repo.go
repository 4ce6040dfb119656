package shoppages

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
)

// Repository persists shop pages and their ordered sections.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePage(ctx context.Context, page *models.ShopPage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShopPage, error)
	FindBySlug(ctx context.Context, slug string) (*models.ShopPage, error)
	List(ctx context.Context) ([]models.ShopPage, error)
	UpdatePage(ctx context.Context, page *models.ShopPage) error
	ReplaceSections(ctx context.Context, pageID uuid.UUID, sections []models.ShopPageSection) error
	DeletePage(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a shop page repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreatePage(ctx context.Context, page *models.ShopPage) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShopPage, error) {
	var page models.ShopPage
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&page, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop page not found")
		}
		return nil, err
	}
	return &page, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.ShopPage, error) {
	var page models.ShopPage
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&page, "slug = ?", slug).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop page not found")
		}
		return nil, err
	}
	return &page, nil
}

func (r *repository) List(ctx context.Context) ([]models.ShopPage, error) {
	var pages []models.ShopPage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *repository) UpdatePage(ctx context.Context, page *models.ShopPage) error {
	return r.db.WithContext(ctx).Save(page).Error
}

// ReplaceSections swaps a page's section list wholesale. Callers run it inside
// a transaction so a failed insert cannot leave the page sectionless.
func (r *repository) ReplaceSections(ctx context.Context, pageID uuid.UUID, sections []models.ShopPageSection) error {
	if err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Delete(&models.ShopPageSection{}).Error; err != nil {
		return err
	}
	if len(sections) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&sections).Error
}

func (r *repository) DeletePage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ShopPage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shop page not found")
	}
	return nil
}
