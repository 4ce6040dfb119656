package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/pkg/db"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	IsActive    bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// CreateVariantInput adds a sellable variant to a product.
type CreateVariantInput struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	Price     decimal.Decimal
	IsActive  bool
}

// UpdateVariantInput holds optional mutation values for a variant.
type UpdateVariantInput struct {
	SKU      *string
	Name     *string
	Price    *decimal.Decimal
	IsActive *bool
}

// SetPointValueInput configures the commission a variant pays at one level.
type SetPointValueInput struct {
	VariantID uuid.UUID
	Level     int
	Amount    decimal.Decimal
}

// Service exposes catalog management and the point value table.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	CreateVariant(ctx context.Context, input CreateVariantInput) (*models.ProductVariant, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, input UpdateVariantInput) (*models.ProductVariant, error)
	SetPointValue(ctx context.Context, input SetPointValueInput) (*models.PointValue, error)
	PointValuesFor(ctx context.Context, variantID uuid.UUID) (map[int]models.PointValue, error)
	ListMembershipLevels(ctx context.Context) ([]models.MembershipLevel, error)
}

type service struct {
	repo Repository
}

// NewService constructs a products service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	product := &models.Product{
		Name:        name,
		Description: input.Description,
		IsActive:    input.IsActive,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.FindProduct(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, params)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) CreateVariant(ctx context.Context, input CreateVariantInput) (*models.ProductVariant, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if _, err := s.repo.FindProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	variant := &models.ProductVariant{
		ProductID: input.ProductID,
		SKU:       sku,
		Name:      strings.TrimSpace(input.Name),
		Price:     input.Price.Round(2),
		IsActive:  input.IsActive,
	}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		if db.IsUniqueViolation(err, "product_variants_sku_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a variant with this sku already exists")
		}
		return nil, err
	}
	return variant, nil
}

func (s *service) UpdateVariant(ctx context.Context, id uuid.UUID, input UpdateVariantInput) (*models.ProductVariant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	variant, err := s.repo.FindVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		variant.SKU = sku
	}
	if input.Name != nil {
		variant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		variant.Price = input.Price.Round(2)
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}
	if err := s.repo.UpdateVariant(ctx, variant); err != nil {
		if db.IsUniqueViolation(err, "product_variants_sku_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a variant with this sku already exists")
		}
		return nil, err
	}
	return variant, nil
}

// SetPointValue upserts the amount for a (variant, level) pair.
func (s *service) SetPointValue(ctx context.Context, input SetPointValueInput) (*models.PointValue, error) {
	if input.VariantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "point value cannot be negative")
	}
	if _, err := s.repo.FindVariant(ctx, input.VariantID); err != nil {
		return nil, err
	}
	level, err := s.repo.FindMembershipLevelByNumber(ctx, input.Level)
	if err != nil {
		return nil, err
	}

	pv := &models.PointValue{
		ProductVariantID:  input.VariantID,
		MembershipLevelID: level.ID,
		Amount:            input.Amount.Round(2),
	}
	if err := s.repo.UpsertPointValue(ctx, pv); err != nil {
		return nil, err
	}
	return pv, nil
}

// PointValuesFor returns the variant's configured amounts keyed by membership
// level number. Levels with no row are absent from the map.
func (s *service) PointValuesFor(ctx context.Context, variantID uuid.UUID) (map[int]models.PointValue, error) {
	if variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	rows, err := s.repo.ListPointValues(ctx, variantID)
	if err != nil {
		return nil, err
	}
	out := make(map[int]models.PointValue, len(rows))
	for _, row := range rows {
		if row.MembershipLevel == nil {
			continue
		}
		out[row.MembershipLevel.Level] = row
	}
	return out, nil
}

func (s *service) ListMembershipLevels(ctx context.Context) ([]models.MembershipLevel, error) {
	return s.repo.ListMembershipLevels(ctx)
}
