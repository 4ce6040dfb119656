package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

type fakeRepo struct {
	products map[uuid.UUID]*models.Product
	variants map[uuid.UUID]*models.ProductVariant
	levels   map[int]*models.MembershipLevel
	points   map[uuid.UUID][]models.PointValue
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: map[uuid.UUID]*models.Product{},
		variants: map[uuid.UUID]*models.ProductVariant{},
		levels:   map[int]*models.MembershipLevel{},
		points:   map[uuid.UUID][]models.PointValue{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New()
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepo) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (f *fakeRepo) ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepo) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	variant.ID = uuid.New()
	f.variants[variant.ID] = variant
	return nil
}

func (f *fakeRepo) FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	if v, ok := f.variants[id]; ok {
		return v, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
}

func (f *fakeRepo) UpdateVariant(ctx context.Context, variant *models.ProductVariant) error {
	f.variants[variant.ID] = variant
	return nil
}

func (f *fakeRepo) UpsertPointValue(ctx context.Context, pv *models.PointValue) error {
	rows := f.points[pv.ProductVariantID]
	for i, row := range rows {
		if row.MembershipLevelID == pv.MembershipLevelID {
			rows[i].Amount = pv.Amount
			return nil
		}
	}
	pv.ID = uuid.New()
	for _, level := range f.levels {
		if level.ID == pv.MembershipLevelID {
			pv.MembershipLevel = level
		}
	}
	f.points[pv.ProductVariantID] = append(rows, *pv)
	return nil
}

func (f *fakeRepo) ListPointValues(ctx context.Context, variantID uuid.UUID) ([]models.PointValue, error) {
	return f.points[variantID], nil
}

func (f *fakeRepo) FindMembershipLevelByNumber(ctx context.Context, level int) (*models.MembershipLevel, error) {
	if l, ok := f.levels[level]; ok {
		return l, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership level not found")
}

func (f *fakeRepo) ListMembershipLevels(ctx context.Context) ([]models.MembershipLevel, error) {
	var out []models.MembershipLevel
	for _, l := range f.levels {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeRepo) addLevel(number int) *models.MembershipLevel {
	l := &models.MembershipLevel{ID: uuid.New(), Level: number}
	f.levels[number] = l
	return l
}

func (f *fakeRepo) addVariant() *models.ProductVariant {
	v := &models.ProductVariant{ID: uuid.New(), SKU: "SKU-1", IsActive: true}
	f.variants[v.ID] = v
	return v
}

func TestSetPointValueNormalizesAndKeysByLevel(t *testing.T) {
	repo := newFakeRepo()
	repo.addLevel(1)
	repo.addLevel(2)
	variant := repo.addVariant()

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.SetPointValue(context.Background(), SetPointValueInput{
		VariantID: variant.ID,
		Level:     1,
		Amount:    decimal.RequireFromString("5.005"),
	}); err != nil {
		t.Fatalf("SetPointValue: %v", err)
	}

	pvs, err := svc.PointValuesFor(context.Background(), variant.ID)
	if err != nil {
		t.Fatalf("PointValuesFor: %v", err)
	}
	pv, ok := pvs[1]
	if !ok {
		t.Fatal("level 1 point value missing")
	}
	if pv.Amount.String() != "5.01" {
		t.Fatalf("amount = %s, want 5.01", pv.Amount)
	}
	if _, ok := pvs[2]; ok {
		t.Fatal("level 2 must be absent when unconfigured")
	}
}

func TestSetPointValueUpserts(t *testing.T) {
	repo := newFakeRepo()
	repo.addLevel(1)
	variant := repo.addVariant()

	svc, _ := NewService(repo)
	ctx := context.Background()

	for _, amount := range []string{"1.00", "2.00"} {
		if _, err := svc.SetPointValue(ctx, SetPointValueInput{
			VariantID: variant.ID,
			Level:     1,
			Amount:    decimal.RequireFromString(amount),
		}); err != nil {
			t.Fatalf("SetPointValue(%s): %v", amount, err)
		}
	}

	pvs, _ := svc.PointValuesFor(ctx, variant.ID)
	if len(pvs) != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", len(pvs))
	}
	if pvs[1].Amount.String() != "2" {
		t.Fatalf("amount = %s, want 2", pvs[1].Amount)
	}
}

func TestSetPointValueRejectsNegative(t *testing.T) {
	repo := newFakeRepo()
	repo.addLevel(1)
	variant := repo.addVariant()

	svc, _ := NewService(repo)
	_, err := svc.SetPointValue(context.Background(), SetPointValueInput{
		VariantID: variant.ID,
		Level:     1,
		Amount:    decimal.RequireFromString("-1.00"),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSetPointValueUnknownLevel(t *testing.T) {
	repo := newFakeRepo()
	variant := repo.addVariant()

	svc, _ := NewService(repo)
	_, err := svc.SetPointValue(context.Background(), SetPointValueInput{
		VariantID: variant.ID,
		Level:     9,
		Amount:    decimal.RequireFromString("1.00"),
	})
	if err == nil {
		t.Fatal("expected not found error")
	}
}

func TestCreateVariantValidation(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	product := &models.Product{Name: "Starter Kit", IsActive: true}
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.CreateVariant(ctx, CreateVariantInput{
		ProductID: product.ID,
		SKU:       "",
	}); err == nil {
		t.Fatal("expected sku validation error")
	}

	if _, err := svc.CreateVariant(ctx, CreateVariantInput{
		ProductID: product.ID,
		SKU:       "KIT-1",
		Price:     decimal.RequireFromString("-5"),
	}); err == nil {
		t.Fatal("expected price validation error")
	}

	variant, err := svc.CreateVariant(ctx, CreateVariantInput{
		ProductID: product.ID,
		SKU:       "KIT-1",
		Name:      "Starter",
		Price:     decimal.RequireFromString("19.999"),
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("CreateVariant: %v", err)
	}
	if variant.Price.String() != "20" {
		t.Fatalf("price = %s, want 20", variant.Price)
	}
}
