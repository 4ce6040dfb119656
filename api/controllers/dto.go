package controllers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/internal/referrals"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
)

// Transport shapes for every resource the API returns. Models stay
// persistence-only; these are the public field names.

type accountDTO struct {
	ID                uuid.UUID  `json:"id"`
	MemberNumber      string     `json:"member_number"`
	Email             string     `json:"email"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	MembershipLevelID *uuid.UUID `json:"membership_level_id,omitempty"`
	ReferrerID        *uuid.UUID `json:"referrer_id,omitempty"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func accountFromModel(a *models.Account) *accountDTO {
	if a == nil {
		return nil
	}
	return &accountDTO{
		ID:                a.ID,
		MemberNumber:      a.MemberNumber,
		Email:             a.Email,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		MembershipLevelID: a.MembershipLevelID,
		ReferrerID:        a.ReferrerID,
		IsActive:          a.IsActive,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func accountsFromModels(in []models.Account) []accountDTO {
	out := make([]accountDTO, 0, len(in))
	for i := range in {
		out = append(out, *accountFromModel(&in[i]))
	}
	return out
}

type referralCodeDTO struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	AccountID uuid.UUID `json:"account_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func referralCodeFromModel(c *models.ReferralCode) *referralCodeDTO {
	if c == nil {
		return nil
	}
	return &referralCodeDTO{
		ID:        c.ID,
		Code:      c.Code,
		AccountID: c.AccountID,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

func referralCodesFromModels(in []models.ReferralCode) []referralCodeDTO {
	out := make([]referralCodeDTO, 0, len(in))
	for i := range in {
		out = append(out, *referralCodeFromModel(&in[i]))
	}
	return out
}

type uplineEntryDTO struct {
	Account accountDTO `json:"account"`
	Level   int        `json:"level"`
}

func uplineFromEntries(in []referrals.UplineEntry) []uplineEntryDTO {
	out := make([]uplineEntryDTO, 0, len(in))
	for _, entry := range in {
		out = append(out, uplineEntryDTO{
			Account: *accountFromModel(&entry.Account),
			Level:   entry.Level,
		})
	}
	return out
}

type orderLineDTO struct {
	ID               uuid.UUID       `json:"id"`
	ProductVariantID uuid.UUID       `json:"product_variant_id"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}

type orderDTO struct {
	ID          uuid.UUID         `json:"id"`
	AccountID   uuid.UUID         `json:"account_id"`
	Status      enums.OrderStatus `json:"status"`
	PromoCodeID *uuid.UUID        `json:"promo_code_id,omitempty"`
	PromoCode   *referralCodeDTO  `json:"promo_code,omitempty"`
	Total       decimal.Decimal   `json:"total"`
	Lines       []orderLineDTO    `json:"lines"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func orderFromModel(o *models.Order) *orderDTO {
	if o == nil {
		return nil
	}
	lines := make([]orderLineDTO, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, orderLineDTO{
			ID:               line.ID,
			ProductVariantID: line.ProductVariantID,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
		})
	}
	return &orderDTO{
		ID:          o.ID,
		AccountID:   o.AccountID,
		Status:      o.Status,
		PromoCodeID: o.PromoCodeID,
		PromoCode:   referralCodeFromModel(o.PromoCode),
		Total:       o.Total,
		Lines:       lines,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func ordersFromModels(in []models.Order) []orderDTO {
	out := make([]orderDTO, 0, len(in))
	for i := range in {
		out = append(out, *orderFromModel(&in[i]))
	}
	return out
}

type productVariantDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func variantFromModel(v *models.ProductVariant) *productVariantDTO {
	if v == nil {
		return nil
	}
	return &productVariantDTO{
		ID:        v.ID,
		ProductID: v.ProductID,
		SKU:       v.SKU,
		Name:      v.Name,
		Price:     v.Price,
		IsActive:  v.IsActive,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

type productDTO struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	IsActive    bool                `json:"is_active"`
	Variants    []productVariantDTO `json:"variants"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func productFromModel(p *models.Product) *productDTO {
	if p == nil {
		return nil
	}
	variants := make([]productVariantDTO, 0, len(p.Variants))
	for i := range p.Variants {
		variants = append(variants, *variantFromModel(&p.Variants[i]))
	}
	return &productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func productsFromModels(in []models.Product) []productDTO {
	out := make([]productDTO, 0, len(in))
	for i := range in {
		out = append(out, *productFromModel(&in[i]))
	}
	return out
}

type pointValueDTO struct {
	ID               uuid.UUID       `json:"id"`
	ProductVariantID uuid.UUID       `json:"product_variant_id"`
	Level            int             `json:"level"`
	Amount           decimal.Decimal `json:"amount"`
}

func pointValuesFromMap(in map[int]models.PointValue) []pointValueDTO {
	out := make([]pointValueDTO, 0, len(in))
	for level, pv := range in {
		out = append(out, pointValueDTO{
			ID:               pv.ID,
			ProductVariantID: pv.ProductVariantID,
			Level:            level,
			Amount:           pv.Amount,
		})
	}
	return out
}

type commissionRunDTO struct {
	RunID        uuid.UUID `json:"run_id"`
	OrderID      uuid.UUID `json:"order_id"`
	CreditCount  int       `json:"credit_count"`
	SkippedPairs int       `json:"skipped_pairs"`
}

type activityDTO struct {
	ID                uuid.UUID            `json:"id"`
	AccountID         uuid.UUID            `json:"account_id"`
	Type              enums.ActivityType   `json:"type"`
	Amount            decimal.Decimal      `json:"amount"`
	Wallet            enums.Wallet         `json:"wallet"`
	Status            enums.ActivityStatus `json:"status"`
	MembershipLevelID *uuid.UUID           `json:"membership_level_id,omitempty"`
	ProductVariantID  *uuid.UUID           `json:"product_variant_id,omitempty"`
	ReferenceKind     enums.ReferenceKind  `json:"reference_kind"`
	ReferenceID       uuid.UUID            `json:"reference_id"`
	CreatedAt         time.Time            `json:"created_at"`
}

func activityFromModel(a *models.Activity) *activityDTO {
	if a == nil {
		return nil
	}
	return &activityDTO{
		ID:                a.ID,
		AccountID:         a.AccountID,
		Type:              a.Type,
		Amount:            a.Amount,
		Wallet:            a.Wallet,
		Status:            a.Status,
		MembershipLevelID: a.MembershipLevelID,
		ProductVariantID:  a.ProductVariantID,
		ReferenceKind:     a.ReferenceKind,
		ReferenceID:       a.ReferenceID,
		CreatedAt:         a.CreatedAt,
	}
}

func activitiesFromModels(in []models.Activity) []activityDTO {
	out := make([]activityDTO, 0, len(in))
	for i := range in {
		out = append(out, *activityFromModel(&in[i]))
	}
	return out
}

type cashoutMethodDTO struct {
	ID           uuid.UUID               `json:"id"`
	AccountID    uuid.UUID               `json:"account_id"`
	Kind         enums.CashoutMethodKind `json:"kind"`
	MaskedDetail string                  `json:"masked_detail"`
	IsActive     bool                    `json:"is_active"`
	CreatedAt    time.Time               `json:"created_at"`
}

func cashoutMethodFromModel(m *models.CashoutMethod) *cashoutMethodDTO {
	if m == nil {
		return nil
	}
	return &cashoutMethodDTO{
		ID:           m.ID,
		AccountID:    m.AccountID,
		Kind:         m.Kind,
		MaskedDetail: m.MaskedDetail,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
}

func cashoutMethodsFromModels(in []models.CashoutMethod) []cashoutMethodDTO {
	out := make([]cashoutMethodDTO, 0, len(in))
	for i := range in {
		out = append(out, *cashoutMethodFromModel(&in[i]))
	}
	return out
}

type membershipLevelDTO struct {
	ID    uuid.UUID `json:"id"`
	Level int       `json:"level"`
	Name  string    `json:"name"`
}

func membershipLevelsFromModels(in []models.MembershipLevel) []membershipLevelDTO {
	out := make([]membershipLevelDTO, 0, len(in))
	for _, level := range in {
		out = append(out, membershipLevelDTO{ID: level.ID, Level: level.Level, Name: level.Name})
	}
	return out
}

type shopSectionDTO struct {
	ID       uuid.UUID             `json:"id"`
	Kind     enums.ShopSectionKind `json:"kind"`
	Position int                   `json:"position"`
	Payload  json.RawMessage       `json:"payload"`
}

type shopPageDTO struct {
	ID          uuid.UUID        `json:"id"`
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	IsPublished bool             `json:"is_published"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
	Sections    []shopSectionDTO `json:"sections"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func shopPageFromModel(p *models.ShopPage) *shopPageDTO {
	if p == nil {
		return nil
	}
	sections := make([]shopSectionDTO, 0, len(p.Sections))
	for _, section := range p.Sections {
		sections = append(sections, shopSectionDTO{
			ID:       section.ID,
			Kind:     section.Kind,
			Position: section.Position,
			Payload:  section.Payload,
		})
	}
	return &shopPageDTO{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		IsPublished: p.IsPublished,
		PublishedAt: p.PublishedAt,
		Sections:    sections,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func shopPagesFromModels(in []models.ShopPage) []shopPageDTO {
	out := make([]shopPageDTO, 0, len(in))
	for i := range in {
		out = append(out, *shopPageFromModel(&in[i]))
	}
	return out
}
