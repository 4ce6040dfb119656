package activities

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

// Service exposes the append-only wallet ledger.
type Service interface {
	Credit(ctx context.Context, input CreditInput) (*models.Activity, error)
	CreditTx(ctx context.Context, tx *gorm.DB, input CreditInput) (*models.Activity, error)
	BalanceByWallet(ctx context.Context, accountID uuid.UUID, wallet enums.Wallet) (decimal.Decimal, error)
	AvailableBalance(ctx context.Context, accountID uuid.UUID, wallet enums.Wallet) (decimal.Decimal, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]models.Activity, error)
	ListByReference(ctx context.Context, kind enums.ReferenceKind, referenceID uuid.UUID) ([]models.Activity, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ActivityStatus) error
}

// CreditInput captures the immutable data a ledger entry requires. Amount is
// normalized to two decimal places before it is written.
type CreditInput struct {
	AccountID         uuid.UUID
	Type              enums.ActivityType
	Amount            decimal.Decimal
	Wallet            enums.Wallet
	Status            enums.ActivityStatus
	MembershipLevelID *uuid.UUID
	ProductVariantID  *uuid.UUID
	ReferenceKind     enums.ReferenceKind
	ReferenceID       uuid.UUID
	CreatedByID       *uuid.UUID
}

type service struct {
	repo Repository
}

// NewService wires an activities service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activities repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Credit(ctx context.Context, input CreditInput) (*models.Activity, error) {
	return s.credit(ctx, s.repo, input)
}

// CreditTx writes the entry inside a caller-owned transaction.
func (s *service) CreditTx(ctx context.Context, tx *gorm.DB, input CreditInput) (*models.Activity, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction required")
	}
	return s.credit(ctx, s.repo.WithTx(tx), input)
}

func (s *service) credit(ctx context.Context, repo Repository, input CreditInput) (*models.Activity, error) {
	if input.AccountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid activity type %q", input.Type))
	}
	if !input.Wallet.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid wallet %q", input.Wallet))
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid activity status %q", input.Status))
	}
	if !input.ReferenceKind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reference kind %q", input.ReferenceKind))
	}
	if input.ReferenceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference id is required")
	}
	if input.Amount.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be zero")
	}

	activity := &models.Activity{
		AccountID:         input.AccountID,
		Type:              input.Type,
		Amount:            input.Amount.Round(2),
		Wallet:            input.Wallet,
		Status:            input.Status,
		MembershipLevelID: input.MembershipLevelID,
		ProductVariantID:  input.ProductVariantID,
		ReferenceKind:     input.ReferenceKind,
		ReferenceID:       input.ReferenceID,
		CreatedByID:       input.CreatedByID,
	}

	if err := repo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// BalanceByWallet sums done entries only.
func (s *service) BalanceByWallet(ctx context.Context, accountID uuid.UUID, wallet enums.Wallet) (decimal.Decimal, error) {
	if accountID == uuid.Nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if !wallet.IsValid() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid wallet %q", wallet))
	}
	return s.repo.SumByWallet(ctx, accountID, wallet, []enums.ActivityStatus{enums.ActivityStatusDone})
}

// AvailableBalance also subtracts pending debits so a cashout cannot overdraw
// while an earlier request is still under review.
func (s *service) AvailableBalance(ctx context.Context, accountID uuid.UUID, wallet enums.Wallet) (decimal.Decimal, error) {
	if accountID == uuid.Nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if !wallet.IsValid() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid wallet %q", wallet))
	}
	return s.repo.SumByWallet(ctx, accountID, wallet, []enums.ActivityStatus{
		enums.ActivityStatusDone,
		enums.ActivityStatusPending,
	})
}

func (s *service) ListByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]models.Activity, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	return s.repo.ListByAccount(ctx, accountID, params)
}

func (s *service) ListByReference(ctx context.Context, kind enums.ReferenceKind, referenceID uuid.UUID) ([]models.Activity, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reference kind %q", kind))
	}
	if referenceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference id is required")
	}
	return s.repo.ListByReference(ctx, kind, referenceID)
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.ActivityStatus) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "activity id is required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid activity status %q", status))
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
