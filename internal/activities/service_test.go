package activities

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

type fakeRepo struct {
	rows []*models.Activity
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, activity *models.Activity) error {
	activity.ID = uuid.New()
	f.rows = append(f.rows, activity)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
}

func (f *fakeRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]models.Activity, error) {
	var out []models.Activity
	for _, row := range f.rows {
		if row.AccountID == accountID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByReference(ctx context.Context, kind enums.ReferenceKind, referenceID uuid.UUID) ([]models.Activity, error) {
	var out []models.Activity
	for _, row := range f.rows {
		if row.ReferenceKind == kind && row.ReferenceID == referenceID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeRepo) SumByWallet(ctx context.Context, accountID uuid.UUID, wallet enums.Wallet, statuses []enums.ActivityStatus) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, row := range f.rows {
		if row.AccountID != accountID || row.Wallet != wallet {
			continue
		}
		for _, status := range statuses {
			if row.Status == status {
				sum = sum.Add(row.Amount)
				break
			}
		}
	}
	return sum, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ActivityStatus) error {
	for _, row := range f.rows {
		if row.ID == id {
			row.Status = status
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
}

func validInput() CreditInput {
	return CreditInput{
		AccountID:     uuid.New(),
		Type:          enums.ActivityTypeReferralLinkUsage,
		Amount:        decimal.RequireFromString("12.345"),
		Wallet:        enums.WalletPointValue,
		Status:        enums.ActivityStatusDone,
		ReferenceKind: enums.ReferenceKindOrder,
		ReferenceID:   uuid.New(),
	}
}

func TestCreditNormalizesAmountToTwoPlaces(t *testing.T) {
	repo := &fakeRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	activity, err := svc.Credit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if got := activity.Amount.String(); got != "12.35" {
		t.Fatalf("amount = %s, want 12.35", got)
	}
}

func TestCreditValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepo{})

	cases := map[string]func(*CreditInput){
		"missing account":   func(in *CreditInput) { in.AccountID = uuid.Nil },
		"bad type":          func(in *CreditInput) { in.Type = "bogus" },
		"bad wallet":        func(in *CreditInput) { in.Wallet = "bogus" },
		"bad status":        func(in *CreditInput) { in.Status = "bogus" },
		"bad reference":     func(in *CreditInput) { in.ReferenceKind = "bogus" },
		"missing reference": func(in *CreditInput) { in.ReferenceID = uuid.Nil },
		"zero amount":       func(in *CreditInput) { in.Amount = decimal.Zero },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validInput()
			mutate(&input)
			if _, err := svc.Credit(context.Background(), input); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBalanceByWalletCountsDoneOnly(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := NewService(repo)
	accountID := uuid.New()

	done := validInput()
	done.AccountID = accountID
	done.Amount = decimal.RequireFromString("10.00")
	if _, err := svc.Credit(context.Background(), done); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	pending := validInput()
	pending.AccountID = accountID
	pending.Amount = decimal.RequireFromString("-4.00")
	pending.Status = enums.ActivityStatusPending
	pending.Type = enums.ActivityTypeCashout
	if _, err := svc.Credit(context.Background(), pending); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	balance, err := svc.BalanceByWallet(context.Background(), accountID, enums.WalletPointValue)
	if err != nil {
		t.Fatalf("BalanceByWallet: %v", err)
	}
	if balance.String() != "10" {
		t.Fatalf("balance = %s, want 10", balance)
	}

	available, err := svc.AvailableBalance(context.Background(), accountID, enums.WalletPointValue)
	if err != nil {
		t.Fatalf("AvailableBalance: %v", err)
	}
	if available.String() != "6" {
		t.Fatalf("available = %s, want 6", available)
	}
}
