package cashouts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/internal/activities"
	"github.com/dcastellanos/vendapoint-backend/pkg/config"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
	"github.com/dcastellanos/vendapoint-backend/pkg/mailer"
	"github.com/dcastellanos/vendapoint-backend/pkg/outbox"
)

// CreateMethodInput registers a payout destination.
type CreateMethodInput struct {
	AccountID    uuid.UUID
	Kind         enums.CashoutMethodKind
	MaskedDetail string
}

// RequestInput asks to pay out part of the account's point value balance.
type RequestInput struct {
	AccountID uuid.UUID
	MethodID  uuid.UUID
	Amount    decimal.Decimal
}

// Service exposes cashout methods and requests.
type Service interface {
	CreateMethod(ctx context.Context, input CreateMethodInput) (*models.CashoutMethod, error)
	ListMethods(ctx context.Context, accountID uuid.UUID) ([]models.CashoutMethod, error)
	DeactivateMethod(ctx context.Context, id uuid.UUID) error
	Request(ctx context.Context, input RequestInput) (*models.Activity, error)
	Settle(ctx context.Context, activityID uuid.UUID) error
	Reject(ctx context.Context, activityID uuid.UUID) error
}

type ledger interface {
	CreditTx(ctx context.Context, tx *gorm.DB, input activities.CreditInput) (*models.Activity, error)
	AvailableBalance(ctx context.Context, accountID uuid.UUID, wallet enums.Wallet) (decimal.Decimal, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ActivityStatus) error
	ListByReference(ctx context.Context, kind enums.ReferenceKind, referenceID uuid.UUID) ([]models.Activity, error)
}

type accountReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo     Repository
	ledger   ledger
	accounts accountReader
	tx       txRunner
	emitter  outboxEmitter
	mail     mailer.Sender
	settings config.SettingsConfig
	now      func() time.Time
	logg     *logger.Logger
}

// Params collects the cashout service's collaborators.
type Params struct {
	Repo     Repository
	Ledger   ledger
	Accounts accountReader
	Tx       txRunner
	Emitter  outboxEmitter
	Mail     mailer.Sender
	Settings config.SettingsConfig
	Now      func() time.Time
	Logger   *logger.Logger
}

// NewService wires a cashouts service.
func NewService(p Params) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("cashouts repository required")
	}
	if p.Ledger == nil {
		return nil, fmt.Errorf("ledger required")
	}
	if p.Accounts == nil {
		return nil, fmt.Errorf("account reader required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     p.Repo,
		ledger:   p.Ledger,
		accounts: p.Accounts,
		tx:       p.Tx,
		emitter:  p.Emitter,
		mail:     p.Mail,
		settings: p.Settings,
		now:      now,
		logg:     p.Logger,
	}, nil
}

func (s *service) CreateMethod(ctx context.Context, input CreateMethodInput) (*models.CashoutMethod, error) {
	if input.AccountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cashout method kind %q", input.Kind))
	}
	if strings.TrimSpace(input.MaskedDetail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "masked detail is required")
	}
	if _, err := s.accounts.FindByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	method := &models.CashoutMethod{
		AccountID:    input.AccountID,
		Kind:         input.Kind,
		MaskedDetail: strings.TrimSpace(input.MaskedDetail),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

func (s *service) ListMethods(ctx context.Context, accountID uuid.UUID) ([]models.CashoutMethod, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	return s.repo.ListByAccount(ctx, accountID)
}

func (s *service) DeactivateMethod(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "method id is required")
	}
	return s.repo.Deactivate(ctx, id)
}

// Request writes a pending debit against the point value wallet. The amount is
// capped by the available balance, which already subtracts earlier pending
// debits, so concurrent requests cannot overdraw together.
func (s *service) Request(ctx context.Context, input RequestInput) (*models.Activity, error) {
	if input.AccountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if day := s.settings.CashoutDay; day > 0 && s.now().Day() != day {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cashouts open on day %d of the month", day))
	}

	method, err := s.repo.FindByID(ctx, input.MethodID)
	if err != nil {
		return nil, err
	}
	if method.AccountID != input.AccountID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cashout method belongs to another account")
	}
	if !method.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cashout method is no longer active")
	}

	amount := input.Amount.Round(2)
	balance, err := s.ledger.AvailableBalance(ctx, input.AccountID, enums.WalletPointValue)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(balance) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("amount exceeds available balance of %s", balance))
	}

	var debit *models.Activity
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		debit, err = s.ledger.CreditTx(ctx, tx, activities.CreditInput{
			AccountID:     input.AccountID,
			Type:          enums.ActivityTypeCashout,
			Amount:        amount.Neg(),
			Wallet:        enums.WalletPointValue,
			Status:        enums.ActivityStatusPending,
			ReferenceKind: enums.ReferenceKindCashoutMethod,
			ReferenceID:   method.ID,
		})
		if err != nil {
			return err
		}
		if s.emitter != nil {
			return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventCashoutRequested,
				AggregateType: enums.AggregateAccount,
				AggregateID:   input.AccountID,
				Version:       1,
				Data: map[string]any{
					"account_id":  input.AccountID.String(),
					"method_id":   method.ID.String(),
					"amount":      amount.String(),
					"activity_id": debit.ID.String(),
				},
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.sendRequestedMail(ctx, input.AccountID, amount)
	return debit, nil
}

func (s *service) sendRequestedMail(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) {
	if s.mail == nil {
		return
	}
	account, err := s.accounts.FindByID(ctx, accountID)
	if err == nil {
		var body string
		body, err = mailer.RenderCashoutRequested(mailer.CashoutRequestedData{
			FirstName: account.FirstName,
			Amount:    amount.StringFixed(2),
		})
		if err == nil {
			err = s.mail.Send(ctx, mailer.Message{
				To:      []string{account.Email},
				Subject: "Your cashout request was received",
				HTML:    body,
			})
		}
	}
	if err != nil && s.logg != nil {
		s.logg.Error(ctx, "sending cashout email", err)
	}
}

// Settle marks the pending debit done.
func (s *service) Settle(ctx context.Context, activityID uuid.UUID) error {
	return s.flip(ctx, activityID, enums.ActivityStatusDone)
}

// Reject voids the pending debit; the amount returns to the available balance.
func (s *service) Reject(ctx context.Context, activityID uuid.UUID) error {
	return s.flip(ctx, activityID, enums.ActivityStatusRejected)
}

func (s *service) flip(ctx context.Context, activityID uuid.UUID, to enums.ActivityStatus) error {
	if activityID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "activity id is required")
	}
	return s.ledger.SetStatus(ctx, activityID, to)
}
