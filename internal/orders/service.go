package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/internal/commission"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
	"github.com/dcastellanos/vendapoint-backend/pkg/outbox"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

// legalTransitions is the exhaustive order state machine. Absent pairs are
// rejected.
var legalTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusDraft:     {enums.OrderStatusPlaced, enums.OrderStatusCancelled},
	enums.OrderStatusPlaced:    {enums.OrderStatusPaid, enums.OrderStatusCancelled},
	enums.OrderStatusPaid:      {enums.OrderStatusCompleted},
	enums.OrderStatusCompleted: {},
	enums.OrderStatusCancelled: {},
}

// CanTransition reports whether from → to is a legal order status change.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CreateLineInput is one requested order line.
type CreateLineInput struct {
	ProductVariantID uuid.UUID
	Quantity         int
}

// CreateInput captures a new draft order.
type CreateInput struct {
	AccountID uuid.UUID
	PromoCode string
	Lines     []CreateLineInput
}

// Service exposes order management and the completion trigger.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, accountID *uuid.UUID, params pagination.Params) ([]models.Order, error)
	Transition(ctx context.Context, id uuid.UUID, to enums.OrderStatus, actorID *uuid.UUID) (*models.Order, error)
	RunCommission(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*commission.RunResult, error)
}

type variantReader interface {
	FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

type codeReader interface {
	LookupCode(ctx context.Context, code string) (*models.ReferralCode, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo       Repository
	variants   variantReader
	codes      codeReader
	commission commission.Service
	tx         txRunner
	emitter    outboxEmitter
	logg       *logger.Logger
}

// Params collects the order service's collaborators.
type Params struct {
	Repo       Repository
	Variants   variantReader
	Codes      codeReader
	Commission commission.Service
	Tx         txRunner
	Emitter    outboxEmitter
	Logger     *logger.Logger
}

// NewService wires an orders service.
func NewService(p Params) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if p.Variants == nil {
		return nil, fmt.Errorf("variant reader required")
	}
	if p.Codes == nil {
		return nil, fmt.Errorf("code reader required")
	}
	if p.Commission == nil {
		return nil, fmt.Errorf("commission service required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{
		repo:       p.Repo,
		variants:   p.Variants,
		codes:      p.Codes,
		commission: p.Commission,
		tx:         p.Tx,
		emitter:    p.Emitter,
		logg:       p.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.AccountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "an order needs at least one line")
	}

	var promoCodeID *uuid.UUID
	if code := strings.TrimSpace(input.PromoCode); code != "" {
		referral, err := s.codes.LookupCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if !referral.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is no longer active")
		}
		promoCodeID = &referral.ID
	}

	total := decimal.Zero
	lines := make([]models.OrderLine, 0, len(input.Lines))
	for i, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: quantity must be positive", i))
		}
		variant, err := s.variants.FindVariant(ctx, line.ProductVariantID)
		if err != nil {
			return nil, err
		}
		if !variant.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variant %s is not sellable", variant.SKU))
		}
		lines = append(lines, models.OrderLine{
			ProductVariantID: variant.ID,
			Quantity:         line.Quantity,
			UnitPrice:        variant.Price,
		})
		total = total.Add(variant.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &models.Order{
		AccountID:   input.AccountID,
		Status:      enums.OrderStatusDraft,
		PromoCodeID: promoCodeID,
		Total:       total.Round(2),
		Lines:       lines,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.repo.FindWithLines(ctx, id)
}

func (s *service) List(ctx context.Context, accountID *uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return s.repo.List(ctx, accountID, params)
}

// Transition moves the order through the state machine. Completing an order
// that carries a promo code runs the comp plan synchronously afterwards; the
// commission failure surfaces to the caller while the completed status stands,
// and the run can be retried via RunCommission.
func (s *service) Transition(ctx context.Context, id uuid.UUID, to enums.OrderStatus, actorID *uuid.UUID) (*models.Order, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", to))
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move order from %s to %s", order.Status, to))
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, id, order.Status, to); err != nil {
			return err
		}
		if to == enums.OrderStatusCompleted && s.emitter != nil {
			event := outbox.DomainEvent{
				EventType:     enums.EventOrderCompleted,
				AggregateType: enums.AggregateOrder,
				AggregateID:   id,
				Version:       1,
				Data: map[string]any{
					"order_id":   id.String(),
					"account_id": order.AccountID.String(),
					"total":      order.Total.String(),
				},
			}
			if actorID != nil {
				event.Actor = &outbox.ActorRef{UserID: *actorID}
			}
			return s.emitter.EmitIfNotExists(ctx, tx, event)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	order.Status = to

	if to == enums.OrderStatusCompleted && order.PromoCodeID != nil {
		if _, err := s.commission.Run(ctx, id, actorID); err != nil {
			if s.logg != nil {
				logCtx := s.logg.WithOrderID(ctx, id.String())
				s.logg.Error(logCtx, "commission run failed after completion", err)
			}
			return nil, err
		}
	}
	return order, nil
}

// RunCommission retries the comp plan for an already completed order.
func (s *service) RunCommission(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*commission.RunResult, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.commission.Run(ctx, id, actorID)
}
