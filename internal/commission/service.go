package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/internal/activities"
	"github.com/dcastellanos/vendapoint-backend/internal/referrals"
	"github.com/dcastellanos/vendapoint-backend/pkg/db"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
	"github.com/dcastellanos/vendapoint-backend/pkg/metrics"
	"github.com/dcastellanos/vendapoint-backend/pkg/outbox"
)

// RunResult reports what a commission run wrote.
type RunResult struct {
	RunID        uuid.UUID
	OrderID      uuid.UUID
	CreditCount  int
	SkippedPairs int
}

// Service runs the referral comp plan for completed orders.
type Service interface {
	Run(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) (*RunResult, error)
}

type orderLoader interface {
	FindWithLines(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type uplineResolver interface {
	ResolveUpline(ctx context.Context, accountID uuid.UUID) ([]referrals.UplineEntry, error)
}

type pointValueReader interface {
	// PointValuesFor returns the configured point values for a variant keyed
	// by membership level number. Absent levels earn nothing.
	PointValuesFor(ctx context.Context, variantID uuid.UUID) (map[int]models.PointValue, error)
}

type ledgerWriter interface {
	CreditTx(ctx context.Context, tx *gorm.DB, input activities.CreditInput) (*models.Activity, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	orders   orderLoader
	upline   uplineResolver
	points   pointValueReader
	ledger   ledgerWriter
	runs     RunRepository
	tx       txRunner
	emitter  outboxEmitter
	recorder *metrics.CommissionMetrics
	logg     *logger.Logger
}

// Params collects the engine's collaborators.
type Params struct {
	Orders   orderLoader
	Upline   uplineResolver
	Points   pointValueReader
	Ledger   ledgerWriter
	Runs     RunRepository
	Tx       txRunner
	Emitter  outboxEmitter
	Recorder *metrics.CommissionMetrics
	Logger   *logger.Logger
}

// NewService wires the commission engine.
func NewService(p Params) (Service, error) {
	if p.Orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	if p.Upline == nil {
		return nil, fmt.Errorf("upline resolver required")
	}
	if p.Points == nil {
		return nil, fmt.Errorf("point value reader required")
	}
	if p.Ledger == nil {
		return nil, fmt.Errorf("ledger writer required")
	}
	if p.Runs == nil {
		return nil, fmt.Errorf("run repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{
		orders:   p.Orders,
		upline:   p.Upline,
		points:   p.Points,
		ledger:   p.Ledger,
		runs:     p.Runs,
		tx:       p.Tx,
		emitter:  p.Emitter,
		recorder: p.Recorder,
		logg:     p.Logger,
	}, nil
}

// Run credits the promo code owner's upline for every unit on the order.
// The whole run is one transaction: the idempotency marker, every activity
// row, and the outbox event commit together or not at all. Replaying the same
// order hits the marker's unique constraint and credits nothing.
func (s *service) Run(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) (*RunResult, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	started := time.Now()
	result, err := s.run(ctx, orderID, actorID)
	if err != nil {
		s.recorder.ObserveRun("failure", time.Since(started))
		if pkgErr := pkgerrors.As(err); pkgErr != nil {
			s.recorder.IncFailure(string(pkgErr.Code()))
		} else {
			s.recorder.IncFailure("internal")
		}
		return nil, err
	}
	s.recorder.ObserveRun("success", time.Since(started))
	return result, nil
}

func (s *service) run(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) (*RunResult, error) {
	order, err := s.orders.FindWithLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order is %s, commissions run on completed orders only", order.Status))
	}
	if order.PromoCodeID == nil || order.PromoCode == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no promo code")
	}

	upline, err := s.upline.ResolveUpline(ctx, order.PromoCode.AccountID)
	if err != nil {
		return nil, err
	}

	// read point values up front so the write transaction stays short
	pointsByVariant := make(map[uuid.UUID]map[int]models.PointValue, len(order.Lines))
	for _, line := range order.Lines {
		if _, ok := pointsByVariant[line.ProductVariantID]; ok {
			continue
		}
		pvs, err := s.points.PointValuesFor(ctx, line.ProductVariantID)
		if err != nil {
			return nil, err
		}
		pointsByVariant[line.ProductVariantID] = pvs
	}

	result := &RunResult{OrderID: orderID}
	creditsByLevel := map[int]int{}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		run := &models.CommissionRun{OrderID: orderID, CreatedByID: actorID}
		if err := s.runs.Insert(ctx, tx, run); err != nil {
			if db.IsUniqueViolation(err, "ux_commission_runs_order") {
				return pkgerrors.New(pkgerrors.CodeConflict, "commission already recorded for this order")
			}
			return err
		}
		result.RunID = run.ID

		for _, entry := range upline {
			for _, line := range order.Lines {
				pv, ok := pointsByVariant[line.ProductVariantID][entry.Level]
				if !ok {
					result.SkippedPairs++
					s.recorder.IncSkip("no_point_value")
					continue
				}
				for unit := 0; unit < line.Quantity; unit++ {
					variantID := line.ProductVariantID
					levelID := pv.MembershipLevelID
					_, err := s.ledger.CreditTx(ctx, tx, activities.CreditInput{
						AccountID:         entry.Account.ID,
						Type:              enums.ActivityTypeReferralLinkUsage,
						Amount:            pv.Amount,
						Wallet:            enums.WalletPointValue,
						Status:            enums.ActivityStatusDone,
						MembershipLevelID: &levelID,
						ProductVariantID:  &variantID,
						ReferenceKind:     enums.ReferenceKindOrder,
						ReferenceID:       orderID,
						CreatedByID:       actorID,
					})
					if err != nil {
						return err
					}
					result.CreditCount++
					creditsByLevel[entry.Level]++
				}
			}
		}

		if err := s.runs.UpdateCounts(ctx, tx, run.ID, result.CreditCount, result.SkippedPairs); err != nil {
			return err
		}

		if s.emitter != nil {
			event := outbox.DomainEvent{
				EventType:     enums.EventCommissionCredited,
				AggregateType: enums.AggregateOrder,
				AggregateID:   orderID,
				Version:       1,
				Data: map[string]any{
					"order_id":      orderID.String(),
					"credit_count":  result.CreditCount,
					"skipped_pairs": result.SkippedPairs,
				},
			}
			if actorID != nil {
				event.Actor = &outbox.ActorRef{UserID: *actorID}
			}
			if err := s.emitter.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	for level, count := range creditsByLevel {
		s.recorder.IncCredits(fmt.Sprintf("%d", level), count)
	}
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, orderID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"credit_count":  result.CreditCount,
			"skipped_pairs": result.SkippedPairs,
		})
		s.logg.Info(logCtx, "commission run completed")
	}
	return result, nil
}
