package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
)

// Granularity selects the reporting bucket size.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// trunc maps every granularity to its date_trunc field. Exhaustive by
// construction: unknown values are rejected before lookup.
var truncByGranularity = map[Granularity]string{
	GranularityDaily:   "day",
	GranularityWeekly:  "week",
	GranularityMonthly: "month",
}

// IsValid reports whether the granularity is known.
func (g Granularity) IsValid() bool {
	_, ok := truncByGranularity[g]
	return ok
}

// CreditedSeries is a bucketed report over one wallet.
type CreditedSeries struct {
	Wallet      enums.Wallet
	Granularity Granularity
	From        time.Time
	To          time.Time
	Buckets     []BucketRow
	Total       decimal.Decimal
}

// Service exposes ledger aggregation reports.
type Service interface {
	CreditedTotals(ctx context.Context, wallet enums.Wallet, granularity Granularity, from, to time.Time) (*CreditedSeries, error)
	TopReferrers(ctx context.Context, from, to time.Time, limit int) ([]ReferrerRow, error)
	TotalsByLevel(ctx context.Context, from, to time.Time) ([]LevelRow, error)
}

type service struct {
	repo Repository
}

// NewService wires a reports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

// CreditedTotals sums done ledger entries into time buckets. Empty ranges
// yield an empty bucket list and a zero total, never null.
func (s *service) CreditedTotals(ctx context.Context, wallet enums.Wallet, granularity Granularity, from, to time.Time) (*CreditedSeries, error) {
	if !wallet.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid wallet %q", wallet))
	}
	if !granularity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid granularity %q", granularity))
	}
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range must be non-empty")
	}

	rows, err := s.repo.SumByBucket(ctx, wallet, truncByGranularity[granularity], from, to)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Total)
	}
	if rows == nil {
		rows = []BucketRow{}
	}
	return &CreditedSeries{
		Wallet:      wallet,
		Granularity: granularity,
		From:        from,
		To:          to,
		Buckets:     rows,
		Total:       total,
	}, nil
}

func (s *service) TopReferrers(ctx context.Context, from, to time.Time, limit int) ([]ReferrerRow, error) {
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range must be non-empty")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := s.repo.TopReferrers(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ReferrerRow{}
	}
	return rows, nil
}

func (s *service) TotalsByLevel(ctx context.Context, from, to time.Time) ([]LevelRow, error) {
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range must be non-empty")
	}
	rows, err := s.repo.TotalsByLevel(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []LevelRow{}
	}
	return rows, nil
}
