package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
)

type fakeRepo struct {
	buckets   []BucketRow
	referrers []ReferrerRow
	levels    []LevelRow
}

func (f *fakeRepo) SumByBucket(ctx context.Context, wallet enums.Wallet, trunc string, from, to time.Time) ([]BucketRow, error) {
	return f.buckets, nil
}

func (f *fakeRepo) TopReferrers(ctx context.Context, from, to time.Time, limit int) ([]ReferrerRow, error) {
	if limit < len(f.referrers) {
		return f.referrers[:limit], nil
	}
	return f.referrers, nil
}

func (f *fakeRepo) TotalsByLevel(ctx context.Context, from, to time.Time) ([]LevelRow, error) {
	return f.levels, nil
}

func dateRange() (time.Time, time.Time) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func TestCreditedTotalsSums(t *testing.T) {
	repo := &fakeRepo{buckets: []BucketRow{
		{Total: decimal.RequireFromString("10.50")},
		{Total: decimal.RequireFromString("4.25")},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	from, to := dateRange()
	series, err := svc.CreditedTotals(context.Background(), enums.WalletPointValue, GranularityDaily, from, to)
	if err != nil {
		t.Fatalf("CreditedTotals: %v", err)
	}
	if series.Total.String() != "14.75" {
		t.Fatalf("total = %s, want 14.75", series.Total)
	}
}

func TestCreditedTotalsEmptyRangeIsZero(t *testing.T) {
	svc, _ := NewService(&fakeRepo{})
	from, to := dateRange()

	series, err := svc.CreditedTotals(context.Background(), enums.WalletPointValue, GranularityMonthly, from, to)
	if err != nil {
		t.Fatalf("CreditedTotals: %v", err)
	}
	if !series.Total.IsZero() {
		t.Fatalf("total = %s, want 0", series.Total)
	}
	if series.Buckets == nil {
		t.Fatal("buckets must be empty, not nil")
	}
}

func TestCreditedTotalsValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepo{})
	from, to := dateRange()

	if _, err := svc.CreditedTotals(context.Background(), "bogus", GranularityDaily, from, to); err == nil {
		t.Fatal("expected wallet validation error")
	}
	if _, err := svc.CreditedTotals(context.Background(), enums.WalletPointValue, "hourly", from, to); err == nil {
		t.Fatal("expected granularity validation error")
	}
	if _, err := svc.CreditedTotals(context.Background(), enums.WalletPointValue, GranularityDaily, to, from); err == nil {
		t.Fatal("expected range validation error")
	}
}

func TestTopReferrersDefaultsLimit(t *testing.T) {
	repo := &fakeRepo{}
	for i := 0; i < 15; i++ {
		repo.referrers = append(repo.referrers, ReferrerRow{})
	}
	svc, _ := NewService(repo)
	from, to := dateRange()

	rows, err := svc.TopReferrers(context.Background(), from, to, 0)
	if err != nil {
		t.Fatalf("TopReferrers: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("rows = %d, want default limit 10", len(rows))
	}
}
