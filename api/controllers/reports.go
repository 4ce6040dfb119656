package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/api/responses"
	"github.com/dcastellanos/vendapoint-backend/api/validators"
	reportsvc "github.com/dcastellanos/vendapoint-backend/internal/reports"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

type bucketRowDTO struct {
	Bucket time.Time       `json:"bucket"`
	Total  decimal.Decimal `json:"total"`
}

type creditedSeriesDTO struct {
	Wallet      enums.Wallet          `json:"wallet"`
	Granularity reportsvc.Granularity `json:"granularity"`
	From        time.Time             `json:"from"`
	To          time.Time             `json:"to"`
	Buckets     []bucketRowDTO        `json:"buckets"`
	Total       decimal.Decimal       `json:"total"`
}

type referrerRowDTO struct {
	AccountID   uuid.UUID       `json:"account_id"`
	CreditCount int64           `json:"credit_count"`
	Total       decimal.Decimal `json:"total"`
}

type levelRowDTO struct {
	Level int             `json:"level"`
	Total decimal.Decimal `json:"total"`
}

// reportRange reads from/to query dates, defaulting to the trailing 30 days.
func reportRange(r *http.Request) (time.Time, time.Time, error) {
	defaultTo := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	to, err := validators.ParseQueryDate(r, "to", defaultTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := validators.ParseQueryDate(r, "from", to.AddDate(0, 0, -30))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// CreditedTotalsReport buckets done ledger credits over time for one wallet.
func CreditedTotalsReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, err := enums.ParseWallet(strings.TrimSpace(r.URL.Query().Get("wallet")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid wallet"))
			return
		}

		granularity := reportsvc.Granularity(strings.TrimSpace(r.URL.Query().Get("granularity")))
		if granularity == "" {
			granularity = reportsvc.GranularityDaily
		}

		from, to, err := reportRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		series, err := svc.CreditedTotals(r.Context(), wallet, granularity, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buckets := make([]bucketRowDTO, 0, len(series.Buckets))
		for _, row := range series.Buckets {
			buckets = append(buckets, bucketRowDTO{Bucket: row.Bucket, Total: row.Total})
		}

		responses.WriteSuccess(w, creditedSeriesDTO{
			Wallet:      series.Wallet,
			Granularity: series.Granularity,
			From:        series.From,
			To:          series.To,
			Buckets:     buckets,
			Total:       series.Total,
		})
	}
}

// TopReferrersReport ranks accounts by commission credited in the range.
func TopReferrersReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := reportRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.TopReferrers(r.Context(), from, to, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]referrerRowDTO, 0, len(rows))
		for _, row := range rows {
			out = append(out, referrerRowDTO{
				AccountID:   row.AccountID,
				CreditCount: row.CreditCount,
				Total:       row.Total,
			})
		}
		responses.WriteSuccess(w, out)
	}
}

// CommissionByLevelReport sums commission credited at each membership level.
func CommissionByLevelReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := reportRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.TotalsByLevel(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]levelRowDTO, 0, len(rows))
		for _, row := range rows {
			out = append(out, levelRowDTO{Level: row.Level, Total: row.Total})
		}
		responses.WriteSuccess(w, out)
	}
}
