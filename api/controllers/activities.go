package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/api/responses"
	"github.com/dcastellanos/vendapoint-backend/api/validators"
	activitysvc "github.com/dcastellanos/vendapoint-backend/internal/activities"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

type createAdjustmentRequest struct {
	AccountID uuid.UUID       `json:"account_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Wallet    string          `json:"wallet" validate:"required"`
}

type balanceResponse struct {
	AccountID uuid.UUID       `json:"account_id"`
	Wallet    enums.Wallet    `json:"wallet"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
}

// ListAccountActivities pages through an account's ledger, newest first.
func ListAccountActivities(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := validators.ParsePathUUID(chi.URLParam(r, "accountID"), "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.ListByAccount(r.Context(), accountID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, activitiesFromModels(entries))
	}
}

// GetAccountBalance returns both the settled and the available balance for
// one wallet.
func GetAccountBalance(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := validators.ParsePathUUID(chi.URLParam(r, "accountID"), "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		wallet, err := enums.ParseWallet(strings.TrimSpace(r.URL.Query().Get("wallet")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid wallet"))
			return
		}

		balance, err := svc.BalanceByWallet(r.Context(), accountID, wallet)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		available, err := svc.AvailableBalance(r.Context(), accountID, wallet)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, balanceResponse{
			AccountID: accountID,
			Wallet:    wallet,
			Balance:   balance,
			Available: available,
		})
	}
}

// CreateAdjustment writes a manual ledger correction. The acting user is
// recorded on the entry.
func CreateAdjustment(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createAdjustmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		wallet, err := enums.ParseWallet(strings.TrimSpace(payload.Wallet))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid wallet"))
			return
		}

		actor := actorIDFromContext(r)
		if actor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		entry, err := svc.Credit(r.Context(), activitysvc.CreditInput{
			AccountID: payload.AccountID,
			Type:      enums.ActivityTypeAdjustment,
			Amount:    payload.Amount,
			Wallet:    wallet,
			Status:    enums.ActivityStatusDone,
			// manual entries carry a freshly minted reference of their own kind
			ReferenceKind: enums.ReferenceKindActivity,
			ReferenceID:   uuid.New(),
			CreatedByID:   actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, activityFromModel(entry))
	}
}
