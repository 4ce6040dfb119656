package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/api/responses"
	"github.com/dcastellanos/vendapoint-backend/api/validators"
	cashoutsvc "github.com/dcastellanos/vendapoint-backend/internal/cashouts"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

type createCashoutMethodRequest struct {
	AccountID    uuid.UUID `json:"account_id" validate:"required"`
	Kind         string    `json:"kind" validate:"required"`
	MaskedDetail string    `json:"masked_detail" validate:"required"`
}

type requestCashoutRequest struct {
	AccountID uuid.UUID       `json:"account_id" validate:"required"`
	MethodID  uuid.UUID       `json:"method_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
}

// CreateCashoutMethod registers a payout destination for an account.
func CreateCashoutMethod(svc cashoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCashoutMethodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseCashoutMethodKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cashout method kind"))
			return
		}

		method, err := svc.CreateMethod(r.Context(), cashoutsvc.CreateMethodInput{
			AccountID:    payload.AccountID,
			Kind:         kind,
			MaskedDetail: payload.MaskedDetail,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, cashoutMethodFromModel(method))
	}
}

// ListCashoutMethods returns every destination on file, retired ones included.
func ListCashoutMethods(svc cashoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := validators.ParsePathUUID(chi.URLParam(r, "accountID"), "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		methods, err := svc.ListMethods(r.Context(), accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cashoutMethodsFromModels(methods))
	}
}

// DeactivateCashoutMethod retires a destination. Ledger history that references
// it is untouched.
func DeactivateCashoutMethod(svc cashoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "methodID"), "methodID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateMethod(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// RequestCashout opens a pending debit against the point value wallet.
func RequestCashout(svc cashoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cashout service unavailable"))
			return
		}

		var payload requestCashoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		debit, err := svc.Request(r.Context(), cashoutsvc.RequestInput{
			AccountID: payload.AccountID,
			MethodID:  payload.MethodID,
			Amount:    payload.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, activityFromModel(debit))
	}
}

// SettleCashout marks a pending cashout debit as paid out.
func SettleCashout(svc cashoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "activityID"), "activityID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Settle(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "settled"})
	}
}

// RejectCashout voids a pending cashout debit; the amount returns to the
// available balance.
func RejectCashout(svc cashoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "activityID"), "activityID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reject(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "rejected"})
	}
}
