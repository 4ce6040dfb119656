package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/vendapoint-backend/api/responses"
	"github.com/dcastellanos/vendapoint-backend/api/validators"
	referralsvc "github.com/dcastellanos/vendapoint-backend/internal/referrals"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

// ListAccountReferralCodes returns every code issued to the account.
func ListAccountReferralCodes(svc referralsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := validators.ParsePathUUID(chi.URLParam(r, "accountID"), "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		codes, err := svc.ListCodes(r.Context(), accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, referralCodesFromModels(codes))
	}
}

// GenerateReferralCode issues an extra code for the account.
func GenerateReferralCode(svc referralsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := validators.ParsePathUUID(chi.URLParam(r, "accountID"), "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code, err := svc.GenerateCode(r.Context(), accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, referralCodeFromModel(code))
	}
}

// LookupReferralCode resolves a code value to its owning account.
func LookupReferralCode(svc referralsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := strings.TrimSpace(chi.URLParam(r, "code"))
		if value == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "code is required"))
			return
		}

		code, err := svc.LookupCode(r.Context(), value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, referralCodeFromModel(code))
	}
}

// DeactivateReferralCode retires a code; existing attributions stand.
func DeactivateReferralCode(svc referralsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "codeID"), "codeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateCode(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// GetAccountUpline returns the commissionable ancestor chain.
func GetAccountUpline(svc referralsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := validators.ParsePathUUID(chi.URLParam(r, "accountID"), "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		upline, err := svc.ResolveUpline(r.Context(), accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, uplineFromEntries(upline))
	}
}
