package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcastellanos/vendapoint-backend/api/responses"
	"github.com/dcastellanos/vendapoint-backend/api/validators"
	accountsvc "github.com/dcastellanos/vendapoint-backend/internal/accounts"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

type registerAccountRequest struct {
	Email             string     `json:"email" validate:"required,email"`
	FirstName         string     `json:"first_name" validate:"required"`
	LastName          string     `json:"last_name" validate:"required"`
	MembershipLevelID *uuid.UUID `json:"membership_level_id,omitempty"`
	ReferralCode      string     `json:"referral_code,omitempty"`
}

type updateAccountRequest struct {
	Email             *string    `json:"email,omitempty" validate:"omitempty,email"`
	FirstName         *string    `json:"first_name,omitempty"`
	LastName          *string    `json:"last_name,omitempty"`
	MembershipLevelID *uuid.UUID `json:"membership_level_id,omitempty"`
	IsActive          *bool      `json:"is_active,omitempty"`
}

type setReferrerRequest struct {
	ReferrerID *uuid.UUID `json:"referrer_id"`
}

type registerAccountResponse struct {
	Account      *accountDTO      `json:"account"`
	ReferralCode *referralCodeDTO `json:"referral_code"`
}

// RegisterAccount creates a member account and issues its referral code.
func RegisterAccount(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		var payload registerAccountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), accountsvc.RegisterInput{
			Email:             payload.Email,
			FirstName:         payload.FirstName,
			LastName:          payload.LastName,
			MembershipLevelID: payload.MembershipLevelID,
			ReferralCode:      payload.ReferralCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, registerAccountResponse{
			Account:      accountFromModel(result.Account),
			ReferralCode: referralCodeFromModel(result.Code),
		})
	}
}

func GetAccount(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "accountID"), "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, accountFromModel(account))
	}
}

func ListAccounts(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accounts, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, accountsFromModels(accounts))
	}
}

func UpdateAccount(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "accountID"), "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAccountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Update(r.Context(), id, accountsvc.UpdateInput{
			Email:             payload.Email,
			FirstName:         payload.FirstName,
			LastName:          payload.LastName,
			MembershipLevelID: payload.MembershipLevelID,
			IsActive:          payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, accountFromModel(account))
	}
}

// SetAccountReferrer re-parents an account in the referral tree. A null
// referrer_id clears the link.
func SetAccountReferrer(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "accountID"), "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setReferrerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetReferrer(r.Context(), id, payload.ReferrerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
