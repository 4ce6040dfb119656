package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcastellanos/vendapoint-backend/api/middleware"
	"github.com/dcastellanos/vendapoint-backend/api/responses"
	"github.com/dcastellanos/vendapoint-backend/api/validators"
	ordersvc "github.com/dcastellanos/vendapoint-backend/internal/orders"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

type createOrderLineRequest struct {
	ProductVariantID uuid.UUID `json:"product_variant_id" validate:"required"`
	Quantity         int       `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	AccountID uuid.UUID                `json:"account_id" validate:"required"`
	PromoCode string                   `json:"promo_code,omitempty"`
	Lines     []createOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]ordersvc.CreateLineInput, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lines = append(lines, ordersvc.CreateLineInput{
				ProductVariantID: line.ProductVariantID,
				Quantity:         line.Quantity,
			})
		}

		order, err := svc.Create(r.Context(), ordersvc.CreateInput{
			AccountID: payload.AccountID,
			PromoCode: payload.PromoCode,
			Lines:     lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, orderFromModel(order))
	}
}

func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderFromModel(order))
	}
}

func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var accountFilter *uuid.UUID
		if accountID, err := validators.ParseQueryUUID(r, "account_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if accountID != uuid.Nil {
			accountFilter = &accountID
		}

		orders, err := svc.List(r.Context(), accountFilter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ordersFromModels(orders))
	}
}

// UpdateOrderStatus moves the order along the lifecycle. Completing an order
// with a promo code runs the comp plan before the response is written.
func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.Transition(r.Context(), id, status, actorIDFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderFromModel(order))
	}
}

// RunOrderCommission replays the comp plan for a completed order whose
// original run failed. The unique run marker keeps this safe to retry.
func RunOrderCommission(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RunCommission(r.Context(), id, actorIDFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, commissionRunDTO{
			RunID:        result.RunID,
			OrderID:      result.OrderID,
			CreditCount:  result.CreditCount,
			SkippedPairs: result.SkippedPairs,
		})
	}
}

func actorIDFromContext(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
