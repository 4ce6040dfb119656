package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastellanos/vendapoint-backend/internal/commission"
	ordersvc "github.com/dcastellanos/vendapoint-backend/internal/orders"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

type stubOrderService struct {
	order  *models.Order
	orders []models.Order
	run    *commission.RunResult
	err    error
}

func (s stubOrderService) Create(ctx context.Context, input ordersvc.CreateInput) (*models.Order, error) {
	return s.order, s.err
}

func (s stubOrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s stubOrderService) List(ctx context.Context, accountID *uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return s.orders, s.err
}

func (s stubOrderService) Transition(ctx context.Context, id uuid.UUID, to enums.OrderStatus, actorID *uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s stubOrderService) RunCommission(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*commission.RunResult, error) {
	return s.run, s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func TestUpdateOrderStatusSuccess(t *testing.T) {
	orderID := uuid.New()
	handler := UpdateOrderStatus(stubOrderService{order: &models.Order{
		ID:        orderID,
		AccountID: uuid.New(),
		Status:    enums.OrderStatusPaid,
		Total:     decimal.RequireFromString("120.50"),
	}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", bytes.NewReader([]byte(`{"status":"paid"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "orderID", orderID.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data orderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusPaid {
		t.Fatalf("expected paid status got %s", envelope.Data.Status)
	}
}

func TestUpdateOrderStatusUnknownStatus(t *testing.T) {
	orderID := uuid.New()
	handler := UpdateOrderStatus(stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", bytes.NewReader([]byte(`{"status":"shipped"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "orderID", orderID.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateOrderStatusIllegalTransition(t *testing.T) {
	orderID := uuid.New()
	handler := UpdateOrderStatus(stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot move from draft to completed")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", bytes.NewReader([]byte(`{"status":"completed"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "orderID", orderID.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestCreateOrderMissingLines(t *testing.T) {
	handler := CreateOrder(stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`{"account_id":"`+uuid.NewString()+`","lines":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRunOrderCommissionSuccess(t *testing.T) {
	orderID := uuid.New()
	runID := uuid.New()
	handler := RunOrderCommission(stubOrderService{run: &commission.RunResult{
		RunID:       runID,
		OrderID:     orderID,
		CreditCount: 3,
	}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/commission-run", nil)
	req = withURLParam(req, "orderID", orderID.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data commissionRunDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RunID != runID || envelope.Data.CreditCount != 3 {
		t.Fatalf("unexpected run payload %+v", envelope.Data)
	}
}
