package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	accountsvc "github.com/dcastellanos/vendapoint-backend/internal/accounts"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

type stubAccountService struct {
	result   *accountsvc.RegisterResult
	account  *models.Account
	accounts []models.Account
	err      error
}

func (s stubAccountService) Register(ctx context.Context, input accountsvc.RegisterInput) (*accountsvc.RegisterResult, error) {
	return s.result, s.err
}

func (s stubAccountService) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.account, s.err
}

func (s stubAccountService) List(ctx context.Context, params pagination.Params) ([]models.Account, error) {
	return s.accounts, s.err
}

func (s stubAccountService) Update(ctx context.Context, id uuid.UUID, input accountsvc.UpdateInput) (*models.Account, error) {
	return s.account, s.err
}

func (s stubAccountService) SetReferrer(ctx context.Context, id uuid.UUID, referrerID *uuid.UUID) error {
	return s.err
}

func TestRegisterAccountSuccess(t *testing.T) {
	account := &models.Account{
		ID:           uuid.New(),
		MemberNumber: "100042",
		Email:        "member@example.com",
		FirstName:    "Maria",
		LastName:     "Gomez",
		IsActive:     true,
	}
	code := &models.ReferralCode{
		ID:        uuid.New(),
		Code:      "MG-7F3K2Q",
		AccountID: account.ID,
		IsActive:  true,
	}
	handler := RegisterAccount(stubAccountService{result: &accountsvc.RegisterResult{
		Account: account,
		Code:    code,
	}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader([]byte(`{"email":"member@example.com","first_name":"Maria","last_name":"Gomez"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Account      *accountDTO      `json:"account"`
			ReferralCode *referralCodeDTO `json:"referral_code"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Account == nil || envelope.Data.Account.MemberNumber != "100042" {
		t.Fatalf("expected account in payload got %+v", envelope.Data.Account)
	}
	if envelope.Data.ReferralCode == nil || envelope.Data.ReferralCode.Code != code.Code {
		t.Fatalf("expected referral code in payload got %+v", envelope.Data.ReferralCode)
	}
}

func TestRegisterAccountInvalidEmail(t *testing.T) {
	handler := RegisterAccount(stubAccountService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader([]byte(`{"email":"not-an-email","first_name":"Maria","last_name":"Gomez"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetAccountBadID(t *testing.T) {
	handler := GetAccount(stubAccountService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/not-a-uuid", nil)
	req = withURLParam(req, "accountID", "not-a-uuid")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
