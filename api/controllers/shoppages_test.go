package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	shoppagesvc "github.com/dcastellanos/vendapoint-backend/internal/shoppages"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
)

type stubShopPageService struct {
	page  *models.ShopPage
	pages []models.ShopPage
	err   error
}

func (s stubShopPageService) CreatePage(ctx context.Context, input shoppagesvc.CreatePageInput) (*models.ShopPage, error) {
	return s.page, s.err
}

func (s stubShopPageService) UpdatePage(ctx context.Context, input shoppagesvc.UpdatePageInput) (*models.ShopPage, error) {
	return s.page, s.err
}

func (s stubShopPageService) GetPage(ctx context.Context, id uuid.UUID) (*models.ShopPage, error) {
	return s.page, s.err
}

func (s stubShopPageService) ListPages(ctx context.Context) ([]models.ShopPage, error) {
	return s.pages, s.err
}

func (s stubShopPageService) Publish(ctx context.Context, id uuid.UUID) (*models.ShopPage, error) {
	return s.page, s.err
}

func (s stubShopPageService) Unpublish(ctx context.Context, id uuid.UUID) (*models.ShopPage, error) {
	return s.page, s.err
}

func (s stubShopPageService) DeletePage(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s stubShopPageService) PublicBySlug(ctx context.Context, slug string) (*models.ShopPage, error) {
	return s.page, s.err
}

func TestGetPublicShopPageSuccess(t *testing.T) {
	handler := GetPublicShopPage(stubShopPageService{page: &models.ShopPage{
		ID:          uuid.New(),
		Slug:        "spring-catalog",
		Title:       "Spring Catalog",
		IsPublished: true,
	}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/shop/spring-catalog", nil)
	req = withURLParam(req, "slug", "spring-catalog")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data shopPageDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Slug != "spring-catalog" || !envelope.Data.IsPublished {
		t.Fatalf("unexpected page payload %+v", envelope.Data)
	}
}

func TestGetPublicShopPageDraftHidden(t *testing.T) {
	handler := GetPublicShopPage(stubShopPageService{err: pkgerrors.New(pkgerrors.CodeNotFound, "shop page not found")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/shop/unpublished-draft", nil)
	req = withURLParam(req, "slug", "unpublished-draft")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCreateShopPageUnknownSectionKind(t *testing.T) {
	handler := CreateShopPage(stubShopPageService{}, nil)

	body := `{"slug":"landing","title":"Landing","sections":[{"kind":"carousel","payload":{"items":[]}}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shop-pages", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateShopPageDuplicateSlug(t *testing.T) {
	handler := CreateShopPage(stubShopPageService{err: pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")}, nil)

	body := `{"slug":"landing","title":"Landing","sections":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shop-pages", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
