package shoppages

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
)

type fakeRepo struct {
	pages    map[uuid.UUID]*models.ShopPage
	sections map[uuid.UUID][]models.ShopPageSection
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pages:    map[uuid.UUID]*models.ShopPage{},
		sections: map[uuid.UUID][]models.ShopPageSection{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) CreatePage(ctx context.Context, page *models.ShopPage) error {
	for _, existing := range f.pages {
		if existing.Slug == page.Slug {
			return pkgerrors.New(pkgerrors.CodeInternal, "duplicate key value violates unique constraint")
		}
	}
	page.ID = uuid.New()
	copied := *page
	f.pages[page.ID] = &copied
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ShopPage, error) {
	page, ok := f.pages[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop page not found")
	}
	out := *page
	out.Sections = f.sections[id]
	return &out, nil
}

func (f *fakeRepo) FindBySlug(ctx context.Context, slug string) (*models.ShopPage, error) {
	for id, page := range f.pages {
		if page.Slug == slug {
			out := *page
			out.Sections = f.sections[id]
			return &out, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop page not found")
}

func (f *fakeRepo) List(ctx context.Context) ([]models.ShopPage, error) {
	var out []models.ShopPage
	for _, page := range f.pages {
		out = append(out, *page)
	}
	return out, nil
}

func (f *fakeRepo) UpdatePage(ctx context.Context, page *models.ShopPage) error {
	copied := *page
	f.pages[page.ID] = &copied
	return nil
}

func (f *fakeRepo) ReplaceSections(ctx context.Context, pageID uuid.UUID, sections []models.ShopPageSection) error {
	f.sections[pageID] = sections
	return nil
}

func (f *fakeRepo) DeletePage(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.pages[id]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shop page not found")
	}
	delete(f.pages, id)
	delete(f.sections, id)
	return nil
}

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(Params{
		Repo: repo,
		Tx:   fakeTx{},
		Now:  func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func heroSection() SectionInput {
	return SectionInput{
		Kind:    enums.ShopSectionKindHero,
		Payload: json.RawMessage(`{"headline":"Welcome"}`),
	}
}

func TestCreatePageOrdersSections(t *testing.T) {
	svc := newService(t, newFakeRepo())

	page, err := svc.CreatePage(context.Background(), CreatePageInput{
		Slug:  "spring-sale",
		Title: "Spring Sale",
		Sections: []SectionInput{
			heroSection(),
			{Kind: enums.ShopSectionKindProductGrid, Payload: json.RawMessage(`{"limit":8}`)},
			{Kind: enums.ShopSectionKindRichText, Payload: json.RawMessage(`{"html":"<p>hi</p>"}`)},
		},
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if len(page.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(page.Sections))
	}
	for i, section := range page.Sections {
		if section.Position != i {
			t.Fatalf("section %d has position %d", i, section.Position)
		}
	}
	if page.IsPublished {
		t.Fatal("new pages must start unpublished")
	}
}

func TestCreatePageValidation(t *testing.T) {
	svc := newService(t, newFakeRepo())
	ctx := context.Background()

	cases := map[string]CreatePageInput{
		"bad slug":        {Slug: "Spring Sale!", Title: "x", Sections: []SectionInput{heroSection()}},
		"empty title":     {Slug: "ok-slug", Title: "  ", Sections: []SectionInput{heroSection()}},
		"bad kind":        {Slug: "ok-slug", Title: "x", Sections: []SectionInput{{Kind: "carousel", Payload: json.RawMessage(`{}`)}}},
		"invalid payload": {Slug: "ok-slug", Title: "x", Sections: []SectionInput{{Kind: enums.ShopSectionKindHero, Payload: json.RawMessage(`{`)}}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreatePage(ctx, input)
			pkgErr := pkgerrors.As(err)
			if pkgErr == nil || pkgErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreatePageDuplicateSlug(t *testing.T) {
	svc := newService(t, newFakeRepo())
	ctx := context.Background()

	input := CreatePageInput{Slug: "about", Title: "About", Sections: []SectionInput{heroSection()}}
	if _, err := svc.CreatePage(ctx, input); err != nil {
		t.Fatalf("first CreatePage: %v", err)
	}
	_, err := svc.CreatePage(ctx, input)
	pkgErr := pkgerrors.As(err)
	if pkgErr == nil || pkgErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPublicBySlugHidesDrafts(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(t, repo)
	ctx := context.Background()

	page, err := svc.CreatePage(ctx, CreatePageInput{
		Slug: "landing", Title: "Landing", Sections: []SectionInput{heroSection()},
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	_, err = svc.PublicBySlug(ctx, "landing")
	pkgErr := pkgerrors.As(err)
	if pkgErr == nil || pkgErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("draft must read as missing, got %v", err)
	}

	published, err := svc.Publish(ctx, page.ID)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("publish must stamp PublishedAt")
	}

	got, err := svc.PublicBySlug(ctx, "LANDING")
	if err != nil {
		t.Fatalf("PublicBySlug after publish: %v", err)
	}
	if got.Slug != "landing" {
		t.Fatalf("slug = %q", got.Slug)
	}

	if _, err := svc.Unpublish(ctx, page.ID); err != nil {
		t.Fatalf("Unpublish: %v", err)
	}
	if _, err := svc.PublicBySlug(ctx, "landing"); err == nil {
		t.Fatal("unpublished page must be hidden again")
	}
}

func TestUpdatePageReplacesSections(t *testing.T) {
	svc := newService(t, newFakeRepo())
	ctx := context.Background()

	page, err := svc.CreatePage(ctx, CreatePageInput{
		Slug: "home", Title: "Home",
		Sections: []SectionInput{heroSection(), heroSection()},
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	updated, err := svc.UpdatePage(ctx, UpdatePageInput{
		PageID: page.ID,
		Title:  "Home v2",
		Sections: []SectionInput{
			{Kind: enums.ShopSectionKindBanner, Payload: json.RawMessage(`{"text":"sale"}`)},
		},
	})
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if updated.Title != "Home v2" {
		t.Fatalf("title = %q", updated.Title)
	}
	if len(updated.Sections) != 1 || updated.Sections[0].Kind != enums.ShopSectionKindBanner {
		t.Fatalf("sections not replaced: %+v", updated.Sections)
	}
}
