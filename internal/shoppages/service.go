package shoppages

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// SectionInput is one widget in a page's section list; order in the slice is
// the render order.
type SectionInput struct {
	Kind    enums.ShopSectionKind
	Payload json.RawMessage
}

// CreatePageInput creates a draft page.
type CreatePageInput struct {
	Slug     string
	Title    string
	Sections []SectionInput
}

// UpdatePageInput rewrites a page's title and section list.
type UpdatePageInput struct {
	PageID   uuid.UUID
	Title    string
	Sections []SectionInput
}

// Service manages storefront pages. Pages start unpublished; the public
// endpoint only sees them after Publish.
type Service interface {
	CreatePage(ctx context.Context, input CreatePageInput) (*models.ShopPage, error)
	UpdatePage(ctx context.Context, input UpdatePageInput) (*models.ShopPage, error)
	GetPage(ctx context.Context, id uuid.UUID) (*models.ShopPage, error)
	ListPages(ctx context.Context) ([]models.ShopPage, error)
	Publish(ctx context.Context, id uuid.UUID) (*models.ShopPage, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*models.ShopPage, error)
	DeletePage(ctx context.Context, id uuid.UUID) error
	PublicBySlug(ctx context.Context, slug string) (*models.ShopPage, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
	logg *logger.Logger
}

// Params collects the shop page service's collaborators.
type Params struct {
	Repo   Repository
	Tx     txRunner
	Now    func() time.Time
	Logger *logger.Logger
}

// NewService wires a shop page service.
func NewService(p Params) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("shop page repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: p.Repo, tx: p.Tx, now: now, logg: p.Logger}, nil
}

func (s *service) CreatePage(ctx context.Context, input CreatePageInput) (*models.ShopPage, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid slug %q", input.Slug))
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	sections, err := buildSections(input.Sections)
	if err != nil {
		return nil, err
	}

	page := &models.ShopPage{
		Slug:  slug,
		Title: strings.TrimSpace(input.Title),
	}
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreatePage(ctx, page); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("slug %q is already taken", slug))
			}
			return err
		}
		for i := range sections {
			sections[i].PageID = page.ID
		}
		return repo.ReplaceSections(ctx, page.ID, sections)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.repo.FindByID(ctx, page.ID)
}

func (s *service) UpdatePage(ctx context.Context, input UpdatePageInput) (*models.ShopPage, error) {
	if input.PageID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "page id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	sections, err := buildSections(input.Sections)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.FindByID(ctx, input.PageID)
	if err != nil {
		return nil, err
	}
	page.Title = strings.TrimSpace(input.Title)

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdatePage(ctx, page); err != nil {
			return err
		}
		for i := range sections {
			sections[i].PageID = page.ID
		}
		return repo.ReplaceSections(ctx, page.ID, sections)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.repo.FindByID(ctx, page.ID)
}

func (s *service) GetPage(ctx context.Context, id uuid.UUID) (*models.ShopPage, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "page id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListPages(ctx context.Context) ([]models.ShopPage, error) {
	return s.repo.List(ctx)
}

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*models.ShopPage, error) {
	return s.setPublished(ctx, id, true)
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*models.ShopPage, error) {
	return s.setPublished(ctx, id, false)
}

func (s *service) setPublished(ctx context.Context, id uuid.UUID, published bool) (*models.ShopPage, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "page id is required")
	}
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if page.IsPublished == published {
		return page, nil
	}
	page.IsPublished = published
	if published {
		at := s.now().UTC()
		page.PublishedAt = &at
	} else {
		page.PublishedAt = nil
	}
	if err := s.repo.UpdatePage(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *service) DeletePage(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "page id is required")
	}
	return s.repo.DeletePage(ctx, id)
}

// PublicBySlug answers the storefront. Unpublished pages are reported as
// missing, not forbidden, so the public cannot probe for drafts.
func (s *service) PublicBySlug(ctx context.Context, slug string) (*models.ShopPage, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	page, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !page.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop page not found")
	}
	return page, nil
}

func buildSections(inputs []SectionInput) ([]models.ShopPageSection, error) {
	sections := make([]models.ShopPageSection, 0, len(inputs))
	for i, in := range inputs {
		if !in.Kind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("section %d: invalid kind %q", i, in.Kind))
		}
		if len(in.Payload) == 0 || !json.Valid(in.Payload) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("section %d: payload must be valid json", i))
		}
		sections = append(sections, models.ShopPageSection{
			Kind:     in.Kind,
			Position: i,
			Payload:  in.Payload,
		})
	}
	return sections, nil
}
