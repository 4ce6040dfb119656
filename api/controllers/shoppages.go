package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/vendapoint-backend/api/responses"
	"github.com/dcastellanos/vendapoint-backend/api/validators"
	shoppagesvc "github.com/dcastellanos/vendapoint-backend/internal/shoppages"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

type shopSectionRequest struct {
	Kind    string          `json:"kind" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

type createShopPageRequest struct {
	Slug     string               `json:"slug" validate:"required"`
	Title    string               `json:"title" validate:"required"`
	Sections []shopSectionRequest `json:"sections" validate:"dive"`
}

type updateShopPageRequest struct {
	Title    string               `json:"title" validate:"required"`
	Sections []shopSectionRequest `json:"sections" validate:"dive"`
}

func sectionInputs(in []shopSectionRequest) ([]shoppagesvc.SectionInput, error) {
	out := make([]shoppagesvc.SectionInput, 0, len(in))
	for _, section := range in {
		kind, err := enums.ParseShopSectionKind(strings.TrimSpace(section.Kind))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid section kind")
		}
		out = append(out, shoppagesvc.SectionInput{Kind: kind, Payload: section.Payload})
	}
	return out, nil
}

// CreateShopPage creates a draft storefront page with its section list.
func CreateShopPage(svc shoppagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createShopPageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sections, err := sectionInputs(payload.Sections)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.CreatePage(r.Context(), shoppagesvc.CreatePageInput{
			Slug:     payload.Slug,
			Title:    payload.Title,
			Sections: sections,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, shopPageFromModel(page))
	}
}

// UpdateShopPage rewrites the title and replaces the section list wholesale.
func UpdateShopPage(svc shoppagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "pageID"), "pageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateShopPageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sections, err := sectionInputs(payload.Sections)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.UpdatePage(r.Context(), shoppagesvc.UpdatePageInput{
			PageID:   id,
			Title:    payload.Title,
			Sections: sections,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shopPageFromModel(page))
	}
}

func GetShopPage(svc shoppagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "pageID"), "pageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.GetPage(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shopPageFromModel(page))
	}
}

func ListShopPages(svc shoppagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages, err := svc.ListPages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shopPagesFromModels(pages))
	}
}

// PublishShopPage makes the page visible on the public endpoint.
func PublishShopPage(svc shoppagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "pageID"), "pageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Publish(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shopPageFromModel(page))
	}
}

// UnpublishShopPage pulls the page back to draft.
func UnpublishShopPage(svc shoppagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "pageID"), "pageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Unpublish(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shopPageFromModel(page))
	}
}

func DeleteShopPage(svc shoppagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "pageID"), "pageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePage(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetPublicShopPage serves a published page by slug. Drafts and unknown slugs
// look identical to the caller.
func GetPublicShopPage(svc shoppagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		page, err := svc.PublicBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shopPageFromModel(page))
	}
}
