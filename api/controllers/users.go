package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/vendapoint-backend/api/responses"
	"github.com/dcastellanos/vendapoint-backend/api/validators"
	"github.com/dcastellanos/vendapoint-backend/internal/users"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

type setUserActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// ListUsers returns every back-office user, newest first.
func ListUsers(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]users.UserDTO, 0, len(found))
		for i := range found {
			out = append(out, *users.FromModel(&found[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// SetUserActive flips a user's active flag. Inactive users cannot log in.
func SetUserActive(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setUserActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.SetActive(r.Context(), id, *payload.IsActive); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
