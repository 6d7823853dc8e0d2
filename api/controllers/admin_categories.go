package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/responses"
	"github.com/tarekmechtaoui-svg/issaqadmin3/api/validators"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

// AdminCategories lists categories with their product counts.
func AdminCategories(svc CategoriesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminEditCategory acknowledges an edit request. Category edits are not
// persisted.
func AdminEditCategory(svc CategoriesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		svc.Edit(r.Context(), id)
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"id": id.String(), "status": "not_persisted"})
	}
}

// AdminDeleteCategory requires ?confirm=true and returns the removed category.
func AdminDeleteCategory(svc CategoriesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		removed, err := svc.Delete(r.Context(), id, validators.Confirmed(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, removed)
	}
}
