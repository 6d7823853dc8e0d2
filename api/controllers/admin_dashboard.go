package controllers

import (
	"net/http"

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/responses"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

func AdminDashboard(svc DashboardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
