package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/responses"
	"github.com/tarekmechtaoui-svg/issaqadmin3/api/validators"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/orders"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

// AdminOrders lists orders filtered by status, customer and a created_at
// date range (from/to as YYYY-MM-DD).
func AdminOrders(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters, err := orders.ParseFilters(q.Get("status"), q.Get("customer"), q.Get("from"), q.Get("to"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminOrderItems(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.Items(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// AdminDeleteOrder requires ?confirm=true.
func AdminDeleteOrder(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id, validators.Confirmed(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
