package controllers

import (
	"errors"
	"net/http"

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/middleware"
	"github.com/tarekmechtaoui-svg/issaqadmin3/api/responses"
	"github.com/tarekmechtaoui-svg/issaqadmin3/api/validators"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/checkout"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

// CartPath is where an empty checkout sends the shopper.
const CartPath = "/cart"

// CheckoutSummary shows the cart being checked out. With nothing to pay for and
// no recent order it redirects to the cart page.
func CheckoutSummary(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			if errors.Is(err, checkout.ErrEmptyCart) {
				http.Redirect(w, r, CartPath, http.StatusSeeOther)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CheckoutPlaceOrder validates the shipping form and records the order. An
// empty cart redirects to the cart page like CheckoutSummary does.
func CheckoutPlaceOrder(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form checkout.ShippingForm
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		confirmation, err := svc.PlaceOrder(r.Context(), middleware.CartTokenFromContext(r.Context()), form)
		if err != nil {
			if errors.Is(err, checkout.ErrEmptyCart) {
				http.Redirect(w, r, CartPath, http.StatusSeeOther)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}
