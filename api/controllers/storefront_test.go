package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/middleware"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/cart"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/catalog"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/checkout"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

func TestCatalogProductsParsesQuery(t *testing.T) {
	var got catalog.ListInput
	svc := stubCatalog{products: func(_ context.Context, in catalog.ListInput) (types.Page[catalog.ProductDTO], error) {
		got = in
		return types.Page[catalog.ProductDTO]{Items: []catalog.ProductDTO{}, Query: in}, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=audio&featured=true&sort=PRICE&order=asc&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()
	CatalogProducts(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Category != "audio" || got.Sort != catalog.SortPrice || got.Order != "asc" {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.Featured == nil || !*got.Featured {
		t.Fatalf("expected featured filter")
	}
	if got.Page.Limit != 5 || got.Page.Offset != 10 {
		t.Fatalf("unexpected page %+v", got.Page)
	}
}

func TestCatalogProductsRejectsBadFlags(t *testing.T) {
	svc := stubCatalog{products: func(context.Context, catalog.ListInput) (types.Page[catalog.ProductDTO], error) {
		t.Fatal("service must not be called")
		return types.Page[catalog.ProductDTO]{}, nil
	}}
	for _, url := range []string{"/api/v1/products?featured=sometimes", "/api/v1/products?limit=abc"} {
		rec := httptest.NewRecorder()
		CatalogProducts(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", url, rec.Code)
		}
	}
}

func TestCatalogProductNotFound(t *testing.T) {
	svc := stubCatalog{bySlug: func(_ context.Context, slug string) (catalog.ProductDTO, error) {
		if slug != "missing" {
			t.Fatalf("unexpected slug %q", slug)
		}
		return catalog.ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil), "slug", "missing")
	rec := httptest.NewRecorder()
	CatalogProduct(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCartAddItemUsesCartToken(t *testing.T) {
	svc := &stubCart{}
	productID := uuid.New()
	body := `{"product_id":"` + productID.String() + `","quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithCartToken(req.Context(), "tok-1"))
	rec := httptest.NewRecorder()

	CartAddItem(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastToken != "tok-1" || svc.lastID != productID || svc.lastQty != 3 {
		t.Fatalf("unexpected call %+v", svc)
	}
	var view cart.View
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Count != 3 {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestCartAddItemRequiresProduct(t *testing.T) {
	rec := httptest.NewRecorder()
	CartAddItem(&stubCart{}, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":1}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error.Details["product_id"] == "" {
		t.Fatalf("expected product_id detail, got %+v", env.Error)
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	svc := &stubCart{}
	productID := uuid.New()

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"quantity":0}`)), "productId", productID.String())
	rec := httptest.NewRecorder()
	CartUpdateItem(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || svc.lastQty != 0 || svc.lastID != productID {
		t.Fatalf("update: code %d stub %+v", rec.Code, svc)
	}

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "productId", "nope")
	rec = httptest.NewRecorder()
	CartRemoveItem(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	CartClear(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	if rec.Code != http.StatusNoContent || !svc.cleared {
		t.Fatalf("clear: code %d cleared %v", rec.Code, svc.cleared)
	}
}

func TestCartDependencyFailure(t *testing.T) {
	svc := &stubCart{err: pkgerrors.Wrap(pkgerrors.CodeDependency, context.DeadlineExceeded, "redis: load cart")}
	rec := httptest.NewRecorder()
	CartGet(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}

func TestCheckoutSummaryRedirectsWhenEmpty(t *testing.T) {
	svc := stubCheckout{summary: func(context.Context, string) (checkout.Summary, error) {
		return checkout.Summary{}, checkout.ErrEmptyCart
	}}
	rec := httptest.NewRecorder()
	CheckoutSummary(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != CartPath {
		t.Fatalf("expected redirect to %s, got %s", CartPath, loc)
	}
}

func TestCheckoutSummaryReturnsCart(t *testing.T) {
	svc := stubCheckout{summary: func(_ context.Context, token string) (checkout.Summary, error) {
		if token != "tok-2" {
			t.Fatalf("unexpected token %q", token)
		}
		return checkout.Summary{Cart: &cart.View{Count: 2, Total: 40.5}}, nil
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	req = req.WithContext(middleware.WithCartToken(req.Context(), "tok-2"))
	rec := httptest.NewRecorder()
	CheckoutSummary(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestCheckoutPlaceOrder(t *testing.T) {
	var form checkout.ShippingForm
	svc := stubCheckout{place: func(_ context.Context, _ string, f checkout.ShippingForm) (checkout.Confirmation, error) {
		form = f
		return checkout.Confirmation{OrderNumber: "ISQ-ABC-1234", Total: 64.79}, nil
	}}
	body := `{"customer_name":"Ada","customer_email":"ada@example.com","full_name":"Ada","address_line1":"1 Main","city":"Austin","state":"TX","postal_code":"73301"}`
	rec := httptest.NewRecorder()
	CheckoutPlaceOrder(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if form.CustomerName != "Ada" || form.PostalCode != "73301" {
		t.Fatalf("form not forwarded: %+v", form)
	}
	var confirmation checkout.Confirmation
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &confirmation); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if confirmation.OrderNumber != "ISQ-ABC-1234" {
		t.Fatalf("unexpected confirmation %+v", confirmation)
	}
}

func TestCheckoutPlaceOrderRedirectsWhenEmpty(t *testing.T) {
	svc := stubCheckout{place: func(context.Context, string, checkout.ShippingForm) (checkout.Confirmation, error) {
		return checkout.Confirmation{}, checkout.ErrEmptyCart
	}}
	body := `{"customer_name":"Ada","customer_email":"ada@example.com","full_name":"Ada","address_line1":"1 Main","city":"Austin","state":"TX","postal_code":"73301"}`
	rec := httptest.NewRecorder()
	CheckoutPlaceOrder(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != CartPath {
		t.Fatalf("expected redirect to %s, got %s", CartPath, loc)
	}
}

func TestCheckoutPlaceOrderSurfacesFieldErrors(t *testing.T) {
	svc := stubCheckout{place: func(context.Context, string, checkout.ShippingForm) (checkout.Confirmation, error) {
		var fields pkgerrors.FieldErrors
		fields.Add("customer_email", "must be a valid email")
		return checkout.Confirmation{}, fields.Err()
	}}
	rec := httptest.NewRecorder()
	CheckoutPlaceOrder(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_email":"x"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error.Details["customer_email"] != "must be a valid email" {
		t.Fatalf("unexpected error %+v", env.Error)
	}
}
