package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/auth"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/cart"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/catalog"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/categories"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/checkout"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/media"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/orders"
	product "github.com/tarekmechtaoui-svg/issaqadmin3/internal/products"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/auth/session"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

type stubCatalog struct {
	home     func(context.Context) ([]catalog.ProductDTO, error)
	products func(context.Context, catalog.ListInput) (types.Page[catalog.ProductDTO], error)
	bySlug   func(context.Context, string) (catalog.ProductDTO, error)
}

func (s stubCatalog) Home(ctx context.Context) ([]catalog.ProductDTO, error) { return s.home(ctx) }
func (s stubCatalog) Categories(context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{}, nil
}
func (s stubCatalog) Products(ctx context.Context, in catalog.ListInput) (types.Page[catalog.ProductDTO], error) {
	return s.products(ctx, in)
}
func (s stubCatalog) ProductBySlug(ctx context.Context, slug string) (catalog.ProductDTO, error) {
	return s.bySlug(ctx, slug)
}

type stubCart struct {
	lastToken string
	lastID    uuid.UUID
	lastQty   int
	cleared   bool
	err       error
}

func (s *stubCart) Get(_ context.Context, token string) (cart.View, error) {
	s.lastToken = token
	return cart.View{}, s.err
}
func (s *stubCart) Add(_ context.Context, token string, id uuid.UUID, qty int) (cart.View, error) {
	s.lastToken, s.lastID, s.lastQty = token, id, qty
	return cart.View{Count: qty}, s.err
}
func (s *stubCart) Update(_ context.Context, token string, id uuid.UUID, qty int) (cart.View, error) {
	s.lastToken, s.lastID, s.lastQty = token, id, qty
	return cart.View{Count: qty}, s.err
}
func (s *stubCart) Remove(_ context.Context, token string, id uuid.UUID) (cart.View, error) {
	s.lastToken, s.lastID = token, id
	return cart.View{}, s.err
}
func (s *stubCart) Clear(_ context.Context, token string) error {
	s.lastToken, s.cleared = token, true
	return s.err
}

type stubCheckout struct {
	summary func(context.Context, string) (checkout.Summary, error)
	place   func(context.Context, string, checkout.ShippingForm) (checkout.Confirmation, error)
}

func (s stubCheckout) Summary(ctx context.Context, token string) (checkout.Summary, error) {
	return s.summary(ctx, token)
}
func (s stubCheckout) PlaceOrder(ctx context.Context, token string, form checkout.ShippingForm) (checkout.Confirmation, error) {
	return s.place(ctx, token, form)
}

type stubAuth struct {
	login       func(context.Context, auth.LoginRequest) (*auth.TokenResponse, error)
	refresh     func(context.Context, string, auth.RefreshRequest) (*auth.TokenResponse, error)
	loggedOut   string
	sessionFor  string
	sessionResp session.Session
	err         error
}

func (s *stubAuth) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	return s.login(ctx, req)
}
func (s *stubAuth) Refresh(ctx context.Context, token string, req auth.RefreshRequest) (*auth.TokenResponse, error) {
	return s.refresh(ctx, token, req)
}
func (s *stubAuth) Logout(_ context.Context, accessID string) error {
	s.loggedOut = accessID
	return s.err
}
func (s *stubAuth) Session(_ context.Context, accessID string) (session.Session, error) {
	s.sessionFor = accessID
	return s.sessionResp, s.err
}

type stubOrders struct {
	filters   orders.Filters
	deletedID uuid.UUID
	confirmed bool
	err       error
}

func (s *stubOrders) List(_ context.Context, f orders.Filters) (orders.ListResult, error) {
	s.filters = f
	return orders.ListResult{Orders: []orders.OrderDTO{}, Filters: f}, s.err
}
func (s *stubOrders) Items(context.Context, uuid.UUID) ([]orders.ItemDTO, error) {
	return []orders.ItemDTO{}, s.err
}
func (s *stubOrders) Delete(_ context.Context, id uuid.UUID, confirmed bool) error {
	s.deletedID, s.confirmed = id, confirmed
	if !confirmed {
		return orders.ErrConfirmationRequired
	}
	return s.err
}

type stubProducts struct {
	created product.Input
	err     error
}

func (s *stubProducts) List(context.Context) (product.ListResult, error) {
	return product.ListResult{}, s.err
}
func (s *stubProducts) Create(_ context.Context, in product.Input) (catalog.ProductDTO, error) {
	s.created = in
	return catalog.ProductDTO{Title: in.Title}, s.err
}
func (s *stubProducts) Update(_ context.Context, id uuid.UUID, in product.Input) (catalog.ProductDTO, error) {
	s.created = in
	return catalog.ProductDTO{ID: id, Title: in.Title}, s.err
}
func (s *stubProducts) Delete(context.Context, uuid.UUID) error { return s.err }

type stubCategories struct {
	edited    uuid.UUID
	confirmed bool
}

func (s *stubCategories) List(context.Context) (categories.ListResult, error) {
	return categories.ListResult{}, nil
}
func (s *stubCategories) Delete(_ context.Context, id uuid.UUID, confirmed bool) (catalog.CategoryDTO, error) {
	s.confirmed = confirmed
	if !confirmed {
		return catalog.CategoryDTO{}, categories.ErrConfirmationRequired
	}
	return catalog.CategoryDTO{ID: id, Name: "Audio"}, nil
}
func (s *stubCategories) Edit(_ context.Context, id uuid.UUID) { s.edited = id }

type stubUploader struct {
	names  []string
	bodies []string
}

func (s *stubUploader) Upload(_ context.Context, files []media.File) media.Report {
	var report media.Report
	for _, f := range files {
		data, _ := io.ReadAll(f.Body)
		s.names = append(s.names, f.Name)
		s.bodies = append(s.bodies, string(data))
		report.URLs = append(report.URLs, "https://cdn.test/"+f.Name)
	}
	return report
}
