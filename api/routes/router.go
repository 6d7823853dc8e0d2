package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/controllers"
	"github.com/tarekmechtaoui-svg/issaqadmin3/api/middleware"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/auth/session"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/config"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/enums"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/metrics"
	pkgredis "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis"
)

// checkoutReplayWindow bounds how long a repeated Idempotency-Key on POST
// /checkout replays the first order instead of placing another.
const checkoutReplayWindow = 24 * time.Hour

// RequestGuards is the Redis surface shared by login throttling and checkout
// idempotency.
type RequestGuards interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// Deps carries everything the HTTP surface is built from.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Guards    RequestGuards
	Sessions  session.AccessSessionChecker
	Readiness map[string]controllers.Pinger
	Gatherer  prometheus.Gatherer

	Catalog    controllers.CatalogService
	Cart       controllers.CartService
	Checkout   controllers.CheckoutService
	Auth       controllers.AuthService
	Dashboard  controllers.DashboardService
	Orders     controllers.OrdersService
	Products   controllers.ProductsService
	Categories controllers.CategoriesService
	Images     controllers.ImageUploader
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Readiness))
	})
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/home", controllers.CatalogHome(d.Catalog, logg))
		r.Get("/categories", controllers.CatalogCategories(d.Catalog, logg))
		r.Get("/products", controllers.CatalogProducts(d.Catalog, logg))
		r.Get("/products/{slug}", controllers.CatalogProduct(d.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartToken(cfg.Cart.TTL, cfg.App.IsProd(), logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(d.Cart, logg))
				r.Delete("/", controllers.CartClear(d.Cart, logg))
				r.Post("/items", controllers.CartAddItem(d.Cart, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(d.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(d.Cart, logg))
			})

			r.Get("/checkout", controllers.CheckoutSummary(d.Checkout, logg))
			r.With(middleware.Idempotency(d.Guards, checkoutReplayWindow, logg)).Post("/checkout", controllers.CheckoutPlaceOrder(d.Checkout, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.LoginThrottle(cfg.AuthRateLimit, d.Guards, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireRole(logg, enums.RoleAdmin))

		r.Get("/auth/session", controllers.AuthSession(d.Auth, logg))
		r.Post("/auth/logout", controllers.AuthLogout(d.Auth, logg))

		r.Get("/dashboard", controllers.AdminDashboard(d.Dashboard, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrders(d.Orders, logg))
			r.Get("/{orderId}/items", controllers.AdminOrderItems(d.Orders, logg))
			r.Delete("/{orderId}", controllers.AdminDeleteOrder(d.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProducts(d.Products, logg))
			r.Post("/", controllers.AdminCreateProduct(d.Products, logg))
			r.Post("/images", controllers.AdminUploadImages(d.Images, cfg.Media.MaxUploadBytes()*controllers.MaxImagesPerRequest, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(d.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(d.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategories(d.Categories, logg))
			r.Put("/{categoryId}", controllers.AdminEditCategory(d.Categories, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(d.Categories, logg))
		})
	})

	return r
}
