package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/auth"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/cart"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/catalog"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/categories"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/checkout"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/dashboard"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/media"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/orders"
	product "github.com/tarekmechtaoui-svg/issaqadmin3/internal/products"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/auth/session"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// CatalogService is the storefront read model.
type CatalogService interface {
	Home(ctx context.Context) ([]catalog.ProductDTO, error)
	Categories(ctx context.Context) ([]catalog.CategoryDTO, error)
	Products(ctx context.Context, in catalog.ListInput) (types.Page[catalog.ProductDTO], error)
	ProductBySlug(ctx context.Context, slug string) (catalog.ProductDTO, error)
}

type CartService interface {
	Get(ctx context.Context, token string) (cart.View, error)
	Add(ctx context.Context, token string, productID uuid.UUID, qty int) (cart.View, error)
	Update(ctx context.Context, token string, productID uuid.UUID, qty int) (cart.View, error)
	Remove(ctx context.Context, token string, productID uuid.UUID) (cart.View, error)
	Clear(ctx context.Context, token string) error
}

type CheckoutService interface {
	Summary(ctx context.Context, token string) (checkout.Summary, error)
	PlaceOrder(ctx context.Context, token string, form checkout.ShippingForm) (checkout.Confirmation, error)
}

type AuthService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error)
	Refresh(ctx context.Context, accessToken string, req auth.RefreshRequest) (*auth.TokenResponse, error)
	Logout(ctx context.Context, accessID string) error
	Session(ctx context.Context, accessID string) (session.Session, error)
}

type DashboardService interface {
	Summary(ctx context.Context) (dashboard.Summary, error)
}

type OrdersService interface {
	List(ctx context.Context, filters orders.Filters) (orders.ListResult, error)
	Items(ctx context.Context, id uuid.UUID) ([]orders.ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
}

type ProductsService interface {
	List(ctx context.Context) (product.ListResult, error)
	Create(ctx context.Context, in product.Input) (catalog.ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, in product.Input) (catalog.ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoriesService interface {
	List(ctx context.Context) (categories.ListResult, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) (catalog.CategoryDTO, error)
	Edit(ctx context.Context, id uuid.UUID)
}

type ImageUploader interface {
	Upload(ctx context.Context, files []media.File) media.Report
}
