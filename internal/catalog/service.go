package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/pagination"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// HomeFeaturedLimit is how many featured products the home page shows.
const HomeFeaturedLimit = 6

type repository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error)
	SearchProducts(ctx context.Context, term string, page pagination.Params) ([]models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ListInput is the declared input set of a product listing. It is echoed back
// with every page.
type ListInput struct {
	Category string            `json:"category,omitempty"`
	Search   string            `json:"search,omitempty"`
	Featured *bool             `json:"featured,omitempty"`
	Sort     SortField         `json:"sort"`
	Order    string            `json:"order"`
	Page     pagination.Params `json:"page"`
}

// Service exposes the storefront read model.
type Service struct {
	repo repository
	now  func() time.Time
}

func NewService(repo repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Home returns the featured products shown on the landing page.
func (s *Service) Home(ctx context.Context) ([]ProductDTO, error) {
	featured := true
	rows, err := s.repo.ListProducts(ctx, ProductQuery{
		Featured: &featured,
		Sort:     SortCreatedAt,
		Page:     pagination.Params{Limit: HomeFeaturedLimit},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list featured products")
	}
	return NewProductDTOs(rows), nil
}

// Categories lists every category by name.
func (s *Service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return NewCategoryDTOs(rows), nil
}

// Products runs a listing. A search term takes precedence over category and
// sort; an unknown category lists every product.
func (s *Service) Products(ctx context.Context, in ListInput) (types.Page[ProductDTO], error) {
	in, err := normalizeListInput(in)
	if err != nil {
		return types.Page[ProductDTO]{}, err
	}

	var rows []models.Product
	if in.Search != "" {
		rows, err = s.repo.SearchProducts(ctx, in.Search, in.Page)
		if err != nil {
			return types.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search products")
		}
	} else {
		categoryID, err := s.resolveCategory(ctx, in.Category)
		if err != nil {
			return types.Page[ProductDTO]{}, err
		}
		rows, err = s.repo.ListProducts(ctx, ProductQuery{
			CategoryID: categoryID,
			Featured:   in.Featured,
			Sort:       in.Sort,
			Ascending:  in.Order == "asc",
			Page:       in.Page,
		})
		if err != nil {
			return types.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
		}
	}

	return types.Page[ProductDTO]{
		Items:     NewProductDTOs(rows),
		Query:     in,
		FetchedAt: s.now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// ProductBySlug returns a product with its category.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (ProductDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get product")
	}
	return NewProductDTO(*product), nil
}

// Product loads the live product row used to snapshot cart entries.
func (s *Service) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get product")
	}
	return product, nil
}

func (s *Service) resolveCategory(ctx context.Context, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	if id, err := uuid.Parse(raw); err == nil {
		return &id, nil
	}
	category, err := s.repo.FindCategoryBySlug(ctx, raw)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get category")
	}
	return &category.ID, nil
}

func normalizeListInput(in ListInput) (ListInput, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Search = strings.TrimSpace(in.Search)
	in.Order = strings.ToLower(strings.TrimSpace(in.Order))
	in.Page = in.Page.Normalize()

	var fields pkgerrors.FieldErrors
	switch in.Sort {
	case "":
		in.Sort = SortCreatedAt
	case SortCreatedAt, SortPrice:
	default:
		fields.Add("sort", "must be one of price, created_at")
	}
	switch in.Order {
	case "":
		in.Order = "desc"
	case "asc", "desc":
	default:
		fields.Add("order", "must be asc or desc")
	}
	if err := fields.Err(); err != nil {
		return ListInput{}, err
	}
	return in, nil
}
