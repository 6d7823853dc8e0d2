// Package product implements the admin product screen: list, create,
// update and delete.
package product

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/catalog"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/slug"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// ListResult is the product table plus the category selector options.
type ListResult struct {
	Products   []catalog.ProductDTO  `json:"products"`
	Categories []catalog.CategoryDTO `json:"categories"`
}

type Service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{repo: repo, logg: logg}
}

func (s *Service) List(ctx context.Context) (ListResult, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return ListResult{
		Products:   catalog.NewProductDTOs(products),
		Categories: catalog.NewCategoryDTOs(categories),
	}, nil
}

// Create validates the form and inserts the product. Nothing is written when
// validation fails.
func (s *Service) Create(ctx context.Context, in Input) (catalog.ProductDTO, error) {
	v, err := s.check(ctx, in)
	if err != nil {
		return catalog.ProductDTO{}, err
	}
	row := apply(&models.Product{}, v)
	if err := s.repo.Create(ctx, row); err != nil {
		return catalog.ProductDTO{}, writeError(err, "db: create product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", row.ID.String()), "admin.product_created")
	return s.reload(ctx, row.ID)
}

// Update overwrites the product and regenerates its slug from the title.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (catalog.ProductDTO, error) {
	v, err := s.check(ctx, in)
	if err != nil {
		return catalog.ProductDTO{}, err
	}
	row := apply(&models.Product{ID: id}, v)
	if err := s.repo.Update(ctx, row); err != nil {
		return catalog.ProductDTO{}, writeError(err, "db: update product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "admin.product_updated")
	return s.reload(ctx, id)
}

// Delete removes the product immediately.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "admin.product_deleted")
	return nil
}

func (s *Service) check(ctx context.Context, in Input) (validated, error) {
	v, err := validate(in)
	if err != nil {
		return validated{}, err
	}
	exists, err := s.repo.CategoryExists(ctx, v.categoryID)
	if err != nil {
		return validated{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get category")
	}
	if !exists {
		var fields pkgerrors.FieldErrors
		fields.Add("category_id", "must be a valid category")
		return validated{}, fields.Err()
	}
	return v, nil
}

func (s *Service) reload(ctx context.Context, id uuid.UUID) (catalog.ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return catalog.ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get product")
	}
	return catalog.NewProductDTO(*row), nil
}

func apply(row *models.Product, v validated) *models.Product {
	categoryID := v.categoryID
	images := make(types.StringList, 0, len(v.Images))
	for _, image := range v.Images {
		if image = strings.TrimSpace(image); image != "" {
			images = append(images, image)
		}
	}
	specs := v.Specs
	if specs == nil {
		specs = types.Specs{}
	}
	row.Title = v.Title
	row.Slug = slug.Make(v.Title)
	row.CategoryID = &categoryID
	row.Description = v.Description
	row.Price = v.Price.Decimal.Round(2)
	row.Currency = v.currency
	row.Images = images
	row.Specs = specs
	row.StockQuantity = v.stock
	row.Featured = v.Featured
	return row
}

func writeError(err error, msg string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a product with this slug already exists").
			WithDetails(map[string]string{"title": "produces a slug that is already taken"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
