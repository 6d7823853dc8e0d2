package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/repo"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/pagination"
)

// SortField is a product column listings may be ordered by.
type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortPrice     SortField = "price"
)

// ProductQuery narrows a product listing. Zero values mean "no filter".
type ProductQuery struct {
	CategoryID *uuid.UUID
	Featured   *bool
	Sort       SortField
	Ascending  bool
	Page       pagination.Params
}

// Repository reads categories and products for the storefront.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.DB(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCategoryBySlug loads a single category.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListProducts applies the query filters, ordering, and pagination.
func (r *Repository) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	tx := r.DB(ctx).Model(&models.Product{})
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.Featured != nil {
		tx = tx.Where("featured = ?", *q.Featured)
	}

	sort := q.Sort
	if sort != SortPrice {
		sort = SortCreatedAt
	}
	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}
	tx = tx.Order(string(sort) + " " + direction).Order("id ASC")

	var rows []models.Product
	if err := tx.Scopes(repo.Paginate(q.Page)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchProducts matches term against title or description, case-insensitively,
// newest first.
func (r *Repository) SearchProducts(ctx context.Context, term string, page pagination.Params) ([]models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	var rows []models.Product
	err := r.DB(ctx).
		Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\\'", pattern, pattern).
		Order("created_at DESC").
		Order("id ASC").
		Scopes(repo.Paginate(page)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindProductBySlug loads a product together with its category.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Preload("Category").Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductByID loads a product by primary key.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
