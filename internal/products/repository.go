package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/repo"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
)

// Repository persists admin product edits.
type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// List returns every product with its category, newest first.
func (r *repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).Preload("Category").Order("created_at DESC").Order("id").Find(&rows).Error
	return rows, err
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB(ctx).Preload("Category").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Omit("Category").Create(product).Error
}

// Update overwrites every editable column; id and created_at are left alone.
func (r *repository) Update(ctx context.Context, product *models.Product) error {
	res := r.DB(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
		"title":          product.Title,
		"slug":           product.Slug,
		"category_id":    product.CategoryID,
		"description":    product.Description,
		"price":          product.Price,
		"currency":       product.Currency,
		"images":         product.Images,
		"specs":          product.Specs,
		"stock_quantity": product.StockQuantity,
		"featured":       product.Featured,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected > 0, res.Error
}
