package dashboard

import (
	"context"

	"gorm.io/gorm"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/repo"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
)

type Repository interface {
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	CountProducts(ctx context.Context) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.DB(ctx).Order("created_at DESC").Order("id").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (r *repository) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}
