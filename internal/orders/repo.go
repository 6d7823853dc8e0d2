package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/repo"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
)

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

// ListOrders returns every order, newest first.
func (r *repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.DB(ctx).Order("created_at DESC").Order("id").Find(&rows).Error
	return rows, err
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder reports whether a row was removed.
func (r *repository) DeleteOrder(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Order{})
	return res.RowsAffected > 0, res.Error
}
