package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/repo"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Category, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	if err := r.DB(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

// Delete detaches products before removing the category so the result is the
// same whether or not the database enforces ON DELETE SET NULL.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	removed := false
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0
		return nil
	})
	return removed, err
}
