package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (bool, error)
}
