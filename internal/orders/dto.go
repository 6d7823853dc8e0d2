package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// OrderDTO is one row of the admin order table.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	OrderNumber     string                `json:"order_number"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	ItemCount       int                   `json:"item_count"`
	Subtotal        float64               `json:"subtotal"`
	Shipping        float64               `json:"shipping"`
	Tax             float64               `json:"tax"`
	Total           float64               `json:"total"`
	Status          string                `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
}

// ItemDTO is one line of an order's detail view.
type ItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Image     *string   `json:"image,omitempty"`
}

func NewOrderDTO(o models.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		ItemCount:       ItemCount(o),
		Subtotal:        money(o.Subtotal),
		Shipping:        money(o.Shipping),
		Tax:             money(o.Tax),
		Total:           money(o.Total),
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
	}
}

func NewOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewOrderDTO(row))
	}
	return out
}

func NewItemDTOs(items types.OrderItems) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ItemDTO{
			ProductID: item.ProductID,
			Title:     item.DisplayTitle(),
			Quantity:  item.EffectiveQuantity(),
			Price:     money(item.Price),
			Image:     item.Image,
		})
	}
	return out
}

// ItemCount sums line quantities, counting a missing quantity as one.
func ItemCount(o models.Order) int {
	return o.Items.Count()
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
