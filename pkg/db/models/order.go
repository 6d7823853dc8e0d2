package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// Order is a placed checkout. Items and totals are snapshots and never follow
// later product edits.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string                `gorm:"column:order_number;not null;index"`
	CustomerName    string                `gorm:"column:customer_name;not null"`
	CustomerEmail   string                `gorm:"column:customer_email;not null"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;not null"`
	Items           types.OrderItems      `gorm:"column:items;not null"`
	Subtotal        decimal.Decimal       `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Shipping        decimal.Decimal       `gorm:"column:shipping;type:numeric(10,2);not null"`
	Tax             decimal.Decimal       `gorm:"column:tax;type:numeric(10,2);not null"`
	Total           decimal.Decimal       `gorm:"column:total;type:numeric(10,2);not null"`
	Status          string                `gorm:"column:status;not null;default:pending"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime;index"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
