package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/enums"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// Product is a sellable catalog listing. CategoryID is a weak reference and
// may point at a category that no longer exists.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Title         string           `gorm:"column:title;not null"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex"`
	CategoryID    *uuid.UUID       `gorm:"column:category_id;type:uuid;index"`
	Category      *Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Description   *string          `gorm:"column:description"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Currency      enums.Currency   `gorm:"column:currency;not null;default:USD"`
	Images        types.StringList `gorm:"column:images;not null"`
	Specs         types.Specs      `gorm:"column:specs;not null"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0"`
	Featured      bool             `gorm:"column:featured;not null;default:false;index"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime;index"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Currency == "" {
		p.Currency = enums.CurrencyUSD
	}
	if p.Images == nil {
		p.Images = types.StringList{}
	}
	if p.Specs == nil {
		p.Specs = types.Specs{}
	}
	return nil
}
