package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// OrderItem is the line snapshot frozen into an order at creation time.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     *string         `json:"image,omitempty"`
}

// DisplayTitle prefers the title and falls back to the legacy name field.
func (i OrderItem) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// EffectiveQuantity treats a missing quantity as one unit.
func (i OrderItem) EffectiveQuantity() int {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

// OrderItems is the ordered list of line snapshots.
type OrderItems []OrderItem

// Count sums effective quantities across the lines.
func (items OrderItems) Count() int {
	total := 0
	for _, item := range items {
		total += item.EffectiveQuantity()
	}
	return total
}

func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		items = OrderItems{}
	}
	payload, err := json.Marshal([]OrderItem(items))
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

func (items *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*items = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded []OrderItem
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*items = decoded
	return nil
}

func (OrderItems) GormDataType() string { return "json" }

func (OrderItems) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}
