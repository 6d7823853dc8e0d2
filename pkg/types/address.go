package types

import (
	"database/sql/driver"
	"encoding/json"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DefaultCountry is prefilled on the checkout form.
const DefaultCountry = "United States"

// ShippingAddress is the structured delivery address stored on an order.
type ShippingAddress struct {
	FullName     string  `json:"full_name"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code"`
	Country      string  `json:"country"`
	Phone        *string `json:"phone,omitempty"`
}

// Normalize trims every field and drops blank optional ones.
func (a ShippingAddress) Normalize() ShippingAddress {
	out := ShippingAddress{
		FullName:     strings.TrimSpace(a.FullName),
		AddressLine1: strings.TrimSpace(a.AddressLine1),
		AddressLine2: trimOptional(a.AddressLine2),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		PostalCode:   strings.TrimSpace(a.PostalCode),
		Country:      strings.TrimSpace(a.Country),
		Phone:        trimOptional(a.Phone),
	}
	if out.Country == "" {
		out.Country = DefaultCountry
	}
	return out
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Value serializes the address to JSON.
func (a ShippingAddress) Value() (driver.Value, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan decodes the JSON column into the address.
func (a *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = ShippingAddress{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, a)
}

func (ShippingAddress) GormDataType() string { return "json" }

func (ShippingAddress) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}
