package checkout

import (
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/validation"
)

// ShippingForm is the customer and delivery data collected at checkout.
// FullName is the delivery recipient, which may differ from the customer.
type ShippingForm struct {
	CustomerName  string  `json:"customer_name" validate:"required,max=200"`
	CustomerEmail string  `json:"customer_email" validate:"required,email,max=254"`
	FullName      string  `json:"full_name" validate:"required,max=200"`
	AddressLine1  string  `json:"address_line1" validate:"required,max=200"`
	AddressLine2  *string `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	City          string  `json:"city" validate:"required,max=100"`
	State         string  `json:"state" validate:"required,max=100"`
	PostalCode    string  `json:"postal_code" validate:"required,max=20"`
	Country       string  `json:"country" validate:"max=100"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=40"`
}

var formValidator = validation.New()

func (f ShippingForm) normalize() ShippingForm {
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.CustomerEmail = strings.ToLower(strings.TrimSpace(f.CustomerEmail))
	addr := f.Address()
	f.FullName = addr.FullName
	f.AddressLine1 = addr.AddressLine1
	f.AddressLine2 = addr.AddressLine2
	f.City = addr.City
	f.State = addr.State
	f.PostalCode = addr.PostalCode
	f.Country = addr.Country
	f.Phone = addr.Phone
	return f
}

// Validate reports every failing field, naming the first in the message.
func (f ShippingForm) Validate() error {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping form")
	}
	var fields pkgerrors.FieldErrors
	for _, fe := range errs {
		fields.Add(fe.Field(), validation.Message(fe))
	}
	return fields.Err()
}

// Address converts the form into the stored shipping address.
func (f ShippingForm) Address() types.ShippingAddress {
	return types.ShippingAddress{
		FullName:     f.FullName,
		AddressLine1: f.AddressLine1,
		AddressLine2: f.AddressLine2,
		City:         f.City,
		State:        f.State,
		PostalCode:   f.PostalCode,
		Country:      f.Country,
		Phone:        f.Phone,
	}.Normalize()
}
