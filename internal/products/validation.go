package product

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/enums"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// Input is the admin product form.
type Input struct {
	Title         string              `json:"title"`
	CategoryID    string              `json:"category_id"`
	Description   *string             `json:"description"`
	Price         decimal.NullDecimal `json:"price"`
	Currency      string              `json:"currency"`
	StockQuantity *int                `json:"stock_quantity"`
	Images        []string            `json:"images"`
	Specs         types.Specs         `json:"specs"`
	Featured      bool                `json:"featured"`
}

// validated is Input after every check has passed.
type validated struct {
	Input
	categoryID uuid.UUID
	currency   enums.Currency
	stock      int
}

// validate checks title, category, price and stock in that order and reports
// all failures; the first one names the error message.
func validate(in Input) (validated, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.CategoryID = strings.TrimSpace(in.CategoryID)

	var fields pkgerrors.FieldErrors
	if in.Title == "" {
		fields.Add("title", "is required")
	}

	var categoryID uuid.UUID
	if in.CategoryID == "" {
		fields.Add("category_id", "is required")
	} else if id, err := uuid.Parse(in.CategoryID); err != nil {
		fields.Add("category_id", "must be a valid category")
	} else {
		categoryID = id
	}

	if !in.Price.Valid || !in.Price.Decimal.IsPositive() {
		fields.Add("price", "must be greater than 0")
	}
	var stock int
	switch {
	case in.StockQuantity == nil:
		fields.Add("stock_quantity", "is required")
	case *in.StockQuantity < 0:
		fields.Add("stock_quantity", "must be 0 or more")
	default:
		stock = *in.StockQuantity
	}

	currency, err := enums.ParseCurrency(in.Currency)
	if err != nil {
		fields.Add("currency", "is not supported")
	}

	if err := fields.Err(); err != nil {
		return validated{}, err
	}
	return validated{Input: in, categoryID: categoryID, currency: currency, stock: stock}, nil
}
