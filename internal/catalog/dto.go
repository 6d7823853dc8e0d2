package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// CategoryDTO is the public shape of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductDTO is the public shape of a product.
type ProductDTO struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	Category      *CategoryDTO     `json:"category,omitempty"`
	Description   *string          `json:"description"`
	Price         float64          `json:"price"`
	Currency      string           `json:"currency"`
	Images        types.StringList `json:"images"`
	Specs         types.Specs      `json:"specs"`
	StockQuantity int              `json:"stock_quantity"`
	InStock       bool             `json:"in_stock"`
	Featured      bool             `json:"featured"`
	CreatedAt     time.Time        `json:"created_at"`
}

func NewCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func NewProductDTO(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		CategoryID:    p.CategoryID,
		Description:   p.Description,
		Price:         p.Price.Round(2).InexactFloat64(),
		Currency:      p.Currency.String(),
		Images:        p.Images,
		Specs:         p.Specs,
		StockQuantity: p.StockQuantity,
		InStock:       p.StockQuantity > 0,
		Featured:      p.Featured,
		CreatedAt:     p.CreatedAt,
	}
	if dto.Images == nil {
		dto.Images = types.StringList{}
	}
	if dto.Specs == nil {
		dto.Specs = types.Specs{}
	}
	if p.Category != nil {
		category := NewCategoryDTO(*p.Category)
		dto.Category = &category
	}
	return dto
}

func NewCategoryDTOs(rows []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewCategoryDTO(row))
	}
	return out
}

func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewProductDTO(row))
	}
	return out
}
