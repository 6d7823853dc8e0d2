// Package cart manages the shopper's cart: an ordered product to quantity
// collection persisted per browsing session.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/enums"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// Item is a product snapshot taken when the product was added plus the
// requested quantity. Later catalog changes do not touch it.
type Item struct {
	ProductID     uuid.UUID        `json:"product_id"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Price         decimal.Decimal  `json:"price"`
	Currency      enums.Currency   `json:"currency"`
	Images        types.StringList `json:"images"`
	StockQuantity int              `json:"stock_quantity"`
	Quantity      int              `json:"quantity"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SnapshotOf copies the cart-relevant fields of a product.
func SnapshotOf(p models.Product) Item {
	images := p.Images
	if images == nil {
		images = types.StringList{}
	}
	return Item{
		ProductID:     p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Price:         p.Price,
		Currency:      p.Currency,
		Images:        images,
		StockQuantity: p.StockQuantity,
	}
}

// Store is the in-memory ordered collection. It enforces no stock bound;
// callers clamp before mutating.
type Store struct {
	items []Item
}

// NewStore seeds a store with previously persisted items.
func NewStore(items []Item) *Store {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return &Store{items: out}
}

// AddItem increments an existing entry or appends a new one.
func (s *Store) AddItem(product Item, quantity int) {
	if quantity <= 0 {
		return
	}
	if idx := s.index(product.ProductID); idx >= 0 {
		s.items[idx].Quantity += quantity
		return
	}
	product.Quantity = quantity
	s.items = append(s.items, product)
}

// UpdateQuantity sets the quantity of an existing entry. Zero or less removes
// it; an unknown product is ignored.
func (s *Store) UpdateQuantity(productID uuid.UUID, quantity int) {
	idx := s.index(productID)
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		s.removeAt(idx)
		return
	}
	s.items[idx].Quantity = quantity
}

// RefreshStock replaces the stock snapshot of an existing entry.
func (s *Store) RefreshStock(productID uuid.UUID, stock int) {
	if idx := s.index(productID); idx >= 0 {
		s.items[idx].StockQuantity = stock
	}
}

func (s *Store) RemoveItem(productID uuid.UUID) {
	if idx := s.index(productID); idx >= 0 {
		s.removeAt(idx)
	}
}

func (s *Store) Clear() {
	s.items = nil
}

// Subtotal sums line totals over the current entries.
func (s *Store) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Items returns a copy of the entries in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count sums quantities.
func (s *Store) Count() int {
	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

// Find returns the entry for productID.
func (s *Store) Find(productID uuid.UUID) (Item, bool) {
	if idx := s.index(productID); idx >= 0 {
		return s.items[idx], true
	}
	return Item{}, false
}

func (s *Store) index(productID uuid.UUID) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(idx int) {
	s.items = append(s.items[:idx], s.items[idx+1:]...)
}
