package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/checkout"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
)

type productLoader interface {
	Product(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// LineView is one cart row as rendered to the shopper.
type LineView struct {
	ProductID     uuid.UUID `json:"product_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Image         *string   `json:"image"`
	Price         float64   `json:"price"`
	Quantity      int       `json:"quantity"`
	StockQuantity int       `json:"stock_quantity"`
	LineTotal     float64   `json:"line_total"`
}

// View is the cart page: lines plus derived totals.
type View struct {
	Items                 []LineView `json:"items"`
	Count                 int        `json:"count"`
	Subtotal              float64    `json:"subtotal"`
	Shipping              float64    `json:"shipping"`
	Tax                   float64    `json:"tax"`
	Total                 float64    `json:"total"`
	FreeShippingRemaining float64    `json:"free_shipping_remaining"`
}

// Service applies stock clamping on top of Store and persists every change.
type Service struct {
	persister Persister
	products  productLoader
}

func NewService(persister Persister, products productLoader) *Service {
	return &Service{persister: persister, products: products}
}

// Load returns the store for token.
func (s *Service) Load(ctx context.Context, token string) (*Store, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	items, err := s.persister.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load cart")
	}
	return NewStore(items), nil
}

func (s *Service) Get(ctx context.Context, token string) (View, error) {
	store, err := s.Load(ctx, token)
	if err != nil {
		return View{}, err
	}
	return NewView(store), nil
}

// Add puts qty units of the product in the cart. qty is clamped to
// [1, stock] and the merged quantity never exceeds stock. Merging into an
// existing line refreshes its stock from the live product so the line and
// later Update calls agree with the bound it was clamped to.
func (s *Service) Add(ctx context.Context, token string, productID uuid.UUID, qty int) (View, error) {
	store, err := s.Load(ctx, token)
	if err != nil {
		return View{}, err
	}
	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return View{}, err
	}
	if product.StockQuantity <= 0 {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "out of stock").
			WithDetails(map[string]string{"product_id": "out of stock"})
	}

	qty = clamp(qty, 1, product.StockQuantity)
	snapshot := SnapshotOf(*product)
	if existing, ok := store.Find(productID); ok {
		merged := clamp(existing.Quantity+qty, 1, product.StockQuantity)
		store.RefreshStock(productID, product.StockQuantity)
		store.UpdateQuantity(productID, merged)
	} else {
		store.AddItem(snapshot, qty)
	}
	return s.save(ctx, token, store)
}

// Update sets the quantity of a line. qty of zero or less removes it; values
// above the snapshot stock clamp to stock.
func (s *Service) Update(ctx context.Context, token string, productID uuid.UUID, qty int) (View, error) {
	store, err := s.Load(ctx, token)
	if err != nil {
		return View{}, err
	}
	if existing, ok := store.Find(productID); ok && qty > existing.StockQuantity && existing.StockQuantity > 0 {
		qty = existing.StockQuantity
	}
	store.UpdateQuantity(productID, qty)
	return s.save(ctx, token, store)
}

func (s *Service) Remove(ctx context.Context, token string, productID uuid.UUID) (View, error) {
	store, err := s.Load(ctx, token)
	if err != nil {
		return View{}, err
	}
	store.RemoveItem(productID)
	return s.save(ctx, token, store)
}

func (s *Service) Clear(ctx context.Context, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	if err := s.persister.Save(ctx, token, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: clear cart")
	}
	return nil
}

func (s *Service) save(ctx context.Context, token string, store *Store) (View, error) {
	if err := s.persister.Save(ctx, token, store.Items()); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: save cart")
	}
	return NewView(store), nil
}

// NewView renders store with its derived totals.
func NewView(store *Store) View {
	items := store.Items()
	lines := make([]LineView, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineView{
			ProductID:     item.ProductID,
			Title:         item.Title,
			Slug:          item.Slug,
			Image:         item.Images.First(),
			Price:         money(item.Price),
			Quantity:      item.Quantity,
			StockQuantity: item.StockQuantity,
			LineTotal:     money(item.LineTotal()),
		})
	}
	totals := checkout.ComputeTotals(store.Subtotal())
	return View{
		Items:                 lines,
		Count:                 store.Count(),
		Subtotal:              money(totals.Subtotal),
		Shipping:              money(totals.Shipping),
		Tax:                   money(totals.Tax),
		Total:                 money(totals.Total),
		FreeShippingRemaining: money(totals.FreeShippingRemaining()),
	}
}

func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token required")
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
