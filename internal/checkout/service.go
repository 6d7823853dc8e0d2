// Package checkout converts a cart plus a shipping form into a single pending
// order.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/cart"
	pricing "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/checkout"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/enums"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/pubsub"
	redisclient "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

// ErrEmptyCart is returned when there is nothing to check out.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")

type cartService interface {
	Load(ctx context.Context, token string) (*cart.Store, error)
	Clear(ctx context.Context, token string) error
}

// OrderWriter performs the one order insert of a checkout.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *models.Order) error
}

type confirmationStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CheckoutConfirmationKey(token string) string
}

type eventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

type checkoutMetrics interface {
	ObserveOrderPlaced(total decimal.Decimal)
	IncCheckoutFailure()
}

// Confirmation is what the shopper sees right after placing an order.
type Confirmation struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	CustomerEmail string    `json:"customer_email"`
	ItemCount     int       `json:"item_count"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summary is the checkout page: the cart being paid for, or the confirmation
// of an order that just emptied it.
type Summary struct {
	Cart         *cart.View    `json:"cart,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// OrderCreatedEvent is published after a successful checkout.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID        `json:"order_id"`
	OrderNumber   string           `json:"order_number"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	Items         types.OrderItems `json:"items"`
	Total         decimal.Decimal  `json:"total"`
}

// Config wires the collaborators. Events and Metrics are optional.
type Config struct {
	Cart            cartService
	Orders          OrderWriter
	Confirmations   confirmationStore
	ConfirmationTTL time.Duration
	Events          eventPublisher
	Metrics         checkoutMetrics
	Logger          *logger.Logger
}

type Service struct {
	cart            cartService
	orders          OrderWriter
	confirmations   confirmationStore
	confirmationTTL time.Duration
	events          eventPublisher
	metrics         checkoutMetrics
	logg            *logger.Logger
	numbers         *OrderNumberGenerator
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if cfg.Orders == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if cfg.Confirmations == nil {
		return nil, fmt.Errorf("confirmation store required")
	}
	logg := cfg.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	ttl := cfg.ConfirmationTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		cart:            cfg.Cart,
		orders:          cfg.Orders,
		confirmations:   cfg.Confirmations,
		confirmationTTL: ttl,
		events:          cfg.Events,
		metrics:         cfg.Metrics,
		logg:            logg,
		numbers:         NewOrderNumberGenerator(),
	}, nil
}

// Summary returns the cart about to be checked out. An empty cart yields the
// confirmation recorded for the token, or ErrEmptyCart when there is none.
func (s *Service) Summary(ctx context.Context, token string) (Summary, error) {
	store, err := s.cart.Load(ctx, token)
	if err != nil {
		return Summary{}, err
	}
	if !store.IsEmpty() {
		view := cart.NewView(store)
		return Summary{Cart: &view}, nil
	}
	confirmation, err := s.lastConfirmation(ctx, token)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "checkout.confirmation_lookup_failed")
	}
	if confirmation == nil {
		return Summary{}, ErrEmptyCart
	}
	return Summary{Confirmation: confirmation}, nil
}

// PlaceOrder validates the form, inserts one pending order built from the
// cart snapshot and clears the cart. The cart is left untouched on failure.
func (s *Service) PlaceOrder(ctx context.Context, token string, form ShippingForm) (Confirmation, error) {
	store, err := s.cart.Load(ctx, token)
	if err != nil {
		return Confirmation{}, err
	}
	if store.IsEmpty() {
		return Confirmation{}, ErrEmptyCart
	}

	form = form.normalize()
	if err := form.Validate(); err != nil {
		return Confirmation{}, err
	}

	number, err := s.numbers.Next()
	if err != nil {
		return Confirmation{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}
	order := BuildOrder(store.Items(), form, number)
	ctx = s.logg.WithOrderNumber(ctx, number)

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if s.metrics != nil {
			s.metrics.IncCheckoutFailure()
		}
		s.logg.Error(ctx, "checkout.create_order_failed", err)
		if pkgerrors.As(err) != nil {
			return Confirmation{}, err
		}
		return Confirmation{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order")
	}

	confirmation := Confirmation{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerEmail: order.CustomerEmail,
		ItemCount:     order.Items.Count(),
		Total:         order.Total.InexactFloat64(),
		CreatedAt:     order.CreatedAt,
	}

	// The order exists from here on; follow-up failures are logged only.
	if err := s.cart.Clear(ctx, token); err != nil {
		s.logg.Error(ctx, "checkout.clear_cart_failed", err)
	}
	if err := s.remember(ctx, token, confirmation); err != nil {
		s.logg.Error(ctx, "checkout.remember_confirmation_failed", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveOrderPlaced(order.Total)
	}
	s.publish(ctx, order)
	s.logg.Info(ctx, "checkout.order_placed")
	return confirmation, nil
}

// BuildOrder snapshots cart lines and totals into a pending order.
func BuildOrder(items []cart.Item, form ShippingForm, number string) *models.Order {
	lines := make(types.OrderItems, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		lines = append(lines, types.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Image:     item.Images.First(),
		})
		subtotal = subtotal.Add(item.LineTotal())
	}
	totals := pricing.ComputeTotals(subtotal)
	return &models.Order{
		OrderNumber:     number,
		CustomerName:    form.CustomerName,
		CustomerEmail:   form.CustomerEmail,
		ShippingAddress: form.Address(),
		Items:           lines,
		Subtotal:        totals.Subtotal,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Status:          string(enums.OrderStatusPending),
	}
}

func (s *Service) remember(ctx context.Context, token string, confirmation Confirmation) error {
	payload, err := json.Marshal(confirmation)
	if err != nil {
		return err
	}
	return s.confirmations.Set(ctx, s.confirmations.CheckoutConfirmationKey(token), payload, s.confirmationTTL)
}

func (s *Service) lastConfirmation(ctx context.Context, token string) (*Confirmation, error) {
	raw, err := s.confirmations.Get(ctx, s.confirmations.CheckoutConfirmationKey(token))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var confirmation Confirmation
	if err := json.Unmarshal([]byte(raw), &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (s *Service) publish(ctx context.Context, order *models.Order) {
	if s.events == nil {
		return
	}
	event := OrderCreatedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Items:         order.Items,
		Total:         order.Total,
	}
	if err := s.events.Publish(ctx, pubsub.EventOrderCreated, event); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "checkout.publish_order_created_failed")
	}
}
