package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/cart"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/pubsub"
	redisclient "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis/redistest"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

const token = "cart-token"

type stubOrders struct {
	created []*models.Order
	err     error
}

func (s *stubOrders) CreateOrder(_ context.Context, order *models.Order) error {
	if s.err != nil {
		return s.err
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.created = append(s.created, order)
	return nil
}

type stubProducts map[uuid.UUID]models.Product

func (s stubProducts) Product(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

type recordedEvent struct {
	eventType string
	payload   any
}

type stubEvents struct {
	events []recordedEvent
	err    error
}

func (s *stubEvents) Publish(_ context.Context, eventType string, payload any) error {
	s.events = append(s.events, recordedEvent{eventType: eventType, payload: payload})
	return s.err
}

type stubMetrics struct {
	placed   []decimal.Decimal
	failures int
}

func (s *stubMetrics) ObserveOrderPlaced(total decimal.Decimal) { s.placed = append(s.placed, total) }
func (s *stubMetrics) IncCheckoutFailure()                      { s.failures++ }

type harness struct {
	svc      *Service
	carts    *cart.Service
	orders   *stubOrders
	events   *stubEvents
	metrics  *stubMetrics
	client   *redisclient.Client
	products stubProducts
}

func newHarness(t *testing.T) harness {
	t.Helper()
	client := redisclient.NewWithCmdable(redistest.NewCmdable())
	products := stubProducts{}
	carts := cart.NewService(cart.NewRedisPersister(client, time.Hour), products)
	h := harness{
		carts:    carts,
		orders:   &stubOrders{},
		events:   &stubEvents{},
		metrics:  &stubMetrics{},
		client:   client,
		products: products,
	}
	svc, err := NewService(Config{
		Cart:            carts,
		Orders:          h.orders,
		Confirmations:   client,
		ConfirmationTTL: time.Minute,
		Events:          h.events,
		Metrics:         h.metrics,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.numbers = &OrderNumberGenerator{
		now:    func() time.Time { return time.UnixMilli(1700000000000) },
		random: func(int) (int, error) { return 10, nil },
	}
	h.svc = svc
	return h
}

func (h harness) addProduct(t *testing.T, price string, qty int) models.Product {
	t.Helper()
	p := models.Product{
		ID:            uuid.New(),
		Title:         "Product " + price,
		Slug:          "product-" + price,
		Price:         decimal.RequireFromString(price),
		Images:        types.StringList{"https://cdn/" + price + ".png"},
		StockQuantity: 10,
	}
	h.products[p.ID] = p
	if _, err := h.carts.Add(context.Background(), token, p.ID, qty); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	return p
}

func validForm() ShippingForm {
	return ShippingForm{
		CustomerName:  " Ada Lovelace ",
		CustomerEmail: "Ada@Example.com",
		FullName:      " Ada Lovelace ",
		AddressLine1:  "1 Analytical Way",
		City:          "London",
		State:         "LDN",
		PostalCode:    "N1",
	}
}

func TestPlaceOrderCreatesPendingSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.addProduct(t, "19.99", 2)
	h.addProduct(t, "5.00", 1)

	confirmation, err := h.svc.PlaceOrder(ctx, token, validForm())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if confirmation.OrderNumber != "ISQ-LOYW3V28-AAAA" {
		t.Fatalf("order number = %q", confirmation.OrderNumber)
	}
	if len(h.orders.created) != 1 {
		t.Fatalf("expected a single insert, got %d", len(h.orders.created))
	}
	order := h.orders.created[0]
	if order.Status != "pending" {
		t.Fatalf("status = %q", order.Status)
	}
	if !order.Subtotal.Equal(decimal.RequireFromString("44.98")) ||
		!order.Shipping.Equal(decimal.RequireFromString("9.99")) ||
		!order.Tax.Equal(decimal.RequireFromString("3.60")) ||
		!order.Total.Equal(decimal.RequireFromString("58.57")) {
		t.Fatalf("unexpected totals %s %s %s %s", order.Subtotal, order.Shipping, order.Tax, order.Total)
	}
	if order.CustomerName != "Ada Lovelace" || order.CustomerEmail != "ada@example.com" {
		t.Fatalf("customer not normalized: %q %q", order.CustomerName, order.CustomerEmail)
	}
	if order.ShippingAddress.Country != types.DefaultCountry || order.ShippingAddress.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected address %+v", order.ShippingAddress)
	}
	if len(order.Items) != 2 || order.Items[0].ProductID != a.ID || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", order.Items)
	}
	if order.Items[0].Image == nil || *order.Items[0].Image != "https://cdn/19.99.png" {
		t.Fatalf("expected first image snapshot")
	}
	if confirmation.ItemCount != 3 || confirmation.Total != 58.57 {
		t.Fatalf("unexpected confirmation %+v", confirmation)
	}

	view, err := h.carts.Get(ctx, token)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if view.Count != 0 {
		t.Fatalf("cart not cleared")
	}
	if len(h.metrics.placed) != 1 || h.metrics.failures != 0 {
		t.Fatalf("unexpected metrics %+v", h.metrics)
	}
	if len(h.events.events) != 1 || h.events.events[0].eventType != pubsub.EventOrderCreated {
		t.Fatalf("expected order.created event, got %+v", h.events.events)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.PlaceOrder(context.Background(), token, validForm())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(h.orders.created) != 0 {
		t.Fatalf("no order should be created")
	}
}

func TestPlaceOrderValidationBlocksSubmission(t *testing.T) {
	h := newHarness(t)
	h.addProduct(t, "10.00", 1)

	form := validForm()
	form.CustomerEmail = "not-an-email"
	form.City = "  "
	_, err := h.svc.PlaceOrder(context.Background(), token, form)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["customer_email"] == "" || details["city"] != "is required" {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
	if typed.Message() != "customer_email must be a valid email" {
		t.Fatalf("message = %q", typed.Message())
	}
	if len(h.orders.created) != 0 {
		t.Fatalf("invalid form reached the order writer")
	}
}

func TestPlaceOrderShipsToSeparateRecipient(t *testing.T) {
	h := newHarness(t)
	h.addProduct(t, "10.00", 1)

	form := validForm()
	form.FullName = "  Charles Babbage "
	if _, err := h.svc.PlaceOrder(context.Background(), token, form); err != nil {
		t.Fatalf("place order: %v", err)
	}
	order := h.orders.created[0]
	if order.CustomerName != "Ada Lovelace" {
		t.Fatalf("customer name = %q", order.CustomerName)
	}
	if order.ShippingAddress.FullName != "Charles Babbage" {
		t.Fatalf("recipient = %q", order.ShippingAddress.FullName)
	}
}

func TestPlaceOrderRequiresRecipientName(t *testing.T) {
	h := newHarness(t)
	h.addProduct(t, "10.00", 1)

	form := validForm()
	form.FullName = " "
	_, err := h.svc.PlaceOrder(context.Background(), token, form)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	if details["full_name"] != "is required" {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
	if len(h.orders.created) != 0 {
		t.Fatalf("invalid form reached the order writer")
	}
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addProduct(t, "10.00", 1)
	h.orders.err = errors.New("connection reset")

	_, err := h.svc.PlaceOrder(ctx, token, validForm())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	view, err := h.carts.Get(ctx, token)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if view.Count != 1 {
		t.Fatalf("cart should be untouched, count %d", view.Count)
	}
	if h.metrics.failures != 1 || len(h.events.events) != 0 {
		t.Fatalf("unexpected side effects %+v %+v", h.metrics, h.events.events)
	}
	if _, err := h.svc.Summary(ctx, token); err != nil {
		t.Fatalf("summary should still show the cart: %v", err)
	}
}

func TestPlaceOrderPublishFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.addProduct(t, "60.00", 1)
	h.events.err = errors.New("topic unavailable")

	confirmation, err := h.svc.PlaceOrder(context.Background(), token, validForm())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if confirmation.Total != 64.8 {
		t.Fatalf("total = %v", confirmation.Total)
	}
}

func TestSummaryEmptyCartAndConfirmation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.svc.Summary(ctx, token); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	h.addProduct(t, "12.00", 1)
	summary, err := h.svc.Summary(ctx, token)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Cart == nil || summary.Cart.Count != 1 || summary.Confirmation != nil {
		t.Fatalf("unexpected summary %+v", summary)
	}

	placed, err := h.svc.PlaceOrder(ctx, token, validForm())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	summary, err = h.svc.Summary(ctx, token)
	if err != nil {
		t.Fatalf("summary after order: %v", err)
	}
	if summary.Confirmation == nil || summary.Confirmation.OrderNumber != placed.OrderNumber {
		t.Fatalf("expected confirmation, got %+v", summary)
	}

	if _, err := h.svc.Summary(ctx, "other-token"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("confirmation leaked across tokens: %v", err)
	}
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	if _, err := NewService(Config{}); err == nil {
		t.Fatalf("expected error for missing collaborators")
	}
}
