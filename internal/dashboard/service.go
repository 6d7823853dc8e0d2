// Package dashboard summarizes the store for the admin landing tab.
package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/orders"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
)

// RecentOrderLimit is how many orders the dashboard lists.
const RecentOrderLimit = 3

// Summary is the dashboard payload. Order count and revenue cover only the
// recent orders shown.
type Summary struct {
	RecentOrders    []orders.OrderDTO `json:"recent_orders"`
	TotalOrders     int               `json:"total_orders"`
	TotalRevenue    float64           `json:"total_revenue"`
	TotalProducts   int64             `json:"total_products"`
	TotalCategories int64             `json:"total_categories"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary runs the three reads concurrently.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var (
		recent     []models.Order
		products   int64
		categories int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.RecentOrders(gctx, RecentOrderLimit)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list recent orders")
		}
		recent = rows
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountProducts(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
		}
		products = n
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountCategories(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count categories")
		}
		categories = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	revenue := decimal.Zero
	for _, order := range recent {
		revenue = revenue.Add(order.Total)
	}
	return Summary{
		RecentOrders:    orders.NewOrderDTOs(recent),
		TotalOrders:     len(recent),
		TotalRevenue:    revenue.Round(2).InexactFloat64(),
		TotalProducts:   products,
		TotalCategories: categories,
	}, nil
}
