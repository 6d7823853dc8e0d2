// Package orders backs the admin order table: list with in-memory filters,
// line detail, and confirmed delete.
package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

// ErrConfirmationRequired guards destructive admin actions.
var ErrConfirmationRequired = pkgerrors.New(pkgerrors.CodeValidation, "confirmation required").
	WithDetails(map[string]string{"confirm": "must be true"})

// ListResult echoes the filters next to the matching rows.
type ListResult struct {
	Orders    []OrderDTO `json:"orders"`
	Filters   Filters    `json:"filters"`
	Total     int        `json:"total"`
	FetchedAt string     `json:"fetched_at"`
}

type Service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{repo: repo, logg: logg, now: time.Now}
}

// List fetches the whole table once, newest first, then filters it.
func (s *Service) List(ctx context.Context, filters Filters) (ListResult, error) {
	rows, err := s.repo.ListOrders(ctx)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	matched := filters.Apply(rows)
	return ListResult{
		Orders:    NewOrderDTOs(matched),
		Filters:   filters,
		Total:     len(matched),
		FetchedAt: s.now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// Items returns the line detail of an order.
func (s *Service) Items(ctx context.Context, id uuid.UUID) ([]ItemDTO, error) {
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get order")
	}
	return NewItemDTOs(order.Items), nil
}

// Delete removes an order once the caller has confirmed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	removed, err := s.repo.DeleteOrder(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", id.String()), "admin.order_deleted")
	return nil
}
