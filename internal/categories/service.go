// Package categories backs the admin category table.
package categories

import (
	"context"

	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/catalog"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

// ErrConfirmationRequired guards category deletion.
var ErrConfirmationRequired = pkgerrors.New(pkgerrors.CodeValidation, "confirmation required").
	WithDetails(map[string]string{"confirm": "must be true"})

// ListResult pairs the categories with their product counts keyed by id.
type ListResult struct {
	Categories    []catalog.CategoryDTO `json:"categories"`
	ProductCounts map[string]int64      `json:"product_counts"`
}

type Service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{repo: repo, logg: logg}
}

// List loads categories by name, then issues one count query per category.
func (s *Service) List(ctx context.Context) (ListResult, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
		}
		n, err := s.repo.CountProducts(ctx, row.ID)
		if err != nil {
			return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
		}
		counts[row.ID.String()] = n
	}
	return ListResult{Categories: catalog.NewCategoryDTOs(rows), ProductCounts: counts}, nil
}

// Delete removes a confirmed category and returns it. Its products keep
// existing without a category.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, confirmed bool) (catalog.CategoryDTO, error) {
	if !confirmed {
		return catalog.CategoryDTO{}, ErrConfirmationRequired
	}
	row, err := s.repo.Find(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return catalog.CategoryDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return catalog.CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get category")
	}
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return catalog.CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	if !removed {
		return catalog.CategoryDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "category_id", id.String()), "admin.category_deleted")
	return catalog.NewCategoryDTO(*row), nil
}

// Edit records the request and changes nothing.
func (s *Service) Edit(ctx context.Context, id uuid.UUID) {
	s.logg.Info(s.logg.WithField(ctx, "category_id", id.String()), "admin.category_edit_requested")
}
