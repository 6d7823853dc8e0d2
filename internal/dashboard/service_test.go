package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/dbtest"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

func TestSummaryCoversLatestThreeOrders(t *testing.T) {
	conn := dbtest.Open(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	totals := []string{"10.00", "20.50", "30.25", "40.00"}
	for i, total := range totals {
		o := models.Order{
			OrderNumber:     "ISQ-" + total,
			CustomerName:    "Customer",
			CustomerEmail:   "c@example.com",
			ShippingAddress: types.ShippingAddress{Country: types.DefaultCountry},
			Items:           types.OrderItems{},
			Total:           decimal.RequireFromString(total),
			Status:          "pending",
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, conn.Create(&o).Error)
	}
	cat := models.Category{Name: "Audio", Slug: "audio"}
	require.NoError(t, conn.Create(&cat).Error)
	require.NoError(t, conn.Create(&models.Product{Title: "A", Slug: "a", Price: decimal.NewFromInt(1)}).Error)

	summary, err := NewService(NewRepository(conn)).Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.RecentOrders, 3)
	assert.Equal(t, "ISQ-40.00", summary.RecentOrders[0].OrderNumber)
	assert.Equal(t, 3, summary.TotalOrders)
	assert.Equal(t, 90.75, summary.TotalRevenue)
	assert.EqualValues(t, 1, summary.TotalProducts)
	assert.EqualValues(t, 1, summary.TotalCategories)
}

type failingRepo struct {
	Repository
}

func (failingRepo) CountProducts(context.Context) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestSummarySurfacesDependencyError(t *testing.T) {
	repo := failingRepo{Repository: NewRepository(dbtest.Open(t))}
	_, err := NewService(repo).Summary(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
