package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/dbtest"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/pagination"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/types"
)

type fixture struct {
	db       *gorm.DB
	service  *Service
	phones   models.Category
	audio    models.Category
	products map[string]models.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	f := fixture{db: conn, products: map[string]models.Product{}}

	f.phones = models.Category{Name: "Phones", Slug: "phones"}
	f.audio = models.Category{Name: "Audio", Slug: "audio"}
	require.NoError(t, conn.Create(&f.phones).Error)
	require.NoError(t, conn.Create(&f.audio).Error)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	desc := "Noise cancelling over-ear headphones"
	seed := []struct {
		title, slug, price string
		category           *uuid.UUID
		featured           bool
		description        *string
	}{
		{"Pixel 8", "pixel-8", "699.00", &f.phones.ID, true, nil},
		{"iPhone 15", "iphone-15", "799.00", &f.phones.ID, false, nil},
		{"Studio Cans", "studio-cans", "249.50", &f.audio.ID, true, &desc},
		{"USB Cable", "usb-cable", "9.99", nil, false, nil},
	}
	for i, s := range seed {
		p := models.Product{
			Title:         s.title,
			Slug:          s.slug,
			Price:         decimal.RequireFromString(s.price),
			CategoryID:    s.category,
			Featured:      s.featured,
			Description:   s.description,
			StockQuantity: 5,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, conn.Create(&p).Error)
		f.products[s.slug] = p
	}

	f.service = NewService(NewRepository(conn))
	f.service.now = func() time.Time { return base }
	return f
}

func slugs(items []ProductDTO) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Slug)
	}
	return out
}

func TestProductsDefaultsToNewestFirst(t *testing.T) {
	f := newFixture(t)
	page, err := f.service.Products(context.Background(), ListInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"usb-cable", "studio-cans", "iphone-15", "pixel-8"}, slugs(page.Items))
	assert.Equal(t, "2024-03-01T12:00:00Z", page.FetchedAt)

	echoed, ok := page.Query.(ListInput)
	require.True(t, ok)
	assert.Equal(t, SortCreatedAt, echoed.Sort)
	assert.Equal(t, "desc", echoed.Order)
}

func TestProductsFilterByCategorySlugAndID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.service.Products(ctx, ListInput{Category: "phones", Sort: SortPrice, Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pixel-8", "iphone-15"}, slugs(page.Items))

	page, err = f.service.Products(ctx, ListInput{Category: f.audio.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, []string{"studio-cans"}, slugs(page.Items))
}

func TestProductsUnknownCategoryListsAll(t *testing.T) {
	f := newFixture(t)
	page, err := f.service.Products(context.Background(), ListInput{Category: "does-not-exist"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)
}

func TestProductsSearchTakesPrecedence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.service.Products(ctx, ListInput{Search: "PIXEL", Category: "audio", Sort: SortPrice})
	require.NoError(t, err)
	assert.Equal(t, []string{"pixel-8"}, slugs(page.Items))

	page, err = f.service.Products(ctx, ListInput{Search: "noise"})
	require.NoError(t, err)
	assert.Equal(t, []string{"studio-cans"}, slugs(page.Items), "search covers descriptions")

	page, err = f.service.Products(ctx, ListInput{Search: "100%"})
	require.NoError(t, err)
	assert.Empty(t, page.Items, "wildcards in the term are literal")
}

func TestProductsPagination(t *testing.T) {
	f := newFixture(t)
	page, err := f.service.Products(context.Background(), ListInput{Page: pagination.Params{Limit: 2, Offset: 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"studio-cans", "iphone-15"}, slugs(page.Items))
}

func TestProductsRejectsUnknownSort(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Products(context.Background(), ListInput{Sort: "title", Order: "sideways"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{"sort": "must be one of price, created_at", "order": "must be asc or desc"}, typed.Details())
}

func TestHomeReturnsFeatured(t *testing.T) {
	f := newFixture(t)
	items, err := f.service.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"studio-cans", "pixel-8"}, slugs(items))
}

func TestCategoriesOrderedByName(t *testing.T) {
	f := newFixture(t)
	items, err := f.service.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Audio", items[0].Name)
	assert.Equal(t, "Phones", items[1].Name)
}

func TestProductBySlugIncludesCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.service.ProductBySlug(ctx, "studio-cans")
	require.NoError(t, err)
	require.NotNil(t, product.Category)
	assert.Equal(t, "audio", product.Category.Slug)
	assert.Equal(t, 249.5, product.Price)
	assert.True(t, product.InStock)

	_, err = f.service.ProductBySlug(ctx, "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestProductByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	want := f.products["usb-cable"]

	got, err := f.service.Product(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.Title, got.Title)

	_, err = f.service.Product(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestNewProductDTONeverNilCollections(t *testing.T) {
	dto := NewProductDTO(models.Product{Price: decimal.RequireFromString("10.005")})
	assert.NotNil(t, dto.Images)
	assert.Equal(t, types.Specs{}, dto.Specs)
	assert.Equal(t, 10.01, dto.Price)
	assert.False(t, dto.InStock)
}
